package ports

import (
	"context"

	billing "order-forwarder/internal/features/billing/domain"
	"order-forwarder/internal/features/orders/domain"
)

// OrderForwarder is the primary port: it turns one order into a client and an invoice.
type OrderForwarder interface {
	Handle(ctx context.Context, order *domain.Order) (*domain.ForwardResult, error)
}

// BillingProvider defines the interface for creating records in the billing system.
// This is a Secondary Port (Driven Port).
type BillingProvider interface {
	// CreateClient creates a client and returns the identifier assigned upstream.
	CreateClient(ctx context.Context, client billing.ClientRecord) (*billing.CreatedClient, error)
	// CreateInvoice creates an invoice for a previously created client.
	CreateInvoice(ctx context.Context, invoice billing.InvoiceRecord) (*billing.CreatedInvoice, error)
}
