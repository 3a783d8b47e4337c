package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"order-forwarder/internal/core/logger"
	"order-forwarder/internal/core/metrics"
	billing "order-forwarder/internal/features/billing/domain"
	"order-forwarder/internal/features/orders/domain"
	"order-forwarder/internal/features/orders/ports"

	"go.uber.org/zap"
)

// DefaultCurrency is used when neither the order nor the options name a currency.
const DefaultCurrency = "PLN"

var (
	// ErrClientCreationFailed is returned when the billing API did not create the client.
	ErrClientCreationFailed = errors.New("client creation failed")
	// ErrInvoiceCreationFailed is returned when the billing API did not create the invoice.
	// The client created earlier in the same call is left in place.
	ErrInvoiceCreationFailed = errors.New("invoice creation failed")
)

// OrderForwarder creates a billing client and then an invoice for each order.
// It holds no mutable state and is safe for concurrent use.
type OrderForwarder struct {
	billing         ports.BillingProvider
	defaultCurrency string
	logger          *zap.Logger
}

// Option configures an OrderForwarder.
type Option func(*OrderForwarder)

// WithDefaultCurrency overrides the currency used for orders without one.
func WithDefaultCurrency(currency string) Option {
	return func(f *OrderForwarder) {
		if currency != "" {
			f.defaultCurrency = currency
		}
	}
}

// WithLogger sets the logger used for milestones and failures.
func WithLogger(l *zap.Logger) Option {
	return func(f *OrderForwarder) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewOrderForwarder creates a new instance of OrderForwarder.
func NewOrderForwarder(provider ports.BillingProvider, opts ...Option) *OrderForwarder {
	f := &OrderForwarder{
		billing:         provider,
		defaultCurrency: DefaultCurrency,
		logger:          logger.Named("forwarder"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Handle forwards one order: it creates the client, then an invoice referencing
// the returned client id. Either failure is terminal; nothing is retried.
func (f *OrderForwarder) Handle(ctx context.Context, order *domain.Order) (*domain.ForwardResult, error) {
	if order == nil {
		order = &domain.Order{}
	}
	start := time.Now()
	log := f.logger.With(
		zap.Int64p("order_number", order.OrderNumber),
		zap.String("email", order.Email),
	)

	if order.OrderNumber == nil || order.Email == "" {
		log.Warn("Order received with missing identifiers",
			zap.Bool("order_number_missing", order.OrderNumber == nil),
			zap.Bool("email_missing", order.Email == ""),
		)
	} else {
		log.Info("Order received")
	}

	client, err := f.billing.CreateClient(ctx, buildClient(order))
	if err != nil {
		f.logFailure(log, "Client creation failed", err)
		metrics.OrdersForwarded.WithLabelValues(metrics.OutcomeClientFailed).Inc()
		return nil, fmt.Errorf("%w: %w", ErrClientCreationFailed, err)
	}
	log.Info("Client created", zap.Int64("client_id", client.ID))

	invoice, err := f.billing.CreateInvoice(ctx, f.buildInvoice(client.ID, order))
	if err != nil {
		f.logFailure(log, "Invoice creation failed", err)
		metrics.OrdersForwarded.WithLabelValues(metrics.OutcomeInvoiceFailed).Inc()
		return nil, fmt.Errorf("%w: %w", ErrInvoiceCreationFailed, err)
	}
	log.Info("Invoice created",
		zap.Int64("invoice_id", invoice.ID),
		zap.String("invoice_number", invoice.FullNumber),
	)

	duration := time.Since(start)
	metrics.ForwardDuration.Observe(duration.Seconds())
	metrics.OrdersForwarded.WithLabelValues(metrics.OutcomeOK).Inc()
	log.Debug("Order forwarded", zap.Duration("duration", duration))

	return &domain.ForwardResult{
		ClientID:      client.ID,
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.FullNumber,
	}, nil
}

// logFailure logs an upstream failure with status and body when available.
func (f *OrderForwarder) logFailure(log *zap.Logger, msg string, err error) {
	fields := []zap.Field{zap.Error(err)}

	var upstream *billing.UpstreamError
	if errors.As(err, &upstream) {
		fields = append(fields,
			zap.Int("status_code", upstream.StatusCode),
			zap.String("response_body", upstream.Body),
		)
	}

	log.Error(msg, fields...)
}

// buildClient maps the billing name, email and address into a client record.
func buildClient(order *domain.Order) billing.ClientRecord {
	client := billing.ClientRecord{Email: order.Email}

	addr := order.BillingAddress
	if addr == nil {
		return client
	}

	client.Name = addr.Name
	if addr.HasAddress() {
		client.Addresses = []billing.Address{{
			Street:     addr.Address1,
			PostalCode: addr.Zip,
			City:       addr.City,
			Country:    addr.CountryCode,
		}}
	}

	return client
}

// buildInvoice maps line items 1:1 onto invoice lines.
func (f *OrderForwarder) buildInvoice(clientID int64, order *domain.Order) billing.InvoiceRecord {
	currency := order.Currency
	if currency == "" {
		currency = f.defaultCurrency
	}

	lines := make([]billing.InvoiceLine, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		lines = append(lines, billing.InvoiceLine{
			Name:      item.Title,
			Quantity:  item.Quantity,
			UnitPrice: string(item.Price),
		})
	}

	return billing.InvoiceRecord{
		ClientID:  clientID,
		IssueDate: order.IssueDate(),
		Currency:  currency,
		Lines:     lines,
	}
}
