package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Order represents the order-created webhook payload pushed by the shop.
// Every field is optional on the wire; missing values decode to zero values.
type Order struct {
	// OrderNumber is the shop-facing order number. Nil when absent.
	OrderNumber *int64 `json:"order_number"`
	// Email is the customer's contact email.
	Email string `json:"email"`
	// Currency is the ISO 4217 currency code of the order.
	Currency string `json:"currency"`
	// CreatedAt is the ISO-8601 creation timestamp as sent by the shop.
	CreatedAt string `json:"created_at"`
	// BillingAddress holds the invoicing address. Nil when absent.
	BillingAddress *BillingAddress `json:"billing_address"`
	// LineItems contains the ordered products, in order.
	LineItems []LineItem `json:"line_items" validate:"dive"`
}

// BillingAddress is the billing address block of an order.
type BillingAddress struct {
	// Name is the full name of the billed person or company.
	Name string `json:"name"`
	// Address1 is the primary street line.
	Address1 string `json:"address1"`
	// Zip is the postal code.
	Zip string `json:"zip"`
	// City is the billing city.
	City string `json:"city"`
	// CountryCode is the ISO 3166-1 alpha-2 country code.
	CountryCode string `json:"country_code" validate:"omitempty,len=2,alpha"`
}

// LineItem represents a product within an order.
type LineItem struct {
	// Title is the product title.
	Title string `json:"title"`
	// Quantity is the number of units ordered.
	Quantity int `json:"quantity" validate:"gte=0"`
	// Price is the unit price.
	Price Price `json:"price"`
}

// ForwardResult holds the identifiers created upstream for one order.
type ForwardResult struct {
	ClientID      int64  `json:"client_id"`
	InvoiceID     int64  `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
}

// Price is a decimal amount kept in its textual form. The shop sends prices as
// strings ("9.99"), but plain JSON numbers are accepted as well.
type Price string

// UnmarshalJSON accepts both quoted and bare decimal values.
func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = Price(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*p = Price(n.String())
	return nil
}

// IssueDate returns the date portion (YYYY-MM-DD) of CreatedAt, in the
// timestamp's own offset. Empty when CreatedAt is empty.
func (o Order) IssueDate() string {
	if o.CreatedAt == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, o.CreatedAt); err == nil {
		return t.Format(time.DateOnly)
	}
	date, _, _ := strings.Cut(o.CreatedAt, "T")
	return date
}

// HasAddress reports whether any street-level address field is set.
func (a *BillingAddress) HasAddress() bool {
	if a == nil {
		return false
	}
	return a.Address1 != "" || a.Zip != "" || a.City != "" || a.CountryCode != ""
}
