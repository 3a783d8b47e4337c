package domain

// Address is a postal address attached to a client record.
type Address struct {
	// Street is the street line, including the building number.
	Street string `json:"street"`
	// PostalCode is the zip/postal code.
	PostalCode string `json:"postal_code"`
	// City is the city name.
	City string `json:"city"`
	// Country is the ISO 3166-1 alpha-2 country code.
	Country string `json:"country"`
}

// ClientRecord is the payload sent to create a client in the billing API.
type ClientRecord struct {
	// Name is the display name of the client.
	Name string `json:"name"`
	// Email is the client's contact address. May be empty.
	Email string `json:"email"`
	// Addresses holds the billing address when the order carries one.
	Addresses []Address `json:"addresses,omitempty"`
}

// InvoiceLine is a single position on an invoice.
type InvoiceLine struct {
	// Name is the product or service name.
	Name string `json:"name"`
	// Quantity is the number of units.
	Quantity int `json:"quantity"`
	// UnitPrice is the decimal unit price, passed through as received.
	UnitPrice string `json:"unit_price"`
}

// InvoiceRecord is the payload sent to create an invoice in the billing API.
type InvoiceRecord struct {
	// ClientID references a client created earlier in the same request.
	ClientID int64 `json:"client_id"`
	// IssueDate is formatted as YYYY-MM-DD. Omitted lets the API pick today.
	IssueDate string `json:"issue_date,omitempty"`
	// Currency is the ISO 4217 code.
	Currency string `json:"currency,omitempty"`
	// Lines keeps the order of the source line items.
	Lines []InvoiceLine `json:"invoice_items"`
}

// CreatedClient holds the identifier the billing API assigned to a new client.
type CreatedClient struct {
	ID int64 `json:"id"`
}

// CreatedInvoice holds the identifiers the billing API assigned to a new invoice.
type CreatedInvoice struct {
	ID         int64  `json:"id"`
	FullNumber string `json:"full_number"`
}
