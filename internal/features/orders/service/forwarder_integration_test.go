package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"order-forwarder/internal/core/config"
	"order-forwarder/internal/features/billing/adapters"
	billing "order-forwarder/internal/features/billing/domain"
	"order-forwarder/internal/features/orders/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeInfakt is an httptest billing API recording calls per endpoint.
type fakeInfakt struct {
	server        *httptest.Server
	clientCalls   atomic.Int32
	invoiceCalls  atomic.Int32
	clientStatus  int
	clientBody    string
	invoiceStatus int
	invoiceBody   string
	lastInvoice   map[string]any
}

func newFakeInfakt(t *testing.T) *fakeInfakt {
	t.Helper()
	f := &fakeInfakt{
		clientStatus:  http.StatusCreated,
		clientBody:    `{"client": {"id": 42}}`,
		invoiceStatus: http.StatusCreated,
		invoiceBody:   `{"invoice": {"id": 99, "full_number": "FV/99"}}`,
	}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/clients.json":
			f.clientCalls.Add(1)
			w.WriteHeader(f.clientStatus)
			w.Write([]byte(f.clientBody))
		case "/invoices.json":
			f.invoiceCalls.Add(1)
			var body map[string]map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				f.lastInvoice = body["invoice"]
			}
			w.WriteHeader(f.invoiceStatus)
			w.Write([]byte(f.invoiceBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeInfakt) forwarder(t *testing.T) *OrderForwarder {
	t.Helper()
	adapter, err := adapters.NewInfaktAdapter(config.BillingConfig{
		URL:        f.server.URL,
		APIKey:     "tok_test",
		AuthScheme: config.AuthSchemeAPIKey,
		Timeout:    2 * time.Second,
	})
	require.NoError(t, err)
	return NewOrderForwarder(adapter, WithLogger(zap.NewNop()))
}

const exampleOrder = `{
	"order_number": 1001,
	"email": "a@b.com",
	"created_at": "2024-01-05T10:00:00Z",
	"billing_address": {"name": "Jan Kowalski", "address1": "Main 1", "zip": "00-001", "city": "Warsaw", "country_code": "PL"},
	"line_items": [{"title": "Widget", "quantity": 2, "price": "9.99"}]
}`

func decodeOrder(t *testing.T, raw string) *domain.Order {
	t.Helper()
	var order domain.Order
	require.NoError(t, json.Unmarshal([]byte(raw), &order))
	return &order
}

func TestForwarder_ExampleOrder(t *testing.T) {
	fake := newFakeInfakt(t)

	result, err := fake.forwarder(t).Handle(context.Background(), decodeOrder(t, exampleOrder))

	require.NoError(t, err)
	assert.Equal(t, int64(42), result.ClientID)
	assert.Equal(t, int64(99), result.InvoiceID)
	assert.Equal(t, "FV/99", result.InvoiceNumber)

	assert.Equal(t, int32(1), fake.clientCalls.Load())
	assert.Equal(t, int32(1), fake.invoiceCalls.Load())

	require.NotNil(t, fake.lastInvoice)
	assert.Equal(t, float64(42), fake.lastInvoice["client_id"])
	assert.Equal(t, "2024-01-05", fake.lastInvoice["issue_date"])
	assert.Equal(t, "PLN", fake.lastInvoice["currency"])
	assert.Equal(t, []any{
		map[string]any{"name": "Widget", "quantity": float64(2), "unit_price": "9.99"},
	}, fake.lastInvoice["invoice_items"])
}

func TestForwarder_ClientRejected_NoInvoiceCall(t *testing.T) {
	fake := newFakeInfakt(t)
	fake.clientStatus = http.StatusUnprocessableEntity
	fake.clientBody = `{"errors": {"email": ["is invalid"]}}`

	_, err := fake.forwarder(t).Handle(context.Background(), decodeOrder(t, exampleOrder))

	require.ErrorIs(t, err, ErrClientCreationFailed)
	var upstream *billing.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, 422, upstream.StatusCode)
	assert.Contains(t, upstream.Body, "is invalid")

	assert.Equal(t, int32(1), fake.clientCalls.Load())
	assert.Equal(t, int32(0), fake.invoiceCalls.Load())
}

func TestForwarder_ClientMissingID_NoInvoiceCall(t *testing.T) {
	fake := newFakeInfakt(t)
	fake.clientBody = `{"client": {}}`

	_, err := fake.forwarder(t).Handle(context.Background(), decodeOrder(t, exampleOrder))

	assert.ErrorIs(t, err, ErrClientCreationFailed)
	assert.ErrorIs(t, err, billing.ErrMalformedResponse)
	assert.Equal(t, int32(0), fake.invoiceCalls.Load())
}

func TestForwarder_InvoiceRejected_SingleClientCall(t *testing.T) {
	fake := newFakeInfakt(t)
	fake.invoiceStatus = http.StatusBadRequest
	fake.invoiceBody = `{"error": "unknown field invoice_items"}`

	_, err := fake.forwarder(t).Handle(context.Background(), decodeOrder(t, exampleOrder))

	require.ErrorIs(t, err, ErrInvoiceCreationFailed)
	assert.Equal(t, int32(1), fake.clientCalls.Load())
	assert.Equal(t, int32(1), fake.invoiceCalls.Load())
}

func TestForwarder_MissingEmailAndNumber(t *testing.T) {
	fake := newFakeInfakt(t)

	result, err := fake.forwarder(t).Handle(context.Background(), decodeOrder(t, `{
		"created_at": "2024-02-01T08:00:00+01:00",
		"line_items": [{"title": "A", "quantity": 1, "price": "1.00"}, {"title": "B", "quantity": 4, "price": 2.5}]
	}`))

	require.NoError(t, err)
	assert.Equal(t, int64(99), result.InvoiceID)
	items, ok := fake.lastInvoice["invoice_items"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 2)
	assert.Equal(t, "2024-02-01", fake.lastInvoice["issue_date"])
}
