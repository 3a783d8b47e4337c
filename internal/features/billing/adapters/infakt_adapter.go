package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"order-forwarder/internal/core/config"
	"order-forwarder/internal/core/httpclient"
	"order-forwarder/internal/core/proxy"
	"order-forwarder/internal/features/billing/domain"
)

const (
	clientsPath  = "/clients.json"
	invoicesPath = "/invoices.json"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 1 << 20
	// maxDiagnosticBytes caps the body kept on UpstreamError.
	maxDiagnosticBytes = 4 << 10
)

// InfaktAdapter implements the BillingProvider port against the inFakt REST API.
type InfaktAdapter struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// baseURL is the API root without trailing slash.
	baseURL string
	// auth attaches the credential to each request.
	auth Authenticator
}

// NewInfaktAdapter creates an adapter from an explicit billing configuration.
func NewInfaktAdapter(cfg config.BillingConfig) (*InfaktAdapter, error) {
	auth, err := NewAuthenticator(cfg.AuthScheme, cfg.APIKey)
	if err != nil {
		return nil, err
	}

	return &InfaktAdapter{
		client:  httpclient.NewProxiedClient(cfg.Timeout, proxy.FromConfig(cfg.Proxy)),
		baseURL: strings.TrimRight(cfg.URL, "/"),
		auth:    auth,
	}, nil
}

// clientEnvelope wraps the client payload the way the API expects it.
type clientEnvelope struct {
	Client domain.ClientRecord `json:"client"`
}

// clientResponse is the relevant part of the create-client response.
type clientResponse struct {
	Client *domain.CreatedClient `json:"client"`
}

// invoiceEnvelope wraps the invoice payload the way the API expects it.
type invoiceEnvelope struct {
	Invoice domain.InvoiceRecord `json:"invoice"`
}

// invoiceResponse is the relevant part of the create-invoice response.
type invoiceResponse struct {
	Invoice *domain.CreatedInvoice `json:"invoice"`
}

// CreateClient creates a client and returns the identifier assigned by the API.
func (a *InfaktAdapter) CreateClient(ctx context.Context, client domain.ClientRecord) (*domain.CreatedClient, error) {
	const op = "create client"

	var out clientResponse
	status, body, err := a.post(ctx, op, clientsPath, clientEnvelope{Client: client}, &out)
	if err != nil {
		return nil, err
	}

	if out.Client == nil || out.Client.ID == 0 {
		return nil, &domain.UpstreamError{
			Operation:  op,
			StatusCode: status,
			Body:       body,
			Err:        fmt.Errorf("%w: missing client.id", domain.ErrMalformedResponse),
		}
	}

	return out.Client, nil
}

// CreateInvoice creates an invoice and returns its identifier and full number.
func (a *InfaktAdapter) CreateInvoice(ctx context.Context, invoice domain.InvoiceRecord) (*domain.CreatedInvoice, error) {
	const op = "create invoice"

	var out invoiceResponse
	status, body, err := a.post(ctx, op, invoicesPath, invoiceEnvelope{Invoice: invoice}, &out)
	if err != nil {
		return nil, err
	}

	if out.Invoice == nil || out.Invoice.ID == 0 {
		return nil, &domain.UpstreamError{
			Operation:  op,
			StatusCode: status,
			Body:       body,
			Err:        fmt.Errorf("%w: missing invoice.id", domain.ErrMalformedResponse),
		}
	}

	return out.Invoice, nil
}

// HealthCheck verifies that the API is reachable and the credential is accepted.
func (a *InfaktAdapter) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+clientsPath+"?limit=1", nil)
	if err != nil {
		return fmt.Errorf("health check failed to create request: %w", err)
	}
	a.setHeaders(req)

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}

	return nil
}

// post sends payload as JSON and decodes a 200/201 response into out.
// It returns the status and the diagnostic body so callers can report
// semantically incomplete responses.
func (a *InfaktAdapter) post(ctx context.Context, op, path string, payload, out any) (int, string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, "", fmt.Errorf("%s: failed to encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, "", fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	a.setHeaders(req)

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("%s: failed to execute request: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("%s: failed to read response: %w", op, err)
	}
	body := truncate(raw)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return resp.StatusCode, body, &domain.UpstreamError{
			Operation:  op,
			StatusCode: resp.StatusCode,
			Body:       body,
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, body, &domain.UpstreamError{
			Operation:  op,
			StatusCode: resp.StatusCode,
			Body:       body,
			Err:        fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err),
		}
	}

	return resp.StatusCode, body, nil
}

func (a *InfaktAdapter) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	a.auth.Apply(req)
}

func truncate(raw []byte) string {
	if len(raw) > maxDiagnosticBytes {
		return string(raw[:maxDiagnosticBytes]) + "...(truncated)"
	}
	return string(raw)
}
