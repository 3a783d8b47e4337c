package adapters

import (
	"fmt"
	"net/http"

	"order-forwarder/internal/core/config"
)

// Authenticator attaches the billing API credential to an outgoing request.
type Authenticator interface {
	Apply(req *http.Request)
}

// apiKeyAuth sends the key in the Api-Key header.
type apiKeyAuth struct {
	key string
}

func (a apiKeyAuth) Apply(req *http.Request) {
	req.Header.Set("Api-Key", a.key)
}

// bearerAuth sends the key as a bearer token.
type bearerAuth struct {
	key string
}

func (a bearerAuth) Apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+a.key)
}

// NewAuthenticator returns the strategy for the configured scheme.
func NewAuthenticator(scheme, key string) (Authenticator, error) {
	switch scheme {
	case config.AuthSchemeAPIKey:
		return apiKeyAuth{key: key}, nil
	case config.AuthSchemeBearer:
		return bearerAuth{key: key}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported auth scheme %q", config.ErrInvalidConfiguration, scheme)
	}
}
