package adapters

import (
	"net/http"
	"testing"

	"order-forwarder/internal/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuthenticator(t *testing.T) {
	tests := []struct {
		scheme     string
		header     string
		wantHeader string
	}{
		{config.AuthSchemeAPIKey, "Api-Key", "secret"},
		{config.AuthSchemeBearer, "Authorization", "Bearer secret"},
	}

	for _, tt := range tests {
		t.Run(tt.scheme, func(t *testing.T) {
			auth, err := NewAuthenticator(tt.scheme, "secret")
			require.NoError(t, err)

			req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
			auth.Apply(req)
			assert.Equal(t, tt.wantHeader, req.Header.Get(tt.header))
		})
	}

	t.Run("Unsupported", func(t *testing.T) {
		auth, err := NewAuthenticator("oauth", "secret")
		assert.Nil(t, auth)
		assert.ErrorIs(t, err, config.ErrInvalidConfiguration)
	})
}
