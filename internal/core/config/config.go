package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingConfiguration is returned when a required key has no value.
var ErrMissingConfiguration = errors.New("missing required configuration")

// ErrInvalidConfiguration is returned when a key holds a value the service cannot use.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Supported billing API authentication schemes.
const (
	AuthSchemeAPIKey = "api-key"
	AuthSchemeBearer = "bearer"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// DefaultCurrency is used for invoices when the order carries no currency.
	DefaultCurrency string `mapstructure:"DEFAULT_CURRENCY" default:"PLN"`

	// Billing holds the inFakt API configuration.
	Billing BillingConfig `mapstructure:",squash"`

	// RateLimit guards the webhook endpoint.
	RateLimit RateLimitConfig `mapstructure:",squash"`
}

// BillingConfig holds the credentials and transport settings for the billing API.
type BillingConfig struct {
	// URL is the base URL of the billing API, without trailing slash.
	URL string `mapstructure:"INFAKT_API_URL" default:"https://api.infakt.pl/v3"`
	// APIKey is the static credential sent with every request.
	APIKey string `mapstructure:"INFAKT_API_TOKEN" required:"true"`
	// AuthScheme selects how APIKey is sent: "api-key" or "bearer".
	AuthScheme string `mapstructure:"INFAKT_AUTH_SCHEME" default:"api-key"`
	// Timeout bounds each outbound call.
	Timeout time.Duration `mapstructure:"INFAKT_TIMEOUT" default:"10s"`
	// VerifyOnStart runs a health check against the API before serving.
	VerifyOnStart bool `mapstructure:"INFAKT_VERIFY_ON_START" default:"false"`

	// Proxy routes outbound calls through an HTTP proxy when enabled.
	Proxy ProxyConfig `mapstructure:",squash"`
}

// ProxyConfig describes an optional outbound HTTP proxy.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"OUTBOUND_PROXY_ENABLED" default:"false"`
	Hostname string `mapstructure:"OUTBOUND_PROXY_HOST"`
	Port     int    `mapstructure:"OUTBOUND_PROXY_PORT"`
	Username string `mapstructure:"OUTBOUND_PROXY_USER"`
	Password string `mapstructure:"OUTBOUND_PROXY_PASSWORD"`
}

// RateLimitConfig holds the webhook limiter settings. Max of 0 disables the limiter.
type RateLimitConfig struct {
	// Max is the number of webhook deliveries accepted per window and client IP.
	Max int `mapstructure:"RATE_LIMIT_MAX" default:"0"`
	// Window is the limiter window.
	Window time.Duration `mapstructure:"RATE_LIMIT_WINDOW" default:"1m"`
	// RedisURL shares limiter counters between replicas; in-memory when empty.
	RedisURL string `mapstructure:"REDIS_URL"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if err := config.Billing.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the billing settings that cannot be expressed with tags.
func (c BillingConfig) Validate() error {
	switch c.AuthScheme {
	case AuthSchemeAPIKey, AuthSchemeBearer:
	default:
		return fmt.Errorf("%w: INFAKT_AUTH_SCHEME must be %q or %q, got %q",
			ErrInvalidConfiguration, AuthSchemeAPIKey, AuthSchemeBearer, c.AuthScheme)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: INFAKT_TIMEOUT must be positive", ErrInvalidConfiguration)
	}
	return nil
}

// processTags iterates over the struct fields, binds env keys and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("failed to bind %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && isZero(val.Field(i)) {
			return fmt.Errorf("%w: %s", ErrMissingConfiguration, field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Bool:
		return !v.Bool()
	default:
		return v.IsZero()
	}
}
