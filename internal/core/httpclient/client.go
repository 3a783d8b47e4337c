package httpclient

import (
	"net/http"
	"strconv"
	"time"

	"order-forwarder/internal/core/logger"
	"order-forwarder/internal/core/metrics"
	"order-forwarder/internal/core/proxy"

	"go.uber.org/zap"
)

// LoggingRoundTripper logs and measures every outbound request.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
// Query strings are left out of the logs; request bodies and auth headers are never logged.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	host := req.URL.Host
	target := req.URL.Scheme + "://" + host + req.URL.Path

	logger.Get().Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", target),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)
	metrics.UpstreamDuration.WithLabelValues(host, req.Method).Observe(duration.Seconds())

	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(host, req.Method, "error").Inc()
		logger.Get().Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", target),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.UpstreamRequests.WithLabelValues(host, req.Method, strconv.Itoa(resp.StatusCode)).Inc()
	logger.Get().Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", target),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// NewClient returns an http.Client with logging middleware.
func NewClient(timeout time.Duration) *http.Client {
	return NewProxiedClient(timeout, proxy.Settings{})
}

// NewProxiedClient returns an http.Client with logging middleware that dials
// through the given proxy when it is configured.
func NewProxiedClient(timeout time.Duration, settings proxy.Settings) *http.Client {
	base := http.DefaultTransport.(*http.Transport)
	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: settings.Transport(base),
		},
		Timeout: timeout,
	}
}
