package server

import (
	"context"
	"fmt"
	"net/http"

	"order-forwarder/internal/core/config"
	"order-forwarder/internal/core/logger"
	"order-forwarder/internal/core/metrics"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	_ "order-forwarder/docs/swagger"
)

// Server holds the Fiber application and configuration.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// cfg holds the application configuration.
	cfg *config.AppConfig
	// storage keeps limiter counters; nil means in-memory.
	storage fiber.Storage
}

// Option configures a Server.
type Option func(*Server)

// WithStorage makes the webhook limiter keep its counters in s.
func WithStorage(s fiber.Storage) Option {
	return func(srv *Server) {
		srv.storage = s
	}
}

// New creates a new Server instance with configured middleware.
func New(cfg *config.AppConfig, opts ...Option) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "order-forwarder",
	})

	app.Use(requestid.New(requestid.Config{
		Header:    "X-Ray-ID",
		Generator: uuid.NewString,
	}))

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	srv := &Server{
		App: app,
		cfg: cfg,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

// health reports liveness.
// @Summary Liveness probe
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func health(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// Limiter returns the per-IP rate limiter for webhook routes.
// It passes every request through when RATE_LIMIT_MAX is 0.
func (s *Server) Limiter() fiber.Handler {
	rl := s.cfg.RateLimit
	if rl.Max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return limiter.New(limiter.Config{
		Max:        rl.Max,
		Expiration: rl.Window,
		Storage:    s.storage,
		LimitReached: func(c *fiber.Ctx) error {
			metrics.OrdersForwarded.WithLabelValues(metrics.OutcomeRateLimited).Inc()
			rayID, _ := c.Locals("requestid").(string)
			return c.Status(http.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many requests",
				"ray_id":  rayID,
			})
		},
	})
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting server", zap.String("address", addr))
	return s.App.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Get().Info("Shutting down server")
	return s.App.ShutdownWithContext(ctx)
}
