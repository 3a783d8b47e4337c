package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order-forwarder/internal/core/cache"
	"order-forwarder/internal/core/config"
	"order-forwarder/internal/core/logger"
	"order-forwarder/internal/core/server"
	billingadapter "order-forwarder/internal/features/billing/adapters"
	orderhandler "order-forwarder/internal/features/orders/handler"
	orderservice "order-forwarder/internal/features/orders/service"

	"go.uber.org/zap"
)

// @title Order Forwarder API
// @version 1.0
// @description Receives shop order webhooks and creates the matching client and invoice in inFakt.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.String("billing_url", cfg.Billing.URL),
	)

	infakt, err := billingadapter.NewInfaktAdapter(cfg.Billing)
	if err != nil {
		l.Fatal("Failed to create billing adapter", zap.Error(err))
	}

	if cfg.Billing.VerifyOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Billing.Timeout)
		err := infakt.HealthCheck(ctx)
		cancel()
		if err != nil {
			l.Fatal("Billing API Health Check Failed", zap.Error(err))
		}
		l.Info("Billing API connection verified")
	}

	var opts []server.Option
	if cfg.RateLimit.RedisURL != "" {
		store, err := cache.NewRedisAdapter(cfg.RateLimit.RedisURL, "order-forwarder:limiter:")
		if err != nil {
			l.Fatal("Failed to create Redis storage", zap.Error(err))
		}
		defer store.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = store.Ping(ctx)
		cancel()
		if err != nil {
			l.Fatal("Redis Health Check Failed", zap.Error(err))
		}
		l.Info("Redis connection verified")
		opts = append(opts, server.WithStorage(store))
	}

	forwarder := orderservice.NewOrderForwarder(infakt,
		orderservice.WithDefaultCurrency(cfg.DefaultCurrency),
	)
	webhookHandler := orderhandler.NewWebhookHandler(forwarder)

	srv := server.New(cfg, opts...)

	// Register Routes
	srv.App.Post("/shopify", srv.Limiter(), webhookHandler.HandleOrderCreated)

	go func() {
		if err := srv.Run(); err != nil {
			l.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.Error("Server shutdown failed", zap.Error(err))
	}
}
