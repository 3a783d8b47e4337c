package cache

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// Storage is a key/value store that fiber middleware (the webhook limiter)
// can keep its counters in. Implementations must return nil, nil from Get
// for a missing key.
type Storage interface {
	fiber.Storage

	// Ping checks if the storage service is reachable.
	Ping(ctx context.Context) error
}
