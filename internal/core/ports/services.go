package ports

import (
	"context"

	"github.com/samirrijal/coverage-area/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishCoverageFilled(ctx context.Context, event *domain.CoverageEvent) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeCoverageFilled(ctx context.Context, durable string, handler func(ctx context.Context, event *domain.CoverageEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
