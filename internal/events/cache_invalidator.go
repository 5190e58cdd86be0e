package events

import (
	"context"

	"go.uber.org/zap"
)

// CacheInvalidator is the slice of the report cache the publisher needs
// to drop stale entries.
type CacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheInvalidatingPublisher wraps a publisher and drops cached report
// responses whenever a write event goes out. Every successful ledger
// write publishes an event, so cached aggregates never outlive the data
// they were computed from.
type CacheInvalidatingPublisher struct {
	next    EventPublisher
	cache   CacheInvalidator
	pattern string
	logger  *zap.Logger
}

// NewCacheInvalidatingPublisher decorates next with report cache invalidation
func NewCacheInvalidatingPublisher(next EventPublisher, cache CacheInvalidator, pattern string, logger *zap.Logger) *CacheInvalidatingPublisher {
	return &CacheInvalidatingPublisher{
		next:    next,
		cache:   cache,
		pattern: pattern,
		logger:  logger,
	}
}

func (p *CacheInvalidatingPublisher) Publish(ctx context.Context, event interface{}) error {
	err := p.next.Publish(ctx, event)

	if derr := p.cache.DeleteByPattern(ctx, p.pattern); derr != nil {
		p.logger.Warn("Failed to invalidate report cache",
			zap.String("pattern", p.pattern),
			zap.Error(derr),
		)
	}
	return err
}
