package service

import (
	"context"
	"time"

	"ecohubs/internal/ratelimit/models"
)

// BucketStore defines the persistence interface for fixed-window counters.
// Keys are built by models.NewKey.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
	Reset(ctx context.Context, key string) error
}

// DecisionRecorder counts allow/deny outcomes.
type DecisionRecorder interface {
	RecordDecision(class models.Class, allowed bool)
}
