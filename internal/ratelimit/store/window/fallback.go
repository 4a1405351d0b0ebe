package window

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ecohubs/internal/ratelimit/models"
	"ecohubs/pkg/platform/circuit"
)

// ErrDegraded is reported while the primary store is bypassed.
var ErrDegraded = errors.New("rate limits served from in-memory fallback")

// Store is the fixed-window counter contract shared by every backend.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
	Reset(ctx context.Context, key string) error
}

// FallbackStore routes checks to a primary store and switches to a local
// fallback while the primary is failing. The breaker opens after consecutive
// primary errors and closes after consecutive primary successes; while open
// the primary is still probed so recovery can be observed.
type FallbackStore struct {
	primary  Store
	fallback Store
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewFallbackStore(primary, fallback Store, breaker *circuit.Breaker, logger *slog.Logger) *FallbackStore {
	return &FallbackStore{
		primary:  primary,
		fallback: fallback,
		breaker:  breaker,
		logger:   logger,
	}
}

func (s *FallbackStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	res, err := s.primary.Allow(ctx, key, limit, window)
	if err != nil {
		useFallback, change := s.breaker.RecordFailure()
		if change.Opened {
			s.logger.WarnContext(ctx, "rate limit store degraded, using in-memory fallback",
				"breaker", s.breaker.Name(), "error", err)
		}
		if useFallback {
			return s.fallback.Allow(ctx, key, limit, window)
		}
		return nil, err
	}

	usePrimary, change := s.breaker.RecordSuccess()
	if change.Closed {
		s.logger.InfoContext(ctx, "rate limit store recovered", "breaker", s.breaker.Name())
	}
	if !usePrimary {
		return s.fallback.Allow(ctx, key, limit, window)
	}
	return res, nil
}

// Reset clears key in both stores so a recovery does not resurrect a stale
// window.
func (s *FallbackStore) Reset(ctx context.Context, key string) error {
	return errors.Join(s.primary.Reset(ctx, key), s.fallback.Reset(ctx, key))
}

// Degraded reports whether the fallback is in use.
func (s *FallbackStore) Degraded() bool {
	return s.breaker.IsOpen()
}

// Health fails while checks are served by the fallback.
func (s *FallbackStore) Health(context.Context) error {
	if s.Degraded() {
		return ErrDegraded
	}
	return nil
}
