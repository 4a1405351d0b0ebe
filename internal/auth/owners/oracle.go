// Package owners answers "is this address a Safe owner?" from a TTL cache
// over the Safe Transaction Service.
package owners

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Source fetches the current owner list.
type Source interface {
	Owners(ctx context.Context) ([]string, error)
}

// Oracle caches the owner list for a TTL. After expiry concurrent callers
// share one refresh. When a refresh fails the previous list is served; with
// no previous list the oracle fails closed.
type Oracle struct {
	source Source
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	members  []string
	cachedAt time.Time
	group    singleflight.Group
}

type Option func(*Oracle)

func WithClock(now func() time.Time) Option {
	return func(o *Oracle) {
		o.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Oracle) {
		o.logger = logger
	}
}

// New builds an oracle. A nil source yields an oracle that authorizes no one.
func New(source Source, ttl time.Duration, opts ...Option) *Oracle {
	o := &Oracle{
		source: source,
		ttl:    ttl,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// IsAuthorized reports whether address is currently an owner.
func (o *Oracle) IsAuthorized(ctx context.Context, address string) bool {
	addr := strings.ToLower(strings.TrimSpace(address))
	if addr == "" {
		return false
	}
	return slices.Contains(o.ListAuthorized(ctx), addr)
}

// ListAuthorized returns the lower-cased owner list. It never errors: on
// failure it returns the stale list or nil.
func (o *Oracle) ListAuthorized(ctx context.Context) []string {
	if members, ok := o.fresh(); ok {
		return members
	}
	if o.source == nil {
		return nil
	}

	v, _, _ := o.group.Do("owners", func() (any, error) {
		if members, ok := o.fresh(); ok {
			return members, nil
		}
		// Detached so one caller's cancellation does not fail the others.
		fetched, err := o.source.Owners(context.WithoutCancel(ctx))
		o.mu.Lock()
		defer o.mu.Unlock()
		if err != nil {
			o.logger.WarnContext(ctx, "safe owner refresh failed",
				"error", err,
				"stale_entries", len(o.members),
			)
			return o.members, nil
		}
		o.members = normalize(fetched)
		o.cachedAt = o.now()
		return o.members, nil
	})
	members, _ := v.([]string)
	return slices.Clone(members)
}

func (o *Oracle) fresh() ([]string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cachedAt.IsZero() || o.now().Sub(o.cachedAt) >= o.ttl {
		return nil, false
	}
	return slices.Clone(o.members), true
}

func normalize(in []string) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			out = append(out, a)
		}
	}
	return out
}
