package admin

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"ecohubs/internal/integrations/airtable"
)

// applicationsCache holds the joined applications list for ttl. A failed
// refresh serves the previous list when there is one.
type applicationsCache struct {
	store  ApplicationStore
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu       sync.Mutex
	apps     []airtable.Application
	cachedAt time.Time
	group    singleflight.Group
}

func (c *applicationsCache) get(ctx context.Context) ([]airtable.Application, error) {
	if apps, ok := c.fresh(); ok {
		return apps, nil
	}
	v, err, _ := c.group.Do("applications", func() (any, error) {
		if apps, ok := c.fresh(); ok {
			return apps, nil
		}
		fetched, err := c.store.ListApplications(context.WithoutCancel(ctx))
		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			if c.cachedAt.IsZero() {
				return nil, err
			}
			c.logger.WarnContext(ctx, "applications refresh failed, serving stale list",
				"error", err,
				"stale_entries", len(c.apps),
			)
			return c.apps, nil
		}
		c.apps = fetched
		c.cachedAt = c.now()
		return c.apps, nil
	})
	if err != nil {
		return nil, err
	}
	apps, _ := v.([]airtable.Application)
	return slices.Clone(apps), nil
}

func (c *applicationsCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apps = nil
	c.cachedAt = time.Time{}
}

func (c *applicationsCache) fresh() ([]airtable.Application, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cachedAt.IsZero() || c.now().Sub(c.cachedAt) >= c.ttl {
		return nil, false
	}
	return slices.Clone(c.apps), true
}
