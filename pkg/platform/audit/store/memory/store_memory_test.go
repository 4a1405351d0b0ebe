package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "ecohubs/pkg/platform/audit"
)

func TestListRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(3)

	for i := range 5 {
		require.NoError(t, store.Append(ctx, audit.Event{Subject: fmt.Sprintf("e%d", i)}))
	}

	events, err := store.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "e4", events[0].Subject)
	assert.Equal(t, "e2", events[2].Subject)

	events, err = store.ListRecent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestListRecentBeforeWrap(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(10)
	require.NoError(t, store.Append(ctx, audit.Event{Subject: "only"}))

	events, err := store.ListRecent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "only", events[0].Subject)

	store.Clear()
	events, err = store.ListRecent(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, events)
}
