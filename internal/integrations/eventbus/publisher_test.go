package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"ecohubs/internal/integrations"
	"ecohubs/pkg/platform/sentinel"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
	closed  bool
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		f.records = append(f.records, r)
		results = append(results, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return results
}

func (f *fakeProducer) Close() { f.closed = true }

func TestPublishWritesEnvelope(t *testing.T) {
	fp := &fakeProducer{}
	p := &Publisher{client: fp, topic: "ecohubs.applications"}

	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	err := p.Publish(context.Background(), "sub-1", Event{
		Type:       TypeApplicationSubmitted,
		OccurredAt: at,
		Payload:    map[string]string{"email": "jane@example.org"},
	})
	require.NoError(t, err)
	require.Len(t, fp.records, 1)

	rec := fp.records[0]
	assert.Equal(t, "ecohubs.applications", rec.Topic)
	assert.Equal(t, "sub-1", string(rec.Key))
	assert.Equal(t, "event_type", rec.Headers[0].Key)
	assert.Equal(t, TypeApplicationSubmitted, string(rec.Headers[0].Value))

	var decoded Event
	require.NoError(t, json.Unmarshal(rec.Value, &decoded))
	assert.NotEmpty(t, decoded.ID)
	assert.True(t, at.Equal(decoded.OccurredAt))
}

func TestPublishFailureIsUnavailable(t *testing.T) {
	p := &Publisher{client: &fakeProducer{err: errors.New("broker down")}, topic: "t"}

	err := p.Publish(context.Background(), "k", Event{Type: TypeApplicationSubmitted})
	require.Error(t, err)
	assert.Equal(t, integrations.CategoryUnavailable, integrations.GetCategory(err))
}

func TestNewRequiresBrokersAndTopic(t *testing.T) {
	_, err := New(nil, "t")
	require.ErrorIs(t, err, sentinel.ErrNotConfigured)
	_, err = New([]string{"localhost:9092"}, "")
	require.ErrorIs(t, err, sentinel.ErrNotConfigured)
}

func TestClose(t *testing.T) {
	fp := &fakeProducer{}
	(&Publisher{client: fp}).Close()
	assert.True(t, fp.closed)
}
