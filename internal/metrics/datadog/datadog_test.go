package datadog

import (
	"testing"

	"moviesclean/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	kind  string
	name  string
	value float64
	tags  []string
}

type fakeClient struct {
	sent   []sent
	closed bool
}

func (f *fakeClient) Count(name string, value int64, tags []string, _ float64) error {
	f.sent = append(f.sent, sent{"count", name, float64(value), tags})
	return nil
}

func (f *fakeClient) Histogram(name string, value float64, tags []string, _ float64) error {
	f.sent = append(f.sent, sent{"histogram", name, value, tags})
	return nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func TestNewBackend(t *testing.T) {
	t.Run("require_an_address", func(t *testing.T) {
		b, err := NewBackend(Config{})
		require.Error(t, err)
		assert.Nil(t, b)
	})

	t.Run("build_a_udp_client", func(t *testing.T) {
		b, err := NewBackend(Config{Addr: "127.0.0.1:8125", Namespace: "moviesclean.", GlobalTags: []string{"env:test"}})
		require.NoError(t, err)
		require.NotNil(t, b)
		assert.NoError(t, b.Flush())
	})
}

func TestBackend_Forwarding(t *testing.T) {
	fc := &fakeClient{}
	b := &Backend{client: fc}

	b.IncCounter(metrics.RowsTotal, 12, metrics.Labels{"kind": "read", "job": "movies"})
	b.ObserveHistogram(metrics.StepDuration, 0.25, metrics.Labels{"step": "cast"})
	require.NoError(t, b.Flush())

	require.Len(t, fc.sent, 2)
	assert.Equal(t, sent{"count", metrics.RowsTotal, 12, []string{"job:movies", "kind:read"}}, fc.sent[0])
	assert.Equal(t, sent{"histogram", metrics.StepDuration, 0.25, []string{"step:cast"}}, fc.sent[1])
	assert.True(t, fc.closed)
}

func TestBackend_NilClient(t *testing.T) {
	b := &Backend{}
	assert.NotPanics(t, func() {
		b.IncCounter(metrics.RowsTotal, 1, nil)
		b.ObserveHistogram(metrics.StepDuration, 1, nil)
	})
	assert.NoError(t, b.Flush())
}

func TestLabelsToTags(t *testing.T) {
	assert.Nil(t, labelsToTags(nil))
	assert.Equal(t, []string{"a:1", "b:2"}, labelsToTags(metrics.Labels{"b": "2", "a": "1"}))
}
