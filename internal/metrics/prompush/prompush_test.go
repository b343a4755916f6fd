package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"moviesclean/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readCounterValue reads the current value of a Counter for assertions.
func readCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	require.NotNil(t, m.GetCounter())
	return m.GetCounter().GetValue()
}

func readSummaryCountSum(t *testing.T, v *prometheus.SummaryVec, labels ...string) (uint64, float64) {
	t.Helper()
	m := &dto.Metric{}
	metric, ok := v.WithLabelValues(labels...).(prometheus.Metric)
	require.True(t, ok)
	require.NoError(t, metric.Write(m))
	require.NotNil(t, m.GetSummary())
	return m.GetSummary().GetSampleCount(), m.GetSummary().GetSampleSum()
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		jobName     string
		gatewayURL  string
		wantErr     bool
		wantJobName string
	}{
		{name: "missing gateway URL returns error", jobName: "x", wantErr: true},
		{name: "empty job name uses default", gatewayURL: "http://pushgateway:9091", wantJobName: DefaultJob},
		{name: "explicit job name is preserved", jobName: "nightly", gatewayURL: "http://pushgateway:9091", wantJobName: "nightly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := NewBackend(tt.jobName, tt.gatewayURL)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, b)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantJobName, b.jobName)
			assert.Equal(t, tt.gatewayURL, b.gatewayURL)
			assert.NotNil(t, b.stepCounter)
			assert.NotNil(t, b.stepDuration)
			assert.NotNil(t, b.rowCounter)
			assert.NotNil(t, b.typeCounter)
		})
	}
}

func TestIncCounter(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("", "http://example.com")
	require.NoError(t, err)

	b.IncCounter(metrics.StepTotal, 3, metrics.Labels{"step": "cast", "status": "success"})
	b.IncCounter(metrics.RowsTotal, 5, metrics.Labels{"kind": metrics.RowsRead})
	b.IncCounter(metrics.RowsTotal, 2, metrics.Labels{"kind": metrics.RowsRead})
	b.IncCounter(metrics.ContentTypeRows, 4, metrics.Labels{"content_type": "Movie"})
	b.IncCounter("unknown_metric", 10, metrics.Labels{"foo": "bar"})

	assert.Equal(t, 3.0, readCounterValue(t, b.stepCounter.WithLabelValues("cast", "success")))
	assert.Equal(t, 7.0, readCounterValue(t, b.rowCounter.WithLabelValues(metrics.RowsRead)))
	assert.Equal(t, 4.0, readCounterValue(t, b.typeCounter.WithLabelValues("Movie")))
	assert.Equal(t, 0.0, readCounterValue(t, b.stepCounter.WithLabelValues("x", "y")))
}

func TestIncCounter_NilCollectors(t *testing.T) {
	t.Parallel()

	b := &Backend{}
	assert.NotPanics(t, func() {
		b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "s", "status": "success"})
		b.IncCounter(metrics.RowsTotal, 1, metrics.Labels{"kind": metrics.RowsRead})
		b.IncCounter(metrics.ContentTypeRows, 1, metrics.Labels{"content_type": "Movie"})
		b.ObserveHistogram(metrics.StepDuration, 1, metrics.Labels{})
	})
}

func TestObserveHistogram(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("", "http://example.com")
	require.NoError(t, err)

	lbls := metrics.Labels{"step": "years", "status": "success"}
	b.ObserveHistogram(metrics.StepDuration, 1.5, lbls)
	b.ObserveHistogram("other_metric", 2.0, lbls)

	count, sum := readSummaryCountSum(t, b.stepDuration, "years", "success")
	assert.Equal(t, uint64(1), count)
	assert.Equal(t, 1.5, sum)
}

func TestFlush(t *testing.T) {
	t.Parallel()

	type pushed struct {
		method  string
		path    string
		bodyLen int
	}
	reqCh := make(chan pushed, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		body, _ := io.ReadAll(r.Body)
		reqCh <- pushed{method: r.Method, path: r.URL.Path, bodyLen: len(body)}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	b, err := NewBackend("nightly", server.URL)
	require.NoError(t, err)
	b.IncCounter(metrics.RowsTotal, 1, metrics.Labels{"kind": metrics.RowsWritten})

	require.NoError(t, b.Flush())

	select {
	case got := <-reqCh:
		assert.Equal(t, http.MethodPut, got.method)
		assert.Contains(t, got.path, "/job/nightly")
		assert.Positive(t, got.bodyLen)
	default:
		t.Fatal("Flush did not reach the Pushgateway")
	}
}

func TestFlush_GatewayError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	b, err := NewBackend("", server.URL)
	require.NoError(t, err)
	assert.ErrorContains(t, b.Flush(), "prompush: push")
}

func BenchmarkIncCounterRows(b *testing.B) {
	backend, err := NewBackend("", "http://example.com")
	if err != nil {
		b.Fatalf("NewBackend() error = %v", err)
	}
	labels := metrics.Labels{"kind": metrics.RowsRead}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		backend.IncCounter(metrics.RowsTotal, 1, labels)
	}
}
