// Package metrics records operational metrics of a cleaning run behind a
// small backend interface.
//
// A global backend defaults to a no-op, so instrumented code can always call
// the Record* helpers; cmd wiring installs Prometheus Pushgateway or Datadog
// when asked to. Concrete backends live in subpackages so the core packages
// never import a metrics client.
package metrics

import (
	"sync"
	"time"
)

// Metric names emitted by the helpers below.
const (
	StepTotal       = "moviesclean_step_total"
	StepDuration    = "moviesclean_step_duration_seconds"
	RowsTotal       = "moviesclean_rows_total"
	ContentTypeRows = "moviesclean_content_type_rows_total"
)

// Row kinds used with RecordRows.
const (
	RowsRead           = "read"
	RowsDroppedNoTitle = "dropped_no_title"
	RowsWritten        = "written"
	RowsAnomalies      = "anomalies"
	RowsStored         = "stored"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a duration-style observation.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes buffered metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs b. Passing nil restores the no-op backend.
func SetBackend(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	if b == nil {
		b = nopBackend{}
	}
	backend = b
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the installed backend.
func Flush() error {
	return current().Flush()
}

// RecordStep counts one execution of a pipeline step and observes its
// duration, labelled with the outcome.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "step": step, "status": status}

	b := current()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRows adds n to the row counter of the given kind. Non-positive n is
// ignored.
func RecordRows(job, kind string, n int64) {
	if n <= 0 {
		return
	}
	current().IncCounter(RowsTotal, float64(n), Labels{"job": job, "kind": kind})
}

// RecordContentTypes adds the per-content-type row counts of a run.
func RecordContentTypes(job string, counts map[string]int64) {
	b := current()
	for ct, n := range counts {
		if n <= 0 {
			continue
		}
		b.IncCounter(ContentTypeRows, float64(n), Labels{"job": job, "content_type": ct})
	}
}
