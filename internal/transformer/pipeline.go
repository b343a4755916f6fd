package transformer

import (
	"context"
	"strings"
	"time"

	"moviesclean/internal/logging"
	"moviesclean/internal/metrics"
	"moviesclean/internal/transformer/builtin"
	"moviesclean/pkg/records"

	"golang.org/x/sync/errgroup"
)

// DefaultJob labels metrics when Options.Job is empty.
const DefaultJob = "movies_clean"

// chunkRows is both the smallest chunk handed to a worker and the interval
// at which row loops poll for cancellation.
const chunkRows = 512

// Options tunes a run.
type Options struct {
	Job     string
	Workers int // <= 1 runs every step on the calling goroutine
}

// StepTiming is the wall time of one step.
type StepTiming struct {
	Name    string
	Elapsed time.Duration
}

// Stats summarizes a run.
type Stats struct {
	Read           int // rows in the input table
	DroppedNoTitle int // rows removed by the title filter
	Written        int // rows in the output table
	Anomalies      int // rows whose end year precedes the start year
	Steps          []StepTiming
}

// Run applies the default chain to every row of in, drops rows without a
// title and projects the result to OutputColumns. The input table is not
// modified. The only error Run returns is the context's.
func Run(ctx context.Context, in *records.Table, opts Options) (*records.Table, Stats, error) {
	job := opts.Job
	if job == "" {
		job = DefaultJob
	}
	log := logging.FromContext(ctx)

	var st Stats
	if err := ctx.Err(); err != nil {
		return nil, st, err
	}

	rows := make([]records.Record, in.Len())
	for i, r := range in.Rows {
		rows[i] = r.Clone()
	}
	st.Read = len(rows)
	chain := DefaultChain()
	log.Info("transform start", "job", job, "rows", st.Read, "workers", max(opts.Workers, 1),
		"steps", strings.Join(chain.Names(), ","))

	for _, s := range chain {
		start := time.Now()
		err := mapRows(ctx, len(rows), opts.Workers, func(i int) { s.applyTo(rows[i]) })
		elapsed := time.Since(start)
		metrics.RecordStep(job, s.Name, err, elapsed)
		if err != nil {
			return nil, st, err
		}
		st.Steps = append(st.Steps, StepTiming{Name: s.Name, Elapsed: elapsed})
		log.Debug("step done", "step", s.Name, "rows", len(rows), "elapsed", elapsed)
	}

	for _, r := range rows {
		if isAnomaly(r) {
			st.Anomalies++
			title, _ := r.Get(ColTitle).AsText()
			log.Debug("end year before start year", "title", title,
				"start_year", builtin.IntOf(r.Get(ColStartYear)).V,
				"end_year", builtin.IntOf(r.Get(ColEndYear)).V)
		}
	}

	work := &records.Table{Columns: withDerived(in.Columns), Rows: rows}
	kept := builtin.Require{Fields: []string{ColTitle}}.Apply(work)
	out := kept.Project(OutputColumns)

	if err := ctx.Err(); err != nil {
		return nil, st, err
	}

	st.Written = out.Len()
	st.DroppedNoTitle = st.Read - st.Written

	metrics.RecordRows(job, metrics.RowsRead, int64(st.Read))
	metrics.RecordRows(job, metrics.RowsDroppedNoTitle, int64(st.DroppedNoTitle))
	metrics.RecordRows(job, metrics.RowsAnomalies, int64(st.Anomalies))
	metrics.RecordContentTypes(job, contentTypeCounts(out))

	log.Info("transform done", "job", job, "read", st.Read, "kept", st.Written,
		"dropped_no_title", st.DroppedNoTitle, "anomalies", st.Anomalies)
	return out, st, nil
}

// isAnomaly reports a row whose year range runs backwards.
func isAnomaly(r records.Record) bool {
	_, anomaly := builtin.SeriesDurationYears(
		builtin.IntOf(r.Get(ColStartYear)),
		builtin.IntOf(r.Get(ColEndYear)),
	)
	return anomaly
}

func withDerived(cols []string) []string {
	out := append([]string(nil), cols...)
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		seen[c] = true
	}
	for _, c := range DerivedColumns {
		if !seen[c] {
			out = append(out, c)
		}
	}
	return out
}

func contentTypeCounts(t *records.Table) map[string]int64 {
	counts := make(map[string]int64, len(builtin.ContentTypes))
	for _, r := range t.Rows {
		if s, ok := r.Get(ColContentType).AsText(); ok {
			counts[s]++
		}
	}
	return counts
}

// mapRows calls fn for every index in [0, n). With more than one worker the
// range is cut into contiguous chunks run under an errgroup limit; fn must
// only touch its own index.
func mapRows(ctx context.Context, n, workers int, fn func(i int)) error {
	if workers <= 1 || n < 2*chunkRows {
		for i := 0; i < n; i++ {
			if i%chunkRows == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			fn(i)
		}
		return ctx.Err()
	}

	size := max((n+workers-1)/workers, chunkRows)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if (i-lo)%chunkRows == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				fn(i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
