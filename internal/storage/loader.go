package storage

import (
	"context"
	"fmt"
	"time"

	"moviesclean/internal/logging"
	"moviesclean/internal/parser/listlit"
	"moviesclean/pkg/records"
)

// DefaultBatchSize is used by Store when batchSize <= 0.
const DefaultBatchSize = 1000

// Store copies every row of tbl into repo in batches of batchSize, in table
// order, and returns the number of rows the backend reported as written.
// It stops at the first failed batch.
func Store(ctx context.Context, repo Repository, tbl *records.Table, batchSize int) (int64, error) {
	log := logging.FromContext(ctx)
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var (
		total   int64
		batches int
		start   = time.Now()
		batch   = make([][]any, 0, batchSize)
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := repo.CopyFrom(ctx, tbl.Columns, batch)
		if err != nil {
			return fmt.Errorf("storage: batch %d: %w", batches+1, err)
		}
		total += n
		batches++
		log.Debug("batch stored", "batch", batches, "rows", n, "total", total)
		batch = batch[:0]
		return nil
	}

	for _, r := range tbl.Rows {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		batch = append(batch, RowValues(r, tbl.Columns))
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}

	log.Info("rows stored", "rows", total, "batches", batches, "elapsed", time.Since(start).Round(time.Millisecond))
	return total, nil
}

// RowValues converts r into driver values in column order. Absent becomes
// nil and lists become their bracketed literal text.
func RowValues(r records.Record, columns []string) []any {
	out := make([]any, len(columns))
	for i, c := range columns {
		v := r.Get(c)
		switch v.Kind() {
		case records.KindText:
			out[i], _ = v.AsText()
		case records.KindInt:
			out[i], _ = v.AsInt()
		case records.KindFloat:
			out[i], _ = v.AsFloat()
		case records.KindList:
			l, _ := v.AsList()
			out[i] = listlit.Encode(l)
		default:
			out[i] = nil
		}
	}
	return out
}
