package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"moviesclean/pkg/records"
)

// WriteCSV writes tbl as delimited text with a header row.
func WriteCSV(ctx context.Context, path string, tbl *records.Table, comma rune) error {
	return writeAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if comma != 0 {
			cw.Comma = comma
		}
		if err := cw.Write(tbl.Columns); err != nil {
			return fmt.Errorf("csv: write header: %w", err)
		}

		row := make([]string, len(tbl.Columns))
		for n, r := range tbl.Rows {
			if n%1024 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			for i, c := range tbl.Columns {
				row[i] = Cell(r.Get(c))
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("csv: write row %d: %w", n+1, err)
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return fmt.Errorf("csv: flush: %w", err)
		}
		return ctx.Err()
	})
}
