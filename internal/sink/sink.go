// Package sink writes a cleaned table to a file.
//
// Writers render the whole table into a temporary file next to the
// destination and rename it into place once everything has been flushed, so
// a failed run never leaves a partial output behind.
package sink

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"moviesclean/internal/parser/listlit"
	"moviesclean/pkg/records"
)

// Output formats.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// FormatFor resolves the output format. An explicit format wins; otherwise a
// ".parquet" extension selects Parquet and anything else CSV.
func FormatFor(path, format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case FormatCSV, FormatParquet:
		return f, nil
	case "":
		if strings.EqualFold(filepath.Ext(path), ".parquet") {
			return FormatParquet, nil
		}
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("sink: unknown output format %q", format)
	}
}

// Write renders tbl to path in the given format.
func Write(ctx context.Context, path, format string, tbl *records.Table) error {
	f, err := FormatFor(path, format)
	if err != nil {
		return err
	}
	if f == FormatParquet {
		return WriteParquet(ctx, path, tbl)
	}
	return WriteCSV(ctx, path, tbl, ',')
}

// Cell renders a value as output text. Absent is the empty string, floats
// use the shortest form that parses back to the same value and lists are
// list literals.
func Cell(v records.Value) string {
	switch v.Kind() {
	case records.KindText:
		s, _ := v.AsText()
		return s
	case records.KindInt:
		i, _ := v.AsInt()
		return strconv.FormatInt(i, 10)
	case records.KindFloat:
		f, _ := v.AsFloat()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case records.KindList:
		l, _ := v.AsList()
		return listlit.Encode(l)
	}
	return ""
}

// writeAtomic streams write's output into a temporary file in path's
// directory and renames it over path on success.
func writeAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("sink: create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriterSize(tmp, 256*1024)
	if err = write(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("sink: flush: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sink: sync: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("sink: close: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("sink: chmod: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("sink: rename into %s: %w", path, err)
	}
	return nil
}
