package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"moviesclean/internal/transformer"
	"moviesclean/pkg/records"

	writerfile "github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// parquetParallelism is the number of goroutines the writer uses to encode
// row groups.
const parquetParallelism = 4

// WriteParquet writes tbl as a single Parquet file. Every column is OPTIONAL:
// integer columns are INT64, floats DOUBLE, and text and list literals UTF8
// byte arrays.
func WriteParquet(ctx context.Context, path string, tbl *records.Table) error {
	schema, err := parquetSchema(tbl.Columns)
	if err != nil {
		return err
	}
	return writeAtomic(path, func(w io.Writer) error {
		pfw := writerfile.NewWriterFile(w)
		pw, err := writer.NewJSONWriter(schema, pfw, parquetParallelism)
		if err != nil {
			return fmt.Errorf("parquet: new writer: %w", err)
		}
		pw.CompressionType = parquet.CompressionCodec_SNAPPY

		for n, r := range tbl.Rows {
			if n%1024 == 0 {
				if err := ctx.Err(); err != nil {
					_ = pw.WriteStop()
					return err
				}
			}
			line, err := parquetRow(tbl.Columns, r)
			if err != nil {
				_ = pw.WriteStop()
				return fmt.Errorf("parquet: encode row %d: %w", n+1, err)
			}
			if err := pw.Write(line); err != nil {
				_ = pw.WriteStop()
				return fmt.Errorf("parquet: write row %d: %w", n+1, err)
			}
		}
		if err := pw.WriteStop(); err != nil {
			return fmt.Errorf("parquet: finish: %w", err)
		}
		return pfw.Close()
	})
}

func parquetSchema(cols []string) (string, error) {
	fields := make([]map[string]string, 0, len(cols))
	for _, c := range cols {
		fields = append(fields, map[string]string{
			"Tag": fmt.Sprintf("name=%s, %s, repetitiontype=OPTIONAL", c, parquetType(transformer.TypeOf(c))),
		})
	}
	b, err := json.Marshal(map[string]any{
		"Tag":    "name=parquet_go_root, repetitiontype=REQUIRED",
		"Fields": fields,
	})
	if err != nil {
		return "", fmt.Errorf("parquet: schema: %w", err)
	}
	return string(b), nil
}

func parquetType(t transformer.ColumnType) string {
	switch t {
	case transformer.TypeInt:
		return "type=INT64"
	case transformer.TypeFloat:
		return "type=DOUBLE"
	default:
		return "type=BYTE_ARRAY, convertedtype=UTF8"
	}
}

// parquetRow renders r as the JSON object the JSON writer expects. Absent
// cells are null.
func parquetRow(cols []string, r records.Record) (string, error) {
	obj := make(map[string]any, len(cols))
	for _, c := range cols {
		v := r.Get(c)
		switch v.Kind() {
		case records.KindAbsent:
			obj[c] = nil
		case records.KindInt:
			i, _ := v.AsInt()
			obj[c] = i
		case records.KindFloat:
			f, _ := v.AsFloat()
			obj[c] = f
		default:
			obj[c] = Cell(v)
		}
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
