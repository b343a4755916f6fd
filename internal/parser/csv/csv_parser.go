// Package csv loads a delimited text table into memory.
//
// The reader is lenient: lazy quotes, rows shorter or longer than the header,
// a leading byte order mark and legacy single-byte encodings are all
// accepted. Cells are kept byte for byte apart from optional trimming; an
// empty cell is read as Absent.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"moviesclean/internal/datasource"
	"moviesclean/internal/logging"
	"moviesclean/pkg/records"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrMissingColumns reports that required columns are not in the header.
var ErrMissingColumns = errors.New("csv: missing required columns")

// Options configures the parser. All fields are optional.
type Options struct {
	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing white space from every cell.
	TrimSpace bool

	// HeaderMap renames source headers (matched after trimming) to
	// canonical column names.
	HeaderMap map[string]string

	// Encoding names the input encoding: "utf-8" (default), "latin1" or
	// "windows-1252".
	Encoding string
}

// Parser reads CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// utf8BOM is stripped from the first header cell if the decoder left it.
const utf8BOM = "\uFEFF"

// logSkippedLimit caps the number of skipped rows that are logged.
const logSkippedLimit = 400

// Decoder returns the transformer that turns input in the named encoding into
// UTF-8. A byte order mark always wins over the name.
func Decoder(name string) (transform.Transformer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.BOMOverride(unicode.UTF8.NewDecoder()), nil
	case "latin1", "latin-1", "iso-8859-1":
		return unicode.BOMOverride(charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return unicode.BOMOverride(charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("csv: unsupported encoding %q", name)
}

// Read consumes r and returns the table along with the number of rows that
// were skipped because encoding/csv could not parse them. Columns follow the
// normalized header order.
func (p *Parser) Read(ctx context.Context, r io.Reader) (*records.Table, int, error) {
	log := logging.FromContext(ctx)

	dec, err := Decoder(p.opt.Encoding)
	if err != nil {
		return nil, 0, err
	}

	cr := csv.NewReader(transform.NewReader(r, dec))
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	h, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("csv: read header: empty input")
		}
		return nil, 0, fmt.Errorf("csv: read header: %w", err)
	}
	headers := normalizeHeaders(h, p.opt)

	out := &records.Table{Columns: headers}
	skipped := 0
	for line := 2; ; line++ {
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, skipped, err
			}
		}

		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, skipped, fmt.Errorf("csv: read line %d: %w", line, err)
			}
			if skipped < logSkippedLimit {
				log.Warn("skipping row", "line", perr.StartLine, "err", perr.Err)
			}
			skipped++
			continue
		}

		rec := make(records.Record, max(len(headers), len(row)))
		for i, key := range headers {
			if i < len(row) {
				rec[key] = p.cell(row[i])
			} else {
				rec[key] = records.Absent()
			}
		}
		for i := len(headers); i < len(row); i++ {
			rec[keyFor(i, headers)] = p.cell(row[i])
		}
		out.Rows = append(out.Rows, rec)
	}

	if skipped > 0 {
		log.Warn("rows skipped", "count", skipped)
	}
	return out, skipped, ctx.Err()
}

// Load opens src and reads it with a parser built from opt.
func Load(ctx context.Context, src datasource.Source, opt Options) (*records.Table, int, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("open source: %w", err)
	}
	defer rc.Close()

	return NewParser(opt).Read(ctx, rc)
}

// RequireColumns returns an error wrapping ErrMissingColumns that names every
// column of cols the table lacks, or nil.
func RequireColumns(t *records.Table, cols []string) error {
	var missing []string
	for _, c := range cols {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
}

func (p *Parser) cell(s string) records.Value {
	if p.opt.TrimSpace {
		s = strings.TrimSpace(s)
	}
	return emptyToAbsent(s)
}

// keyFor returns the column key for index idx, using headers when available,
// otherwise synthesizing a "col_N" name.
func keyFor(idx int, headers []string) string {
	if idx < len(headers) && headers[idx] != "" {
		return headers[idx]
	}
	return fmt.Sprintf("col_%d", idx)
}

// emptyToAbsent converts an empty string to Absent and anything else to text.
func emptyToAbsent(s string) records.Value {
	if s == "" {
		return records.Absent()
	}
	return records.Text(s)
}

// normalizeHeaders produces canonical header keys using HeaderMap (when
// provided) and simple normalization (lowercase, spaces to underscores).
// Blank headers become "col_N".
func normalizeHeaders(h []string, opt Options) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := col
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		c = strings.TrimSpace(c)
		if m, ok := opt.HeaderMap[c]; ok {
			res[i] = m
			continue
		}
		res[i] = strings.ReplaceAll(strings.ToLower(c), " ", "_")
		if res[i] == "" {
			res[i] = keyFor(i, nil)
		}
	}
	return res
}
