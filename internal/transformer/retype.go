package transformer

import (
	"context"
	"fmt"
	"strconv"

	"moviesclean/internal/parser/listlit"
	"moviesclean/pkg/records"
)

// Retype converts the text cells of a cleaned table read back from disk into
// the logical types of OutputTypes. Empty cells are already Absent and stay
// so. The input table is not modified.
func Retype(in *records.Table) (*records.Table, error) {
	out := &records.Table{
		Columns: append([]string(nil), in.Columns...),
		Rows:    make([]records.Record, len(in.Rows)),
	}
	for i, r := range in.Rows {
		nr := r.Clone()
		for col, typ := range OutputTypes {
			s, ok := r.Get(col).AsText()
			if !ok {
				continue
			}
			v, err := parseTyped(s, typ)
			if err != nil {
				return nil, fmt.Errorf("retype: row %d column %q: %w", i+1, col, err)
			}
			nr[col] = v
		}
		out.Rows[i] = nr
	}
	return out, nil
}

func parseTyped(s string, typ ColumnType) (records.Value, error) {
	switch typ {
	case TypeInt:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return records.Value{}, err
		}
		return records.Int(n), nil
	case TypeFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return records.Value{}, err
		}
		return records.Float(f), nil
	case TypeList:
		l, err := listlit.Decode(s)
		if err != nil {
			return records.Value{}, err
		}
		return records.List(l), nil
	}
	return records.Text(s), nil
}

// VerifyResult reports an idempotence check.
type VerifyResult struct {
	Rows          int
	Want          uint64 // fingerprint of the stored derived columns
	Got           uint64 // fingerprint after re-deriving them
	FirstMismatch int    // 0-based row index, -1 when none
}

// OK reports whether re-deriving reproduced the stored columns.
func (v VerifyResult) OK() bool {
	return v.Want == v.Got && v.FirstMismatch < 0
}

// Verify re-runs the chain over a cleaned table read back from disk. The raw
// passthrough columns regenerate every derived column, which must match what
// was stored.
func Verify(ctx context.Context, cleaned *records.Table, opts Options) (VerifyResult, error) {
	res := VerifyResult{FirstMismatch: -1}

	stored, err := Retype(cleaned)
	if err != nil {
		return res, err
	}
	rerun, _, err := Run(ctx, stored, opts)
	if err != nil {
		return res, err
	}

	res.Rows = stored.Len()
	res.Want = Fingerprint(stored)
	res.Got = Fingerprint(rerun)

	if rerun.Len() != stored.Len() {
		res.FirstMismatch = min(rerun.Len(), stored.Len())
		return res, nil
	}
	for i := range stored.Rows {
		if RowFingerprint(stored.Rows[i]) != RowFingerprint(rerun.Rows[i]) {
			res.FirstMismatch = i
			break
		}
	}
	return res, nil
}
