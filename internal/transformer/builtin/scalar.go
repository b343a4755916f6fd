package builtin

import (
	"database/sql"
	"math"
	"regexp"
	"strconv"
	"strings"

	"moviesclean/pkg/records"
)

// voteNoise lists the characters stripped from a votes cell before parsing:
// thousands separators and stray quotes.
var voteNoise = strings.NewReplacer(",", "", `"`, "", "'", "")

// durationPattern matches the first "<digits> min" run, e.g. "148 min".
var durationPattern = regexp.MustCompile(`(\d+)\s*min`)

// Votes converts a votes cell to an integer count.
func Votes(v records.Value) sql.Null[int64] {
	switch v.Kind() {
	case records.KindInt:
		i, _ := v.AsInt()
		return present(i)
	case records.KindFloat:
		f, _ := v.AsFloat()
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
			return sql.Null[int64]{}
		}
		return present(int64(f))
	case records.KindText:
		s, _ := v.AsText()
		s = strings.TrimSpace(voteNoise.Replace(s))
		if s == "" {
			return sql.Null[int64]{}
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return sql.Null[int64]{}
		}
		return present(n)
	default:
		return sql.Null[int64]{}
	}
}

// DurationMinutes extracts the running time in minutes from a duration cell.
// Only text carrying a "<digits> min" run yields a value; a bare number has
// no unit and is absent.
func DurationMinutes(v records.Value) sql.Null[int64] {
	s, ok := v.AsText()
	if !ok {
		return sql.Null[int64]{}
	}
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return sql.Null[int64]{}
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return sql.Null[int64]{}
	}
	return present(n)
}

// Rating converts a rating cell to a decimal score. NaN and infinities are
// treated as unparseable.
func Rating(v records.Value) sql.Null[float64] {
	var f float64
	switch v.Kind() {
	case records.KindFloat:
		f, _ = v.AsFloat()
	case records.KindInt:
		i, _ := v.AsInt()
		f = float64(i)
	case records.KindText:
		s, _ := v.AsText()
		s = strings.TrimSpace(s)
		if s == "" {
			return sql.Null[float64]{}
		}
		var err error
		if f, err = strconv.ParseFloat(s, 64); err != nil {
			return sql.Null[float64]{}
		}
	default:
		return sql.Null[float64]{}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.Null[float64]{}
	}
	return sql.Null[float64]{V: f, Valid: true}
}

func present(i int64) sql.Null[int64] { return sql.Null[int64]{V: i, Valid: true} }

// NullInt converts an optional integer back into a cell value.
func NullInt(n sql.Null[int64]) records.Value {
	if !n.Valid {
		return records.Absent()
	}
	return records.Int(n.V)
}

// NullFloat converts an optional float back into a cell value.
func NullFloat(n sql.Null[float64]) records.Value {
	if !n.Valid {
		return records.Absent()
	}
	return records.Float(n.V)
}

// IntOf reads an integer cell as an optional integer.
func IntOf(v records.Value) sql.Null[int64] {
	i, ok := v.AsInt()
	return sql.Null[int64]{V: i, Valid: ok}
}
