package builtin

import (
	"database/sql"
	"strconv"
	"strings"

	"moviesclean/pkg/records"
)

// ContentType classifies an entry. The set of values is closed.
type ContentType uint8

const (
	ContentUnknown ContentType = iota
	ContentTVSeries
	ContentMiniseries
	ContentMovie
)

// ContentTypes lists every ContentType in report order.
var ContentTypes = []ContentType{ContentMovie, ContentTVSeries, ContentMiniseries, ContentUnknown}

func (c ContentType) String() string {
	switch c {
	case ContentTVSeries:
		return "TV Series"
	case ContentMiniseries:
		return "Miniseries"
	case ContentMovie:
		return "Movie"
	default:
		return "Unknown"
	}
}

// miniseriesMinutes is the running time above which a single-year entry is
// taken to be a miniseries rather than a film.
const miniseriesMinutes = 200

// yearDashes are the range separators seen in year cells.
const yearDashes = "–-"

// YearRange parses a year cell such as "(2020)", "(2020–2023)" or the
// open-ended "(2020– )". A single year yields identical start and end; an
// open-ended range yields an absent end.
func YearRange(v records.Value) (start, end sql.Null[int64]) {
	if v.Kind() == records.KindInt {
		i, _ := v.AsInt()
		return present(i), present(i)
	}
	s, ok := v.AsText()
	if !ok {
		return start, end
	}
	s = strings.Trim(s, "()")

	if strings.ContainsAny(s, yearDashes) {
		if parts := splitDashes(s); len(parts) == 2 {
			first, err := parseYear(parts[0])
			if err != nil {
				return sql.Null[int64]{}, sql.Null[int64]{}
			}
			if strings.TrimSpace(parts[1]) == "" {
				return present(first), sql.Null[int64]{}
			}
			last, err := parseYear(parts[1])
			if err != nil {
				return sql.Null[int64]{}, sql.Null[int64]{}
			}
			return present(first), present(last)
		}
	}

	y, err := parseYear(s)
	if err != nil {
		return sql.Null[int64]{}, sql.Null[int64]{}
	}
	return present(y), present(y)
}

// splitDashes splits s on every en dash or hyphen, keeping empty parts.
func splitDashes(s string) []string {
	var parts []string
	from := 0
	for i, r := range s {
		if strings.ContainsRune(yearDashes, r) {
			parts = append(parts, s[from:i])
			from = i + len(string(r))
		}
	}
	return append(parts, s[from:])
}

func parseYear(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

// Classify decides the content type from the raw year cell and the parsed
// duration. Any dash in the year marks a series, including a stray hyphen in
// an otherwise single-year cell.
func Classify(year records.Value, durationMinutes sql.Null[int64]) ContentType {
	if year.IsAbsent() {
		return ContentUnknown
	}
	if s, ok := year.AsText(); ok && strings.ContainsAny(s, yearDashes) {
		return ContentTVSeries
	}
	if durationMinutes.Valid && durationMinutes.V > miniseriesMinutes {
		return ContentMiniseries
	}
	return ContentMovie
}

// SeriesDurationYears returns end-start when both are present and 0
// otherwise. A negative span is reported as an anomaly and clamped to 0.
func SeriesDurationYears(start, end sql.Null[int64]) (years int64, anomaly bool) {
	if !start.Valid || !end.Valid {
		return 0, false
	}
	d := end.V - start.V
	if d < 0 {
		return 0, true
	}
	return d, false
}
