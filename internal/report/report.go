// Package report summarizes a cleaned table: record counts, valid-value
// counts, content types, the most frequent primary genres and a few example
// rows. It never modifies the table.
package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"moviesclean/internal/datasource"
	pcsv "moviesclean/internal/parser/csv"
	"moviesclean/internal/parser/listlit"
	"moviesclean/internal/transformer"
	"moviesclean/internal/transformer/builtin"
	"moviesclean/pkg/records"

	"github.com/dustin/go-humanize"
)

// DefaultTopGenres is the length of Summary.TopGenres when none is given.
const DefaultTopGenres = 10

// NotAvailable stands in for absent values in example rows.
const NotAvailable = "n/a"

// GenreCount is one entry of the primary genre ranking.
type GenreCount struct {
	Genre string
	Count int
}

// TypeCount is the number of rows with a content type.
type TypeCount struct {
	Type  string
	Count int
}

// Summary holds the statistics printed after a run.
type Summary struct {
	Original      int
	Surviving     int
	ValidRating   int
	ValidVotes    int
	ValidDuration int
	ContentTypes  []TypeCount // in builtin.ContentTypes order
	TopGenres     []GenreCount
}

// Summarize computes a Summary. original is the row count before filtering;
// topN <= 0 uses DefaultTopGenres. Genres with equal counts keep the order in
// which they first appear.
func Summarize(original int, t *records.Table, topN int) Summary {
	if topN <= 0 {
		topN = DefaultTopGenres
	}
	s := Summary{Original: original, Surviving: t.Len()}

	types := make(map[string]int, len(builtin.ContentTypes))
	genres := map[string]int{}
	var order []string

	for _, r := range t.Rows {
		if !r.Get(transformer.ColRatingNumeric).IsAbsent() {
			s.ValidRating++
		}
		if !r.Get(transformer.ColVotesNumeric).IsAbsent() {
			s.ValidVotes++
		}
		if !r.Get(transformer.ColDurationMinutes).IsAbsent() {
			s.ValidDuration++
		}
		if ct, ok := r.Get(transformer.ColContentType).AsText(); ok {
			types[ct]++
		}
		if g, ok := r.Get(transformer.ColPrimaryGenre).AsText(); ok {
			if _, seen := genres[g]; !seen {
				order = append(order, g)
			}
			genres[g]++
		}
	}

	for _, ct := range builtin.ContentTypes {
		s.ContentTypes = append(s.ContentTypes, TypeCount{Type: ct.String(), Count: types[ct.String()]})
	}

	ranked := make([]GenreCount, len(order))
	for i, g := range order {
		ranked[i] = GenreCount{Genre: g, Count: genres[g]}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	s.TopGenres = ranked
	return s
}

// Write prints s in a fixed human-readable layout.
func (s Summary) Write(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("Cleaning statistics:\n")
	ew.printf("  original records:       %s\n", humanize.Comma(int64(s.Original)))
	ew.printf("  records after cleaning: %s\n", humanize.Comma(int64(s.Surviving)))
	ew.printf("  with valid rating:      %s\n", humanize.Comma(int64(s.ValidRating)))
	ew.printf("  with valid votes:       %s\n", humanize.Comma(int64(s.ValidVotes)))
	ew.printf("  with valid duration:    %s\n", humanize.Comma(int64(s.ValidDuration)))
	for _, tc := range s.ContentTypes {
		ew.printf("  %-23s %s\n", tc.Type+":", humanize.Comma(int64(tc.Count)))
	}
	ew.printf("\nTop %d primary genres:\n", len(s.TopGenres))
	for _, g := range s.TopGenres {
		ew.printf("  %s: %s\n", g.Genre, humanize.Comma(int64(g.Count)))
	}
	return ew.err
}

// Example is one row rendered for display.
type Example struct {
	Title        string
	Years        string
	ContentType  string
	Duration     string
	PrimaryGenre string
	Rating       string
	Votes        string
	Directors    string
	Actors       string
}

// Examples renders the first n rows of t.
func Examples(t *records.Table, n int) []Example {
	n = min(max(n, 0), t.Len())
	out := make([]Example, 0, n)
	for _, r := range t.Rows[:n] {
		out = append(out, Example{
			Title:        text(r.Get(transformer.ColTitle)),
			Years:        years(r),
			ContentType:  text(r.Get(transformer.ColContentType)),
			Duration:     withUnit(r.Get(transformer.ColDurationMinutes), " min"),
			PrimaryGenre: text(r.Get(transformer.ColPrimaryGenre)),
			Rating:       number(r.Get(transformer.ColRatingNumeric)),
			Votes:        count(r.Get(transformer.ColVotesNumeric)),
			Directors:    head(r.Get(transformer.ColDirectors), 2),
			Actors:       head(r.Get(transformer.ColActors), 3),
		})
	}
	return out
}

// WriteExamples prints examples as numbered blocks.
func WriteExamples(w io.Writer, examples []Example) error {
	ew := &errWriter{w: w}
	ew.printf("\nExamples (first %d records):\n", len(examples))
	for i, e := range examples {
		ew.printf("\n%d. %s\n", i+1, e.Title)
		ew.printf("   years:         %s\n", e.Years)
		ew.printf("   type:          %s\n", e.ContentType)
		ew.printf("   duration:      %s\n", e.Duration)
		ew.printf("   primary genre: %s\n", e.PrimaryGenre)
		ew.printf("   rating:        %s\n", e.Rating)
		ew.printf("   votes:         %s\n", e.Votes)
		ew.printf("   directors:     %s\n", e.Directors)
		ew.printf("   actors:        %s\n", e.Actors)
	}
	return ew.err
}

// Load reads a cleaned table from src and restores the logical types of its
// numeric and list columns.
func Load(ctx context.Context, src datasource.Source, opt pcsv.Options) (*records.Table, error) {
	raw, _, err := pcsv.Load(ctx, src, opt)
	if err != nil {
		return nil, err
	}
	return transformer.Retype(raw)
}

func text(v records.Value) string {
	if s, ok := v.AsText(); ok {
		return s
	}
	return NotAvailable
}

func years(r records.Record) string {
	start := number(r.Get(transformer.ColStartYear))
	end := "ongoing"
	if e := r.Get(transformer.ColEndYear); !e.IsAbsent() {
		end = number(e)
	}
	return start + "–" + end
}

func withUnit(v records.Value, unit string) string {
	s := number(v)
	if s == NotAvailable {
		return s
	}
	return s + unit
}

// number formats a value plainly; Absent is NotAvailable.
func number(v records.Value) string {
	switch v.Kind() {
	case records.KindInt:
		i, _ := v.AsInt()
		return strconv.FormatInt(i, 10)
	case records.KindFloat:
		f, _ := v.AsFloat()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case records.KindText:
		s, _ := v.AsText()
		return s
	}
	return NotAvailable
}

// count formats an int with thousands separators.
func count(v records.Value) string {
	if i, ok := v.AsInt(); ok {
		return humanize.Comma(i)
	}
	return number(v)
}

// head renders the first n items as a list literal, with "..." when more
// items were cut.
func head(v records.Value, n int) string {
	l, _ := v.AsList()
	if len(l) <= n {
		return listlit.Encode(l)
	}
	return listlit.Encode(l[:n]) + "..."
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, a ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, a...)
}
