// Package transformer runs the movies cleaning chain over an in-memory table.
//
// The chain is an ordered list of named steps. A step reads columns of a row
// and returns the columns it derives; it never edits the row it is given. The
// driver merges those columns into its working copy, so a later step can read
// what an earlier one produced (content_type reads duration_minutes,
// series_duration_years reads start_year and end_year).
package transformer

import (
	"moviesclean/internal/transformer/builtin"
	"moviesclean/pkg/records"
)

// Step is one named stage of the chain.
type Step struct {
	Name  string
	Apply func(rec records.Record) records.Record
}

// Chain is an ordered list of steps.
type Chain []Step

// applyTo merges the columns the step derives from rec back into rec.
func (s Step) applyTo(rec records.Record) {
	for k, v := range s.Apply(rec) {
		rec[k] = v
	}
}

// Names returns the step names in order.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, s := range c {
		names[i] = s.Name
	}
	return names
}

// DefaultChain is the fixed cleaning order. Reordering it changes results:
// content_type depends on duration_minutes, the counts depend on the list
// columns and series_duration depends on the year range.
func DefaultChain() Chain {
	return Chain{
		{Name: "cast", Apply: castStep},
		{Name: "votes", Apply: votesStep},
		{Name: "duration", Apply: durationStep},
		{Name: "rating", Apply: ratingStep},
		{Name: "years", Apply: yearsStep},
		{Name: "content_type", Apply: contentTypeStep},
		{Name: "genres", Apply: genresStep},
		{Name: "counts", Apply: countsStep},
		{Name: "series_duration", Apply: seriesDurationStep},
	}
}

func castStep(r records.Record) records.Record {
	directors, actors := builtin.SplitCast(r.Get(ColStars))
	return records.Record{
		ColDirectors: records.List(directors),
		ColActors:    records.List(actors),
	}
}

func votesStep(r records.Record) records.Record {
	return records.Record{ColVotesNumeric: builtin.NullInt(builtin.Votes(r.Get(ColVotes)))}
}

func durationStep(r records.Record) records.Record {
	return records.Record{ColDurationMinutes: builtin.NullInt(builtin.DurationMinutes(r.Get(ColDuration)))}
}

func ratingStep(r records.Record) records.Record {
	return records.Record{ColRatingNumeric: builtin.NullFloat(builtin.Rating(r.Get(ColRating)))}
}

func yearsStep(r records.Record) records.Record {
	start, end := builtin.YearRange(r.Get(ColYear))
	return records.Record{
		ColStartYear: builtin.NullInt(start),
		ColEndYear:   builtin.NullInt(end),
	}
}

func contentTypeStep(r records.Record) records.Record {
	ct := builtin.Classify(r.Get(ColYear), builtin.IntOf(r.Get(ColDurationMinutes)))
	return records.Record{ColContentType: records.Text(ct.String())}
}

func genresStep(r records.Record) records.Record {
	genres := builtin.Genres(r.Get(ColGenre))
	return records.Record{
		ColGenresList:   records.List(genres),
		ColPrimaryGenre: records.Text(builtin.PrimaryGenre(genres)),
	}
}

func countsStep(r records.Record) records.Record {
	return records.Record{
		ColGenreCount:    records.Int(int64(r.Get(ColGenresList).Len())),
		ColDirectorCount: records.Int(int64(r.Get(ColDirectors).Len())),
		ColActorCount:    records.Int(int64(r.Get(ColActors).Len())),
	}
}

func seriesDurationStep(r records.Record) records.Record {
	years, _ := builtin.SeriesDurationYears(
		builtin.IntOf(r.Get(ColStartYear)),
		builtin.IntOf(r.Get(ColEndYear)),
	)
	return records.Record{ColSeriesDurationYears: records.Int(years)}
}
