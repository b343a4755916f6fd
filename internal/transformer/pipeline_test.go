package transformer

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviesclean/internal/parser/listlit"
	"moviesclean/pkg/records"
)

// row builds a source row the way the CSV loader does: every non-empty cell
// is text, empty cells are absent.
func row(cells map[string]string) records.Record {
	r := make(records.Record, len(SourceColumns))
	for _, c := range SourceColumns {
		if s := cells[c]; s != "" {
			r[c] = records.Text(s)
		} else {
			r[c] = records.Absent()
		}
	}
	return r
}

func table(rows ...records.Record) *records.Table {
	return &records.Table{Columns: append([]string(nil), SourceColumns...), Rows: rows}
}

var oppenheimer = map[string]string{
	"title":       "Oppenheimer",
	"year":        "(2023)",
	"certificate": "R",
	"duration":    "180 min",
	"genre":       "\nBiography, Drama, History            ",
	"rating":      "8.3",
	"description": "The story of J. Robert Oppenheimer.",
	"stars":       `['Christopher Nolan', '| ', '    Stars:', 'Cillian Murphy, ', 'Emily Blunt, ', 'Matt Damon, ', 'Robert Downey Jr.']`,
	"votes":       "\"1,234\"",
}

var series = map[string]string{
	"title":    "The Long Show",
	"year":     "(2015–2019)",
	"duration": "45 min",
	"genre":    `"Comedy, Drama"`,
	"rating":   "7.1",
	"stars":    `['Actor A, ', 'Actor B']`,
	"votes":    "987",
}

func TestRun_Row(t *testing.T) {
	out, st, err := Run(context.Background(), table(row(oppenheimer)), Options{})
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, 1, st.Read)
	assert.Equal(t, 1, st.Written)

	r := out.Rows[0]
	want := records.Record{
		ColTitle:               records.Text("Oppenheimer"),
		ColStartYear:           records.Int(2023),
		ColEndYear:             records.Int(2023),
		ColContentType:         records.Text("Movie"),
		ColCertificate:         records.Text("R"),
		ColDurationMinutes:     records.Int(180),
		ColPrimaryGenre:        records.Text("Biography"),
		ColGenresList:          records.List([]string{"Biography", "Drama", "History"}),
		ColGenreCount:          records.Int(3),
		ColRatingNumeric:       records.Float(8.3),
		ColDirectors:           records.List([]string{"Christopher Nolan"}),
		ColDirectorCount:       records.Int(1),
		ColActors:              records.List([]string{"Cillian Murphy", "Emily Blunt", "Matt Damon", "Robert Downey Jr."}),
		ColActorCount:          records.Int(4),
		ColVotesNumeric:        records.Int(1234),
		ColSeriesDurationYears: records.Int(0),
	}
	for col, v := range want {
		assert.True(t, records.Equal(v, r.Get(col)), "%s: want %#v got %#v", col, v, r.Get(col))
	}
	assert.Equal(t, oppenheimer["stars"], mustText(t, r.Get(ColStars)))
}

func TestRun_SeriesAndColumns(t *testing.T) {
	out, _, err := Run(context.Background(), table(row(series)), Options{})
	require.NoError(t, err)

	assert.Equal(t, OutputColumns, out.Columns)
	assert.Len(t, out.Rows[0], len(OutputColumns))

	r := out.Rows[0]
	assert.Equal(t, "TV Series", mustText(t, r.Get(ColContentType)))
	assert.True(t, records.Equal(records.Int(4), r.Get(ColSeriesDurationYears)))
	assert.True(t, records.Equal(records.List([]string{}), r.Get(ColDirectors)))
	assert.True(t, records.Equal(records.List([]string{"Comedy", "Drama"}), r.Get(ColGenresList)))
}

func TestRun_SeparatorOnlyActors(t *testing.T) {
	cells := map[string]string{"title": "Extras", "stars": `['', ',', ' , ']`}
	out, _, err := Run(context.Background(), table(row(cells)), Options{})
	require.NoError(t, err)

	r := out.Rows[0]
	assert.True(t, records.Equal(records.List([]string{"", ""}), r.Get(ColActors)), "got %#v", r.Get(ColActors))
	assert.True(t, records.Equal(records.Int(2), r.Get(ColActorCount)))
	assert.True(t, records.Equal(records.Int(0), r.Get(ColDirectorCount)))
}

func TestRun_TitleFilter(t *testing.T) {
	noTitle := row(series)
	noTitle[ColTitle] = records.Absent()
	missingTitle := row(series)
	delete(missingTitle, ColTitle)
	emptyText := row(oppenheimer)
	emptyText[ColTitle] = records.Text("")

	in := table(row(oppenheimer), noTitle, row(series), missingTitle, emptyText)
	out, st, err := Run(context.Background(), in, Options{})
	require.NoError(t, err)

	assert.Equal(t, 5, st.Read)
	assert.Equal(t, 3, st.Written)
	assert.Equal(t, 2, st.DroppedNoTitle)

	titles := make([]string, 0, out.Len())
	for _, r := range out.Rows {
		titles = append(titles, mustText(t, r.Get(ColTitle)))
	}
	assert.Equal(t, []string{"Oppenheimer", "The Long Show", ""}, titles)
}

func TestRun_CountInvariants(t *testing.T) {
	odd := map[string]string{"title": "Odd", "stars": "[", "genre": ",,", "year": "(I)"}
	out, _, err := Run(context.Background(), table(row(oppenheimer), row(series), row(odd)), Options{})
	require.NoError(t, err)

	for _, r := range out.Rows {
		assert.EqualValues(t, r.Get(ColGenresList).Len(), mustInt(t, r.Get(ColGenreCount)))
		assert.EqualValues(t, r.Get(ColDirectors).Len(), mustInt(t, r.Get(ColDirectorCount)))
		assert.EqualValues(t, r.Get(ColActors).Len(), mustInt(t, r.Get(ColActorCount)))
		assert.GreaterOrEqual(t, mustInt(t, r.Get(ColSeriesDurationYears)), int64(0))
	}
	last := out.Rows[2]
	assert.Equal(t, "Unknown", mustText(t, last.Get(ColPrimaryGenre)))
	assert.Equal(t, "Movie", mustText(t, last.Get(ColContentType)))
}

func TestRun_Anomaly(t *testing.T) {
	backwards := row(series)
	backwards[ColYear] = records.Text("(2020–2018)")

	out, st, err := Run(context.Background(), table(backwards, row(series)), Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, st.Anomalies)
	assert.True(t, records.Equal(records.Int(0), out.Rows[0].Get(ColSeriesDurationYears)))
}

func TestRun_InputUnchanged(t *testing.T) {
	in := table(row(oppenheimer))
	_, _, err := Run(context.Background(), in, Options{})
	require.NoError(t, err)

	assert.Len(t, in.Rows[0], len(SourceColumns))
	assert.True(t, in.Rows[0].Get(ColVotesNumeric).IsAbsent())
}

func TestRun_StepOrder(t *testing.T) {
	_, st, err := Run(context.Background(), table(row(series)), Options{})
	require.NoError(t, err)

	names := make([]string, len(st.Steps))
	for i, s := range st.Steps {
		names[i] = s.Name
	}
	assert.Equal(t, []string{
		"cast", "votes", "duration", "rating", "years",
		"content_type", "genres", "counts", "series_duration",
	}, names)
	assert.Equal(t, DefaultChain().Names(), names)
}

func TestRun_WorkersMatchSequential(t *testing.T) {
	rows := make([]records.Record, 0, 3000)
	for i := 0; i < 3000; i++ {
		src := oppenheimer
		if i%3 == 0 {
			src = series
		}
		r := row(src)
		r[ColTitle] = records.Text(fmt.Sprintf("title %d", i))
		r[ColVotes] = records.Text(strconv.Itoa(i))
		if i%7 == 0 {
			r[ColTitle] = records.Absent()
		}
		rows = append(rows, r)
	}

	seq, seqStats, err := Run(context.Background(), table(rows...), Options{Workers: 1})
	require.NoError(t, err)
	par, parStats, err := Run(context.Background(), table(rows...), Options{Workers: 4})
	require.NoError(t, err)

	assert.Equal(t, seqStats.Written, parStats.Written)
	assert.Equal(t, Fingerprint(seq), Fingerprint(par))
	for i := range seq.Rows {
		assert.Equal(t, seq.Rows[i].Get(ColTitle), par.Rows[i].Get(ColTitle))
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, _, err := Run(ctx, table(row(series)), Options{Workers: 2})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, out)
}

func TestMapRows(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			n := 5000
			hits := make([]int, n)
			require.NoError(t, mapRows(context.Background(), n, workers, func(i int) { hits[i]++ }))
			for i, h := range hits {
				if h != 1 {
					t.Fatalf("index %d visited %d times", i, h)
				}
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	out, _, err := Run(context.Background(), table(row(oppenheimer), row(series)), Options{})
	require.NoError(t, err)

	base := Fingerprint(out)
	assert.Equal(t, base, Fingerprint(out))

	changed := out.Project(OutputColumns)
	changed.Rows[1][ColGenresList] = records.List([]string{"Comedy,", "Drama"})
	assert.NotEqual(t, base, Fingerprint(changed))

	// Non-derived columns do not take part.
	other := out.Project(OutputColumns)
	other.Rows[0][ColDescription] = records.Text("changed")
	assert.Equal(t, base, Fingerprint(other))
}

// onDisk renders a cleaned table the way it reads back from a CSV file.
func onDisk(t *records.Table) *records.Table {
	out := &records.Table{Columns: t.Columns, Rows: make([]records.Record, len(t.Rows))}
	for i, r := range t.Rows {
		nr := make(records.Record, len(r))
		for col, v := range r {
			var s string
			switch v.Kind() {
			case records.KindText:
				s, _ = v.AsText()
			case records.KindInt:
				n, _ := v.AsInt()
				s = strconv.FormatInt(n, 10)
			case records.KindFloat:
				f, _ := v.AsFloat()
				s = strconv.FormatFloat(f, 'g', -1, 64)
			case records.KindList:
				l, _ := v.AsList()
				s = listlit.Encode(l)
			}
			if s == "" {
				nr[col] = records.Absent()
			} else {
				nr[col] = records.Text(s)
			}
		}
		out.Rows[i] = nr
	}
	return out
}

func TestVerify(t *testing.T) {
	weird := row(series)
	weird[ColTitle] = records.Text("Quotes")
	weird[ColStars] = records.Text(`["O'Brien", '|', 'Stars:', 'A\\B']`)
	weird[ColRating] = records.Text("0.1")

	out, _, err := Run(context.Background(), table(row(oppenheimer), row(series), weird), Options{})
	require.NoError(t, err)

	t.Run("reproduce_the_stored_derived_columns", func(t *testing.T) {
		res, err := Verify(context.Background(), onDisk(out), Options{})
		require.NoError(t, err)
		assert.True(t, res.OK())
		assert.Equal(t, 3, res.Rows)
		assert.Equal(t, -1, res.FirstMismatch)
	})

	t.Run("point_at_a_tampered_row", func(t *testing.T) {
		disk := onDisk(out)
		disk.Rows[1][ColVotesNumeric] = records.Text("1")
		res, err := Verify(context.Background(), disk, Options{})
		require.NoError(t, err)
		assert.False(t, res.OK())
		assert.Equal(t, 1, res.FirstMismatch)
	})

	t.Run("reject_malformed_typed_cells", func(t *testing.T) {
		disk := onDisk(out)
		disk.Rows[0][ColGenreCount] = records.Text("three")
		_, err := Verify(context.Background(), disk, Options{})
		assert.ErrorContains(t, err, `column "genre_count"`)
	})
}

func mustText(t *testing.T, v records.Value) string {
	t.Helper()
	s, ok := v.AsText()
	require.True(t, ok, "want text, got %#v", v)
	return s
}

func mustInt(t *testing.T, v records.Value) int64 {
	t.Helper()
	n, ok := v.AsInt()
	require.True(t, ok, "want int, got %#v", v)
	return n
}
