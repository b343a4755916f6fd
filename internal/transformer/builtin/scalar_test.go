package builtin

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"

	"moviesclean/pkg/records"
)

func TestVotes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   records.Value
		want sql.Null[int64]
	}{
		{"thousands separator", records.Text("1,234"), present(1234)},
		{"quoted with separator", records.Text(`"1,234"`), present(1234)},
		{"single quotes", records.Text("'98'"), present(98)},
		{"padded", records.Text(" 1,234,567 "), present(1234567)},
		{"plain", records.Text("42"), present(42)},
		{"int passes through", records.Int(7), present(7)},
		{"integral float passes through", records.Float(12), present(12)},
		{"fractional float", records.Float(1.5), sql.Null[int64]{}},
		{"empty", records.Text(""), sql.Null[int64]{}},
		{"blank", records.Text("   "), sql.Null[int64]{}},
		{"garbage", records.Text("n/a"), sql.Null[int64]{}},
		{"absent", records.Absent(), sql.Null[int64]{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Votes(tt.in))
		})
	}
}

func TestDurationMinutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   records.Value
		want sql.Null[int64]
	}{
		{"minutes", records.Text("148 min"), present(148)},
		{"no space", records.Text("90min"), present(90)},
		{"first match wins", records.Text("45 min / 60 min"), present(45)},
		{"embedded", records.Text("approx. 1200 min total"), present(1200)},
		{"n/a", records.Text("N/A"), sql.Null[int64]{}},
		{"digits without unit", records.Text("148"), sql.Null[int64]{}},
		{"overflow", records.Text("99999999999999999999 min"), sql.Null[int64]{}},
		{"absent", records.Absent(), sql.Null[int64]{}},
		{"numeric cell has no unit", records.Int(148), sql.Null[int64]{}},
		{"float cell has no unit", records.Float(148), sql.Null[int64]{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DurationMinutes(tt.in))
		})
	}
}

func TestRating(t *testing.T) {
	t.Parallel()

	ok := func(f float64) sql.Null[float64] { return sql.Null[float64]{V: f, Valid: true} }
	tests := []struct {
		name string
		in   records.Value
		want sql.Null[float64]
	}{
		{"decimal", records.Text("8.5"), ok(8.5)},
		{"padded", records.Text(" 7 "), ok(7)},
		{"float passes through", records.Float(6.1), ok(6.1)},
		{"int widens", records.Int(9), ok(9)},
		{"empty", records.Text(""), sql.Null[float64]{}},
		{"garbage", records.Text("eight"), sql.Null[float64]{}},
		{"nan", records.Text("NaN"), sql.Null[float64]{}},
		{"inf", records.Text("inf"), sql.Null[float64]{}},
		{"absent", records.Absent(), sql.Null[float64]{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Rating(tt.in))
		})
	}
}

func TestNullConversions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, records.Int(3), NullInt(present(3)))
	assert.True(t, NullInt(sql.Null[int64]{}).IsAbsent())
	assert.Equal(t, records.Float(2.5), NullFloat(sql.Null[float64]{V: 2.5, Valid: true}))
	assert.True(t, NullFloat(sql.Null[float64]{}).IsAbsent())
	assert.Equal(t, present(4), IntOf(records.Int(4)))
	assert.False(t, IntOf(records.Text("4")).Valid)
}
