package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviesclean/internal/ddl"
	"moviesclean/pkg/records"
)

// fakeRepo records what it receives.
type fakeRepo struct {
	batches [][][]any
	columns []string
	execs   []string
	failAt  int // 1-based batch that fails; 0 never
	closed  bool
}

func (f *fakeRepo) CopyFrom(_ context.Context, columns []string, rows [][]any) (int64, error) {
	if f.failAt > 0 && len(f.batches)+1 == f.failAt {
		return 0, errors.New("disk full")
	}
	f.columns = columns
	cp := make([][]any, len(rows))
	copy(cp, rows)
	f.batches = append(f.batches, cp)
	return int64(len(rows)), nil
}

func (f *fakeRepo) Exec(_ context.Context, sql string) error {
	f.execs = append(f.execs, sql)
	return nil
}

func (f *fakeRepo) Close() { f.closed = true }

func TestRegisterAndNew(t *testing.T) {
	Register("Fake", func(_ context.Context, cfg Config) (Repository, error) {
		return &fakeRepo{}, nil
	})

	repo, err := New(context.Background(), Config{Kind: "fake", Table: "movies"})
	require.NoError(t, err)
	assert.IsType(t, &fakeRepo{}, repo)
	assert.Contains(t, ListKinds(), "fake")

	_, err = New(context.Background(), Config{Kind: "fake"})
	assert.ErrorContains(t, err, "table must not be empty")

	_, err = New(context.Background(), Config{Kind: "oracle", Table: "movies"})
	assert.ErrorContains(t, err, `unsupported kind "oracle"`)
}

func TestEnsureTable(t *testing.T) {
	var got []ddl.Field
	RegisterDDL("fake-ddl", func(ctx context.Context, repo Repository, table string, fields []ddl.Field) error {
		got = fields
		return CreateTable(ctx, repo, table, fields,
			func(l string) (string, error) { return "T", nil },
			func(td ddl.TableDef) (string, error) { return ddl.BuildCreateTableSQL(td, ddl.Dialect{}) })
	})

	repo := &fakeRepo{}
	fields := []ddl.Field{{Name: "title", Type: ddl.TypeText, Required: true}}
	require.NoError(t, EnsureTable(context.Background(), "FAKE-DDL", repo, "movies", fields))
	assert.Equal(t, fields, got)
	assert.Equal(t, []string{"CREATE TABLE movies (\n  title T NOT NULL\n);"}, repo.execs)

	err := EnsureTable(context.Background(), "nope", repo, "movies", fields)
	assert.ErrorContains(t, err, `no DDL bootstrapper for kind "nope"`)
}

func testTable(n int) *records.Table {
	tbl := &records.Table{Columns: []string{"title", "votes", "actors", "rating"}}
	for i := 0; i < n; i++ {
		tbl.Rows = append(tbl.Rows, records.Record{
			"title":  records.Text("t"),
			"votes":  records.Int(int64(i)),
			"actors": records.List([]string{"A", "B"}),
			"rating": records.Absent(),
		})
	}
	return tbl
}

func TestStore(t *testing.T) {
	t.Run("batch_rows_in_order", func(t *testing.T) {
		repo := &fakeRepo{}
		n, err := Store(context.Background(), repo, testTable(7), 3)
		require.NoError(t, err)
		assert.EqualValues(t, 7, n)
		require.Len(t, repo.batches, 3)
		assert.Len(t, repo.batches[2], 1)
		assert.Equal(t, []string{"title", "votes", "actors", "rating"}, repo.columns)
		assert.Equal(t, int64(6), repo.batches[2][0][1])
	})

	t.Run("stop_at_the_failing_batch", func(t *testing.T) {
		repo := &fakeRepo{failAt: 2}
		n, err := Store(context.Background(), repo, testTable(5), 2)
		assert.ErrorContains(t, err, "batch 2: disk full")
		assert.EqualValues(t, 2, n)
	})

	t.Run("honour_cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Store(ctx, &fakeRepo{}, testTable(1), 0)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("accept_an_empty_table", func(t *testing.T) {
		repo := &fakeRepo{}
		n, err := Store(context.Background(), repo, testTable(0), 10)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Empty(t, repo.batches)
	})
}

func TestRowValues(t *testing.T) {
	r := records.Record{
		"title":  records.Text("Dune"),
		"votes":  records.Int(12),
		"rating": records.Float(8.1),
		"actors": records.List([]string{"Timothée Chalamet", "O'Hara"}),
	}
	got := RowValues(r, []string{"title", "votes", "rating", "actors", "missing"})
	assert.Equal(t, []any{"Dune", int64(12), 8.1, `['Timothée Chalamet', "O'Hara"]`, nil}, got)
}
