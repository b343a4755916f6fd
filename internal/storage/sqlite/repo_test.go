package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviesclean/internal/ddl"
	"moviesclean/internal/storage"
	sqliteddl "moviesclean/internal/storage/sqlite/ddl"
	"moviesclean/pkg/records"
)

var fields = []ddl.Field{
	{Name: "title", Type: ddl.TypeText, Required: true},
	{Name: "votes_numeric", Type: ddl.TypeInt},
	{Name: "rating_numeric", Type: ddl.TypeFloat},
	{Name: "actores", Type: ddl.TypeList},
}

func openMemory(t *testing.T) *wrappedRepo {
	t.Helper()
	repo, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", DSN: ":memory:", Table: "movies"})
	require.NoError(t, err)
	t.Cleanup(repo.Close)
	return repo.(*wrappedRepo)
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := openMemory(t)

	require.NoError(t, storage.EnsureTable(ctx, "sqlite", repo, "movies", fields))
	// A second bootstrap is a no-op.
	require.NoError(t, storage.EnsureTable(ctx, "sqlite", repo, "movies", fields))

	tbl := &records.Table{
		Columns: []string{"title", "votes_numeric", "rating_numeric", "actores"},
		Rows: []records.Record{
			{"title": records.Text("Dune"), "votes_numeric": records.Int(42), "rating_numeric": records.Float(8.1),
				"actores": records.List([]string{"A", "B"})},
			{"title": records.Text("Blank"), "votes_numeric": records.Absent(), "rating_numeric": records.Absent(),
				"actores": records.List(nil)},
		},
	}
	n, err := storage.Store(ctx, repo, tbl, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	var (
		title  string
		votes  sql.NullInt64
		rating sql.NullFloat64
		actors string
	)
	row := repo.DB().QueryRowContext(ctx,
		`SELECT title, votes_numeric, rating_numeric, actores FROM movies WHERE title = ?`, "Dune")
	require.NoError(t, row.Scan(&title, &votes, &rating, &actors))
	assert.Equal(t, int64(42), votes.Int64)
	assert.InDelta(t, 8.1, rating.Float64, 1e-9)
	assert.Equal(t, "['A', 'B']", actors)

	row = repo.DB().QueryRowContext(ctx, `SELECT votes_numeric FROM movies WHERE title = ?`, "Blank")
	require.NoError(t, row.Scan(&votes))
	assert.False(t, votes.Valid)
}

func TestCopyFrom_Errors(t *testing.T) {
	ctx := context.Background()
	repo := openMemory(t)

	_, err := repo.CopyFrom(ctx, nil, [][]any{{1}})
	assert.ErrorContains(t, err, "columns must not be empty")

	n, err := repo.CopyFrom(ctx, []string{"title"}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	// Table does not exist yet.
	_, err = repo.CopyFrom(ctx, []string{"title"}, [][]any{{"x"}})
	assert.ErrorContains(t, err, "no such table")

	require.NoError(t, storage.EnsureTable(ctx, "sqlite", repo, "movies", fields))
	_, err = repo.CopyFrom(ctx, []string{"title", "votes_numeric"}, [][]any{{"x"}})
	assert.ErrorContains(t, err, "row 0 has 1 values, want 2")
}

func TestNewRepository(t *testing.T) {
	_, _, err := NewRepository(context.Background(), Config{})
	assert.ErrorContains(t, err, "DSN must not be empty")

	path := filepath.Join(t.TempDir(), "movies.db")
	r, closeFn, err := NewRepository(context.Background(), Config{DSN: path, Table: "main.movies"})
	require.NoError(t, err)
	defer closeFn()
	require.NoError(t, r.Exec(context.Background(), `CREATE TABLE movies (title TEXT)`))
	n, err := r.CopyFrom(context.Background(), []string{"title"}, [][]any{{"a"}, {"b"}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestAdapterUsesHook(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var got Config
	closed := false
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		got = cfg
		return &Repository{cfg: cfg}, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", DSN: "x.db", Table: "movies"})
	require.NoError(t, err)
	assert.Equal(t, Config{DSN: "x.db", Table: "movies"}, got)
	repo.Close()
	assert.True(t, closed)
}

func TestMapType(t *testing.T) {
	for logical, want := range map[string]string{
		ddl.TypeText: "TEXT", ddl.TypeInt: "INTEGER", ddl.TypeFloat: "REAL", ddl.TypeList: "TEXT",
	} {
		got, err := sqliteddl.MapType(logical)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := sqliteddl.MapType("blob")
	assert.Error(t, err)
}
