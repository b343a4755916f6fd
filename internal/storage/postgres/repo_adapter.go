package postgres

import (
	"context"

	"moviesclean/internal/ddl"
	"moviesclean/internal/storage"
	pgddl "moviesclean/internal/storage/postgres/ddl"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

var _ storage.Repository = (*wrappedRepo)(nil)

func init() {
	factory := func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN, Table: cfg.Table})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	}
	bootstrap := func(ctx context.Context, repo storage.Repository, table string, fields []ddl.Field) error {
		return storage.CreateTable(ctx, repo, table, fields, pgddl.MapType, pgddl.BuildCreateTableSQL)
	}

	for _, kind := range []string{"postgres", "postgresql"} {
		storage.Register(kind, factory)
		storage.RegisterDDL(kind, bootstrap)
	}
}
