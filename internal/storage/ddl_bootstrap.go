package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"moviesclean/internal/ddl"
)

// DDLBootstrapper creates table with the given fields if it does not exist.
type DDLBootstrapper func(ctx context.Context, repo Repository, table string, fields []ddl.Field) error

var (
	ddlMu        sync.RWMutex
	bootstrapper = map[string]DDLBootstrapper{}
)

// RegisterDDL installs the bootstrapper for a backend kind.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	bootstrapper[strings.ToLower(kind)] = fn
}

// EnsureTable runs the bootstrapper registered for kind.
func EnsureTable(ctx context.Context, kind string, repo Repository, table string, fields []ddl.Field) error {
	ddlMu.RLock()
	fn, ok := bootstrapper[strings.ToLower(kind)]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("storage: no DDL bootstrapper for kind %q", kind)
	}
	if err := fn(ctx, repo, table, fields); err != nil {
		return fmt.Errorf("storage: ensure table %s: %w", table, err)
	}
	return nil
}

// CreateTable is the common bootstrapper body: build a TableDef through
// mapType, render it with render and execute it.
func CreateTable(
	ctx context.Context,
	repo Repository,
	table string,
	fields []ddl.Field,
	mapType ddl.MapTypeFunc,
	render func(ddl.TableDef) (string, error),
) error {
	td, err := ddl.FromFields(table, fields, mapType)
	if err != nil {
		return err
	}
	stmt, err := render(td)
	if err != nil {
		return err
	}
	return repo.Exec(ctx, stmt)
}
