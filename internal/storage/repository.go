// Package storage defines the backend-agnostic interface used to persist the
// cleaned table into a database, plus a small registry that maps a backend
// kind ("sqlite", "postgres", "mysql", "mssql") to its constructor.
//
// Backends register themselves from init; import
// moviesclean/internal/storage/all to link every backend in.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Repository is the minimal surface a backend must provide.
//
// CopyFrom appends rows into the configured table; every row must have
// len(columns) values. Exec runs a single statement (DDL bootstrap). Close
// releases the underlying connection pool.
type Repository interface {
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)
	Exec(ctx context.Context, sql string) error
	Close()
}

// Config selects and configures a backend.
type Config struct {
	// Kind names a registered backend.
	Kind string

	// DSN is passed to the backend driver unchanged.
	DSN string

	// Table is the destination table, optionally schema-qualified.
	Table string

	// Columns is the ordered list of destination columns.
	Columns []string
}

// Factory constructs a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend available under kind. Registering the same kind
// twice replaces the earlier factory.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[strings.ToLower(kind)] = f
}

// New constructs the repository registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[strings.ToLower(cfg.Kind)]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unsupported kind %q (registered: %s)",
			cfg.Kind, strings.Join(ListKinds(), ", "))
	}
	if strings.TrimSpace(cfg.Table) == "" {
		return nil, fmt.Errorf("storage: table must not be empty")
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds in sorted order.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
