package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"moviesclean/internal/config"
	"moviesclean/internal/datasource"
	"moviesclean/internal/datasource/httpds"
	"moviesclean/internal/ddl"
	"moviesclean/internal/logging"
	pcsv "moviesclean/internal/parser/csv"
	"moviesclean/internal/storage"
	"moviesclean/internal/transformer"
	"moviesclean/pkg/records"
)

// sourceFor builds the datasource named by the pipeline's source block.
func sourceFor(s config.Source) datasource.Source {
	hdr := http.Header{}
	for k, v := range s.HTTP.Headers {
		hdr.Set(k, v)
	}
	return datasource.ForLocation(s.Location(), httpds.Config{
		Timeout:            time.Duration(s.HTTP.TimeoutSeconds) * time.Second,
		MaxRetries:         s.HTTP.MaxRetries,
		InsecureSkipVerify: s.HTTP.InsecureSkipVerify,
		Headers:            hdr,
	})
}

// csvOptions maps the parser options bag onto the CSV parser.
func csvOptions(o config.Options) pcsv.Options {
	return pcsv.Options{
		Comma:     o.Rune("comma", ','),
		TrimSpace: o.Bool("trim_space", false),
		HeaderMap: o.StringMap("header_map"),
		Encoding:  o.String("encoding", ""),
	}
}

// outputFields describes cols for table bootstrap.
func outputFields(cols []string) []ddl.Field {
	out := make([]ddl.Field, len(cols))
	for i, c := range cols {
		out[i] = ddl.Field{
			Name:     c,
			Type:     transformer.TypeOf(c).String(),
			Required: c == transformer.ColTitle,
		}
	}
	return out
}

// storeTable loads tbl into the configured database and returns the number
// of rows written.
func storeTable(ctx context.Context, s config.Storage, tbl *records.Table) (int64, error) {
	log := logging.FromContext(ctx)

	repo, err := storage.New(ctx, storage.Config{
		Kind:    s.Kind,
		DSN:     s.DB.DSN,
		Table:   s.DB.Table,
		Columns: tbl.Columns,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", s.Kind, err)
	}
	defer repo.Close()

	if s.DB.AutoCreateTable {
		if err := storage.EnsureTable(ctx, s.Kind, repo, s.DB.Table, outputFields(tbl.Columns)); err != nil {
			return 0, fmt.Errorf("%s: %w", s.Kind, err)
		}
		log.Debug("table ready", "kind", s.Kind, "table", s.DB.Table)
	}

	n, err := storage.Store(ctx, repo, tbl, s.DB.BatchSize)
	if err != nil {
		return n, fmt.Errorf("%s: %w", s.Kind, err)
	}
	return n, nil
}
