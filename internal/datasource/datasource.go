// Package datasource opens the raw bytes of an input table.
package datasource

import (
	"context"
	"io"
	"strings"

	"moviesclean/internal/datasource/file"
	"moviesclean/internal/datasource/httpds"
)

// Source yields a fresh reader over its input on each Open.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// ForLocation returns an HTTP source for http:// and https:// locations and
// a local file source for anything else.
func ForLocation(loc string, httpCfg httpds.Config) Source {
	lower := strings.ToLower(loc)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return httpds.NewSource(loc, httpCfg)
	}
	return file.NewLocal(loc)
}
