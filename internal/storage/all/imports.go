// Package all links every storage backend into the binary.
package all

import (
	_ "moviesclean/internal/storage/mssql"
	_ "moviesclean/internal/storage/mysql"
	_ "moviesclean/internal/storage/postgres"
	_ "moviesclean/internal/storage/sqlite"
)
