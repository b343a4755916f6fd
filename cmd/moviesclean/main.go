// Command moviesclean cleans a movies and TV series CSV export: it splits
// cast lists, parses votes, durations, ratings and year ranges, classifies
// content types, normalizes genres and writes the cleaned table as CSV or
// Parquet, optionally loading it into a database.
package main

import (
	"os"

	charmlog "github.com/charmbracelet/log"

	// register all backends with the storage factory.
	_ "moviesclean/internal/storage/all"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		charmlog.Error("moviesclean failed", "err", err)
		os.Exit(1)
	}
}
