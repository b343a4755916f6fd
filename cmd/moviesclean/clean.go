package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"moviesclean/internal/config"
	"moviesclean/internal/logging"
	"moviesclean/internal/metrics"
	pcsv "moviesclean/internal/parser/csv"
	"moviesclean/internal/report"
	"moviesclean/internal/sink"
	"moviesclean/internal/transformer"
)

type cleanFlags struct {
	cfgPath     string
	in          string
	out         string
	format      string
	examples    int
	workers     int
	storageKind string
	dsn         string
	table       string
}

func newCleanCmd(g *globalFlags) *cobra.Command {
	f := &cleanFlags{}
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean the input table and write the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := f.pipeline(cmd.Flags())
			if err != nil {
				return err
			}
			if err := checkIssues(cmd.Context(), config.ValidatePipeline(p)); err != nil {
				return err
			}

			flush, err := g.setupMetrics(cmd.Context(), p.Job)
			if err != nil {
				return err
			}
			defer flush()

			return runClean(cmd.Context(), p, cmd.OutOrStdout())
		},
	}

	f.bind(cmd.Flags())
	return cmd
}

func (f *cleanFlags) bind(fl *pflag.FlagSet) {
	fl.StringVar(&f.cfgPath, "config", "", "pipeline config JSON path (optional)")
	fl.StringVar(&f.in, "in", "", "input path or http(s) URL (default n_movies.csv)")
	fl.StringVar(&f.out, "out", "", "output path (default n_movies_clean.csv)")
	fl.StringVar(&f.format, "format", "", "output format: csv or parquet (default by extension)")
	fl.IntVar(&f.examples, "examples", 5, "number of example rows to print")
	fl.IntVar(&f.workers, "workers", 1, "transform workers")
	fl.StringVar(&f.storageKind, "storage-kind", "", "database sink: sqlite, postgres, mysql, mssql")
	fl.StringVar(&f.dsn, "dsn", "", "database DSN")
	fl.StringVar(&f.table, "table", "", "database table")
}

// pipeline resolves the configuration: flag → environment → file → default.
func (f *cleanFlags) pipeline(fs *pflag.FlagSet) (config.Pipeline, error) {
	p := config.Default()
	if f.cfgPath != "" {
		var err error
		if p, err = config.Load(f.cfgPath); err != nil {
			return p, err
		}
	}
	config.ApplyEnv(&p, os.Getenv)

	changed := fs.Changed
	if changed("in") {
		config.SetInput(&p, f.in)
	}
	if changed("out") {
		p.Output.Path = f.out
		if !changed("format") {
			p.Output.Format = ""
		}
	}
	if changed("format") {
		p.Output.Format = f.format
	}
	if changed("examples") {
		p.Report.Examples = f.examples
	}
	if changed("workers") {
		p.Runtime.TransformWorkers = f.workers
	}
	if changed("storage-kind") {
		p.Storage.Kind = f.storageKind
	}
	if changed("dsn") {
		p.Storage.DB.DSN = f.dsn
	}
	if changed("table") {
		p.Storage.DB.Table = f.table
	}
	return p, nil
}

// checkIssues logs every issue and fails when any is an error.
func checkIssues(ctx context.Context, issues []config.Issue) error {
	log := logging.FromContext(ctx)
	for _, iss := range issues {
		if iss.Severity == config.SeverityError {
			log.Error("config", "path", iss.Path, "msg", iss.Message)
		} else {
			log.Warn("config", "path", iss.Path, "msg", iss.Message)
		}
	}
	if config.HasErrors(issues) {
		return errors.New("configuration is invalid")
	}
	return nil
}

// runClean loads, cleans and writes the table, loads it into the database
// when one is configured, then prints the summary.
func runClean(ctx context.Context, p config.Pipeline, out io.Writer) error {
	log := logging.FromContext(ctx)
	start := time.Now()

	in, skipped, err := pcsv.Load(ctx, sourceFor(p.Source), csvOptions(p.Parser.Options))
	if err != nil {
		return fmt.Errorf("load %s: %w", p.Source.Location(), err)
	}
	log.Info("input loaded", "source", p.Source.Location(), "rows", in.Len(), "skipped", skipped)
	if err := pcsv.RequireColumns(in, transformer.SourceColumns); err != nil {
		log.Warn("input is missing columns; they read as absent", "err", err)
	}

	cleaned, st, err := transformer.Run(ctx, in, transformer.Options{
		Job:     p.Job,
		Workers: p.Runtime.TransformWorkers,
	})
	if err != nil {
		return err
	}

	if err := sink.Write(ctx, p.Output.Path, p.Output.Format, cleaned); err != nil {
		return fmt.Errorf("write %s: %w", p.Output.Path, err)
	}
	metrics.RecordRows(p.Job, metrics.RowsWritten, int64(cleaned.Len()))
	log.Info("output written", "path", p.Output.Path, "rows", cleaned.Len())

	if p.Storage.Kind != "" {
		n, err := storeTable(ctx, p.Storage, cleaned)
		metrics.RecordRows(p.Job, metrics.RowsStored, n)
		if err != nil {
			return err
		}
	}

	log.Info("run complete", "elapsed", time.Since(start).Round(time.Millisecond))

	s := report.Summarize(st.Read, cleaned, p.Report.TopGenres)
	if err := s.Write(out); err != nil {
		return err
	}
	if p.Report.Examples > 0 {
		if err := report.WriteExamples(out, report.Examples(cleaned, p.Report.Examples)); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(out, "\nCleaned table saved as %s\n", p.Output.Path)
	return err
}
