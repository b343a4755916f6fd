package main

import (
	"github.com/spf13/cobra"

	"moviesclean/internal/config"
	pcsv "moviesclean/internal/parser/csv"
	"moviesclean/internal/report"
)

func newReportCmd() *cobra.Command {
	var (
		in  string
		n   int
		top int
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the summary and example rows of a cleaned table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl, err := report.Load(cmd.Context(), sourceFor(inputSource(in)), pcsv.Options{})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := report.Summarize(tbl.Len(), tbl, top).Write(out); err != nil {
				return err
			}
			return report.WriteExamples(out, report.Examples(tbl, n))
		},
	}
	cmd.Flags().StringVar(&in, "in", "n_movies_clean.csv", "cleaned table path or http(s) URL")
	cmd.Flags().IntVarP(&n, "examples", "n", 5, "number of example rows")
	cmd.Flags().IntVar(&top, "top", report.DefaultTopGenres, "number of primary genres to rank")
	return cmd
}

// inputSource builds a source block for a path or URL given on the command line.
func inputSource(loc string) config.Source {
	p := config.Default()
	config.SetInput(&p, loc)
	return p.Source
}
