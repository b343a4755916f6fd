package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"moviesclean/internal/logging"
	pcsv "moviesclean/internal/parser/csv"
	"moviesclean/internal/transformer"
)

func newVerifyCmd() *cobra.Command {
	var (
		in      string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that cleaning a cleaned table reproduces its derived columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			tbl, _, err := pcsv.Load(ctx, sourceFor(inputSource(in)), pcsv.Options{})
			if err != nil {
				return err
			}
			if err := pcsv.RequireColumns(tbl, transformer.OutputColumns); err != nil {
				return err
			}

			res, err := transformer.Verify(ctx, tbl, transformer.Options{Workers: workers})
			if err != nil {
				return err
			}
			logging.FromContext(ctx).Info("verify", "rows", res.Rows,
				"want", fmt.Sprintf("%016x", res.Want), "got", fmt.Sprintf("%016x", res.Got))
			if !res.OK() {
				return fmt.Errorf("verify: derived columns differ, first at data row %d", res.FirstMismatch+1)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "OK: %d rows, fingerprint %016x\n", res.Rows, res.Got)
			return err
		},
	}
	cmd.Flags().StringVar(&in, "in", "n_movies_clean.csv", "cleaned table path or http(s) URL")
	cmd.Flags().IntVar(&workers, "workers", 1, "transform workers")
	return cmd
}
