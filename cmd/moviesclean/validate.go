package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"moviesclean/internal/config"
)

func newValidateCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Lint a pipeline config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			issues := config.ValidatePipeline(p)
			for _, iss := range issues {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
			}
			if config.HasErrors(issues) {
				return fmt.Errorf("configuration is invalid: %s", cfgPath)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "configuration is valid: %s\n", cfgPath)
			return err
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "pipeline config JSON path")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}
