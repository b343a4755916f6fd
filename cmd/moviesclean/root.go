package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"moviesclean/internal/config"
	"moviesclean/internal/logging"
	"moviesclean/internal/metrics"
	"moviesclean/internal/metrics/datadog"
	"moviesclean/internal/metrics/prompush"
)

// Environment fallbacks for the persistent flags.
const (
	envMetricsBackend = "METRICS_BACKEND"
	envPushgatewayURL = "PUSHGATEWAY_URL"
	envStatsdAddr     = "STATSD_ADDR"
)

type globalFlags struct {
	logLevel       string
	logJSON        bool
	envFile        string
	metricsBackend string
	pushgatewayURL string
	statsdAddr     string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "moviesclean",
		Short:         "Clean a movies/TV series CSV export",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(g.envFile); err != nil {
				return err
			}
			g.resolveEnv(cmd)

			log := logging.Setup(logging.Config{
				Level:  g.logLevel,
				JSON:   g.logJSON,
				Output: cmd.ErrOrStderr(),
			}).With("run_id", uuid.NewString())

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(logging.ContextWithLogger(ctx, log))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.BoolVar(&g.logJSON, "log-json", false, "force JSON log output")
	pf.StringVar(&g.envFile, "env-file", ".env", "optional .env file with environment overrides")
	pf.StringVar(&g.metricsBackend, "metrics-backend", "none", "metrics backend: none, pushgateway, datadog (env "+envMetricsBackend+")")
	pf.StringVar(&g.pushgatewayURL, "pushgateway-url", "http://localhost:9091", "Pushgateway base URL (env "+envPushgatewayURL+")")
	pf.StringVar(&g.statsdAddr, "statsd-addr", "127.0.0.1:8125", "DogStatsD address (env "+envStatsdAddr+")")

	root.AddCommand(
		newCleanCmd(g),
		newReportCmd(),
		newVerifyCmd(),
		newValidateCmd(),
	)
	return root
}

// resolveEnv fills flags the user did not set from the environment:
// flag → env → default.
func (g *globalFlags) resolveEnv(cmd *cobra.Command) {
	fromEnv := func(flag, env string, dst *string) {
		if cmd.Flags().Changed(flag) {
			return
		}
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*dst = v
		}
	}
	fromEnv("metrics-backend", envMetricsBackend, &g.metricsBackend)
	fromEnv("pushgateway-url", envPushgatewayURL, &g.pushgatewayURL)
	fromEnv("statsd-addr", envStatsdAddr, &g.statsdAddr)
}

// setupMetrics installs the selected metrics backend and returns a function
// that flushes it and restores the no-op backend.
func (g *globalFlags) setupMetrics(ctx context.Context, job string) (func(), error) {
	log := logging.FromContext(ctx)

	var (
		b   metrics.Backend
		err error
	)
	switch strings.ToLower(g.metricsBackend) {
	case "", "none":
		log.Debug("metrics disabled")
		return func() {}, nil
	case "pushgateway":
		b, err = prompush.NewBackend(job, g.pushgatewayURL)
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       g.statsdAddr,
			Namespace:  "moviesclean.",
			GlobalTags: []string{"job:" + job},
		})
	default:
		return nil, fmt.Errorf("metrics: unknown backend %q", g.metricsBackend)
	}
	if err != nil {
		return nil, err
	}

	log.Info("metrics enabled", "backend", g.metricsBackend, "job", job)
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Warn("metrics flush failed", "err", err)
		}
		metrics.SetBackend(nil)
	}, nil
}
