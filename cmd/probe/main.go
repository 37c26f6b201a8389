package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DRSN-tech/qdrant-probe/internal/app"
	config "github.com/DRSN-tech/qdrant-probe/internal/cfg"
	"github.com/DRSN-tech/qdrant-probe/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		strict   bool
		recreate bool
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Smoke-test a hosted Qdrant instance over gRPC",
		Long: "Connects to Qdrant at HOST:6334 with API_KEY, creates a test collection,\n" +
			"upserts two points and runs one similarity search, printing every outcome.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logCfg := config.LoadLogCfg()
			log, err := logger.NewZapLogger(logCfg.Env, logCfg.Level)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed to initialize logger: %v\n", err)
				return err
			}
			defer func() { _ = log.Sync() }()

			cfg, err := config.Load(log)
			if err != nil {
				log.Errorf(err, "failed to load config")
				fmt.Fprintf(cmd.ErrOrStderr(), "configuration error: %v\n", err)
				return err
			}

			// Флаги имеют приоритет над переменными окружения
			flags := cmd.Flags()
			if flags.Changed("strict") {
				cfg.Probe.Strict = strict
			}
			if flags.Changed("recreate") {
				cfg.Probe.Recreate = recreate
			}
			if flags.Changed("timeout") {
				cfg.Probe.Timeout = timeout
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.NewApp(cfg, log, cmd.OutOrStdout()).Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "abort on the first failed step and exit 1 (env STRICT_MODE)")
	cmd.Flags().BoolVar(&recreate, "recreate", false, "delete the collection before creating it (env RECREATE_COLLECTION)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "deadline for each remote call, 0 disables it (env PROBE_TIMEOUT)")

	return cmd
}
