package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bft-labs/telemship/internal/config"
	"github.com/bft-labs/telemship/pkg/log"
	"github.com/bft-labs/telemship/pkg/telemship"
)

const longHelp = `
Ship queued telemetry batches from a local spool directory to an ingestion
endpoint over HTTP.

Highlights:
  - Bounded concurrency with retry on transient failures.
  - Watches the spool so new batches go out immediately.
  - Configure via file ($HOME/.telemship/config.toml), env (TELEMSHIP_*),
    or flags; flags win.
`

var exampleUsage = strings.TrimSpace(`
  telemship --spool-dir /var/lib/myapp/telemetry
  telemship --config $HOME/.telemship/config.toml --once
  telemship --spool-dir ./spool --endpoint https://ingest.example.com/v2/track
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := config.DefaultConfig()
	var cfgPath string
	var verbose bool

	root := &cobra.Command{
		Use:     "telemship",
		Short:   "Ship queued telemetry batches to an ingestion endpoint",
		Long:    strings.TrimSpace(longHelp),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.telemship/config.toml),
			// then env, then flag overrides.
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) {
				changed[f.Name] = true
			})

			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = config.DefaultConfigPath()
			}
			if cfgFile != "" && config.FileExists(cfgFile) {
				fc, err := config.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config file %s: %w", cfgFile, err)
				}
				if err := config.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}
			if err := config.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.SpoolDir == "" {
				return fmt.Errorf("spool-dir is required")
			}

			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
			logger := log.NewZerologAdapter()

			return run(cmd, cfg, logger)
		},
	}

	flags := root.Flags()
	flags.StringVar(&cfgPath, "config", "", "path to TOML config file")
	flags.StringVar(&cfg.EndpointURL, "endpoint", cfg.EndpointURL, "ingestion endpoint URL (default "+telemship.DefaultEndpointURL+")")
	flags.StringVar(&cfg.SpoolDir, "spool-dir", cfg.SpoolDir, "directory holding queued batch files")
	flags.IntVar(&cfg.MaxSpoolFiles, "max-spool-files", cfg.MaxSpoolFiles, "maximum number of batch files kept in the spool")
	flags.DurationVar(&cfg.ConnectTimeout, "connect-timeout", cfg.ConnectTimeout, "connection establishment timeout")
	flags.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "response read timeout")
	flags.DurationVar(&cfg.SendInterval, "send-interval", cfg.SendInterval, "period of the automatic send trigger")
	flags.DurationVar(&cfg.BackoffMax, "backoff-max", cfg.BackoffMax, "maximum trigger interval while the endpoint fails recoverably")
	flags.IntVar(&cfg.MaxRequests, "max-requests", cfg.MaxRequests, "maximum concurrent transmission attempts")
	flags.BoolVar(&cfg.Compress, "compress", cfg.Compress, "gzip-compress outgoing payloads")
	flags.BoolVar(&cfg.LogPayloads, "log-payloads", cfg.LogPayloads, "log outgoing payloads verbatim at debug level (may expose telemetry content)")
	flags.BoolVar(&cfg.WatchSpool, "watch-spool", cfg.WatchSpool, "trigger sending when new batch files appear in the spool")
	flags.BoolVar(&cfg.Once, "once", cfg.Once, "drain the queue once and exit")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, cfg config.Config, logger log.Logger) error {
	shipper, err := telemship.New(cfg, telemship.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Once {
		logger.Info("draining spool once", log.String("spool", cfg.SpoolDir))
		return shipper.Drain(ctx)
	}

	if err := shipper.Start(ctx); err != nil {
		return err
	}
	logger.Info("telemship running",
		log.String("spool", cfg.SpoolDir),
		log.Duration("send_interval", cfg.SendInterval),
	)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	return shipper.Stop()
}
