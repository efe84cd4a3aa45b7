package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tablebridge/pkg/config"
	"github.com/ajitpratap0/tablebridge/pkg/logger"
	"github.com/ajitpratap0/tablebridge/pkg/metrics"
	"github.com/ajitpratap0/tablebridge/pkg/observability"
)

var version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:   "bridgebench",
		Short: "Measure conversions between legacy example sets and columnar tables",
		Long: `bridgebench generates a synthetic example set and times every conversion path
of the table bridge: each read strategy, eager and lazy example sets, reads
through a lazy set and the first write that materializes it.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("bridgebench v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	var (
		configFile string
		opts       benchOptions
		trace      bool
		watch      bool
		output     string
	)
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the conversion benchmark",
		Long: `Run the conversion benchmark and print a JSON report.

Example:
  bridgebench run --rows 100000 --iterations 5 --config bridge.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configFile, output, trace, watch, opts)
		},
	}
	runCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to a bridge configuration file (YAML or JSON)")
	runCmd.Flags().IntVarP(&opts.Rows, "rows", "r", 100_000, "Number of rows in the synthetic example set")
	runCmd.Flags().IntVarP(&opts.Iterations, "iterations", "n", 3, "Repetitions per measurement")
	runCmd.Flags().BoolVar(&trace, "trace", false, "Export conversion spans to stderr")
	runCmd.Flags().BoolVar(&watch, "watch", false, "Follow time.zone changes in the config file while running")
	runCmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to this file instead of stdout")
	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile, output string, trace, watch bool, opts benchOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.NewBridgeConfig()
	if configFile != "" {
		loaded, err := config.LoadBridgeConfig(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := logger.Init(cfg.Logging.LoggerConfig()); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	metrics.SetEnabled(cfg.Metrics.Enabled)

	if trace {
		tc := observability.DefaultTracingConfig()
		tc.Writer = os.Stderr
		tc.PrettyPrint = true
		shutdown, err := observability.InitTracing(tc)
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				logger.Warn("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	log := logger.Named("bridgebench")
	zone, err := zoneSettings(cfg, configFile, watch, log)
	if err != nil {
		return err
	}
	log.Info("starting benchmark",
		zap.Int("rows", opts.Rows),
		zap.Int("iterations", opts.Iterations),
		zap.Int("workers", cfg.Conversion.GetWorkers()),
		zap.String("zone", cfg.Time.Zone))

	report, err := runBenchmark(ctx, cfg, zone, opts, log)
	if err != nil {
		return err
	}

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create report file %s: %w", output, err)
		}
		defer f.Close()
		out = f
	}
	return report.write(out)
}

// zoneSettings returns the preferred time zone of cfg. With watch the zone
// follows later edits of configFile.
func zoneSettings(cfg *config.BridgeConfig, configFile string, watch bool, log *zap.Logger) (*config.ZoneSettings, error) {
	zone, err := config.NewZoneSettings(cfg.Time.Zone)
	if err != nil {
		return nil, err
	}
	if !watch {
		return zone, nil
	}
	if configFile == "" {
		return nil, fmt.Errorf("--watch requires --config")
	}
	if _, err := config.Watch(configFile, zone, log); err != nil {
		return nil, err
	}
	zone.Subscribe(config.ZoneObserverFunc(func(loc *time.Location) {
		log.Info("benchmark time zone changed", zap.String("zone", loc.String()))
	}))
	return zone, nil
}
