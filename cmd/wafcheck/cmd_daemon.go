package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/tidewatch/wafcheck/internal/config"
	"github.com/tidewatch/wafcheck/internal/pipeline"
	"github.com/tidewatch/wafcheck/internal/telemetry"
)

var (
	daemonRegion   string
	daemonInterval time.Duration
	daemonMetrics  string
)

// daemonCmd runs periodic sweeps with a metrics endpoint
var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run periodic compliance sweeps",
	Long: `Run compliance sweeps on an interval. Periodic sweeps carry no
result token, so evaluations are submitted with the sentinel token.
Operational metrics are exposed on /metrics.`,
	Example: `  wafcheck daemon                       # Sweep hourly
  wafcheck daemon --interval 30m        # Sweep every 30 minutes
  wafcheck daemon --metrics :9191       # Custom metrics address`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)

	daemonCmd.Flags().StringVarP(&daemonRegion, "region", "r", "", "AWS region to sweep")
	daemonCmd.Flags().DurationVar(&daemonInterval, "interval", 0, "Sweep interval (overrides config)")
	daemonCmd.Flags().StringVar(&daemonMetrics, "metrics", "", "Metrics listen address (overrides config)")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	region := config.ResolveRegion(firstNonEmpty(daemonRegion, cfg.AWS.Region))
	interval := cfg.Sweep.Interval
	if daemonInterval > 0 {
		interval = daemonInterval
	}
	metricsAddr := firstNonEmpty(daemonMetrics, cfg.Sweep.MetricsAddr)

	if cfg.OTEL.Endpoint != "" {
		provider, err := telemetry.NewProvider(ctx, cfg.OTEL)
		if err != nil {
			return fmt.Errorf("init telemetry: %w", err)
		}
		defer func() { _ = provider.Shutdown(context.Background()) }()
	} else {
		// No collector configured: expose metrics via Prometheus only.
		exporter, err := otelprom.New()
		if err != nil {
			return fmt.Errorf("create prometheus exporter: %w", err)
		}
		otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)))
	}

	p, err := pipeline.NewFromConfig(ctx, region, cfg.AWS.Profile, log.Logger)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: metricsAddr, Handler: mux}

	var g run.Group

	g.Add(run.SignalHandler(ctx, syscall.SIGINT, syscall.SIGTERM))

	g.Add(func() error {
		log.Info().Str("addr", metricsAddr).Msg("starting metrics server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}, func(error) {
		_ = server.Shutdown(context.Background())
	})

	sweepCtx, cancel := context.WithCancel(ctx)
	g.Add(func() error {
		log.Info().
			Str("region", region).
			Dur("interval", interval).
			Msg("daemon starting")

		p.Run(sweepCtx, nil)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.Run(sweepCtx, nil)
			case <-sweepCtx.Done():
				return nil
			}
		}
	}, func(error) {
		cancel()
	})

	err = g.Run()
	var sig run.SignalError
	if errors.As(err, &sig) {
		log.Info().Str("signal", sig.Signal.String()).Msg("shutting down")
		return nil
	}
	return err
}
