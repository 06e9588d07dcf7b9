package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tidewatch/wafcheck/internal/config"
)

var (
	version = "0.1.0"
	cfgFile string
	debug   bool
	cfg     = config.Default()

	rootCmd = &cobra.Command{
		Use:   "wafcheck",
		Short: "API Gateway WAF compliance checker",
		Long: `Wafcheck - API Gateway WAF compliance checker

Wafcheck sweeps every API Gateway REST and HTTP/WebSocket API in a
region, checks whether a regional WAFv2 web ACL protects it, and reports
a per-resource compliance verdict to AWS Config. Anything without a web
ACL attached is reported NON_COMPLIANT.`,
		Version:           version,
		PersistentPreRunE: setup,
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(`Wafcheck {{.Version}} - API Gateway WAF compliance checker
`)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to TOML config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

func setup(cmd *cobra.Command, args []string) error {
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", cfg.Log.Level, err)
	}
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
