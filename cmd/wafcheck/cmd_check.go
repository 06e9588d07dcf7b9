package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tidewatch/wafcheck/internal/config"
	"github.com/tidewatch/wafcheck/internal/pipeline"
)

var (
	checkRegion string
	checkEvent  string
)

// checkCmd runs one compliance sweep and exits
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one compliance sweep and exit",
	Long: `Run a single compliance sweep: discover API Gateway resources,
match them against regional WAFv2 web ACLs, and submit the verdicts to
AWS Config. Prints the summary as JSON.

The trigger event may carry a resultToken that AWS Config uses to
correlate the submitted evaluations with a compliance-check invocation.
Without one, the sentinel token is used.`,
	Example: `  wafcheck check                          # Sweep the default region
  wafcheck check --region eu-west-1       # Sweep a specific region
  wafcheck check --event event.json       # Use a trigger event file
  cat event.json | wafcheck check -e -    # Read the event from stdin`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkRegion, "region", "r", "", "AWS region to sweep (default: config, then AWS_REGION, then "+config.DefaultRegion+")")
	checkCmd.Flags().StringVarP(&checkEvent, "event", "e", "", "Trigger event JSON file, '-' for stdin")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	region := config.ResolveRegion(firstNonEmpty(checkRegion, cfg.AWS.Region))

	event, err := readEvent(checkEvent)
	if err != nil {
		return err
	}

	p, err := pipeline.NewFromConfig(ctx, region, cfg.AWS.Profile, log.Logger)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	summary := p.Run(ctx, event)

	out, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	return nil
}

func readEvent(path string) (json.RawMessage, error) {
	switch path {
	case "":
		return nil, nil
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read event from stdin: %w", err)
		}
		return data, nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read event file: %w", err)
		}
		return data, nil
	}
}
