// Wafcheck Lambda entrypoint, invoked by AWS Config as a custom rule.
// The invocation payload's resultToken correlates the submitted
// evaluations with the triggering compliance check.
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tidewatch/wafcheck/internal/config"
	"github.com/tidewatch/wafcheck/internal/pipeline"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", "wafcheck").Logger()

	region := config.ResolveRegion("")

	p, err := pipeline.NewFromConfig(context.Background(), region, "", log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("build pipeline")
	}

	lambda.Start(func(ctx context.Context, event json.RawMessage) (pipeline.Summary, error) {
		// Partial completion beats total failure for a compliance
		// sweep: the pipeline never surfaces an error to the runtime.
		return p.Run(ctx, event), nil
	})
}
