// Package pipeline orchestrates one compliance sweep end to end:
// discover gateway resources, scan the firewall registry, match
// attachments, build verdicts, submit them to AWS Config.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/configservice"
	"github.com/aws/aws-sdk-go-v2/service/wafv2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tidewatch/wafcheck/internal/compliance"
	"github.com/tidewatch/wafcheck/internal/firewall"
	"github.com/tidewatch/wafcheck/internal/gateway"
	"github.com/tidewatch/wafcheck/internal/telemetry"
)

// Summary is the result returned to the invoking runtime.
type Summary struct {
	Evaluations int `json:"evaluations"`
}

// Clients bundles the AWS service clients the pipeline talks to.
type Clients struct {
	Rest   gateway.RestAPI
	HTTP   gateway.HTTPAPI
	WAF    firewall.WebACLAPI
	Config compliance.ConfigAPI
}

// Pipeline runs compliance sweeps. Stages always run in order; a failing
// stage leaves its output empty but never aborts the sweep, so the
// summary is produced even when every external call failed.
type Pipeline struct {
	lister    *gateway.Lister
	registry  *firewall.Registry
	waf       firewall.WebACLAPI
	submitter *compliance.Submitter
	region    string
	logger    zerolog.Logger
	tracer    trace.Tracer
	metrics   *telemetry.SweepMetrics
	now       func() time.Time
}

// New wires a pipeline from service clients.
func New(clients Clients, region string, logger zerolog.Logger) (*Pipeline, error) {
	metrics, err := telemetry.NewSweepMetrics()
	if err != nil {
		return nil, fmt.Errorf("create sweep metrics: %w", err)
	}

	return &Pipeline{
		lister:    gateway.NewLister(clients.Rest, clients.HTTP, region, logger),
		registry:  firewall.NewRegistry(clients.WAF, logger),
		waf:       clients.WAF,
		submitter: compliance.NewSubmitter(clients.Config, logger),
		region:    region,
		logger:    logger,
		tracer:    otel.Tracer("wafcheck.pipeline"),
		metrics:   metrics,
		now:       time.Now,
	}, nil
}

// NewFromConfig builds real AWS clients for region and wires a pipeline.
func NewFromConfig(ctx context.Context, region, profile string, logger zerolog.Logger) (*Pipeline, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return New(Clients{
		Rest:   apigateway.NewFromConfig(awsCfg),
		HTTP:   apigatewayv2.NewFromConfig(awsCfg),
		WAF:    wafv2.NewFromConfig(awsCfg),
		Config: configservice.NewFromConfig(awsCfg),
	}, region, logger)
}

// Run executes one sweep for the given raw trigger event and returns the
// summary handed back to the invoking runtime.
func (p *Pipeline) Run(ctx context.Context, event json.RawMessage) Summary {
	start := time.Now()

	token := ResultToken(event)
	if token == SentinelToken {
		p.logger.Debug().Msg("no result token in trigger event, using sentinel")
	}

	ctx, span := p.tracer.Start(ctx, "sweep")
	defer span.End()

	p.logger.Info().Str("region", p.region).Msg("compliance sweep starting")

	resources := p.discover(ctx)
	policies := p.scanFirewalls(ctx)
	verdicts := p.matchAndBuild(ctx, resources, policies)
	res := p.submit(ctx, verdicts, token)

	p.metrics.RecordSweep(ctx, p.region, time.Since(start).Seconds())

	p.logger.Info().
		Int("resources", len(resources)).
		Int("verdicts", len(verdicts)).
		Int("submitted", res.Submitted).
		Dur("duration", time.Since(start)).
		Msg("compliance sweep complete")

	return Summary{Evaluations: res.Submitted}
}

func (p *Pipeline) discover(ctx context.Context) []gateway.Resource {
	ctx, span := p.tracer.Start(ctx, "discover")
	defer span.End()

	resources := p.lister.List(ctx)
	span.SetAttributes(attribute.Int("resources", len(resources)))
	p.metrics.RecordResourcesDiscovered(ctx, int64(len(resources)), p.region)
	return resources
}

func (p *Pipeline) scanFirewalls(ctx context.Context) []firewall.Policy {
	ctx, span := p.tracer.Start(ctx, "scan_firewalls")
	defer span.End()

	policies := p.registry.ListPolicies(ctx)
	span.SetAttributes(attribute.Int("web_acls", len(policies)))
	return policies
}

// matchAndBuild produces exactly one verdict per discovered resource.
// Missing firewall data classifies non-compliant, never compliant.
func (p *Pipeline) matchAndBuild(ctx context.Context, resources []gateway.Resource, policies []firewall.Policy) []compliance.Verdict {
	ctx, span := p.tracer.Start(ctx, "match_and_build")
	defer span.End()

	matcher := firewall.NewMatcher(p.waf, p.logger)
	observedAt := p.now()

	verdicts := make([]compliance.Verdict, 0, len(resources))
	var compliant int64
	for _, r := range resources {
		protected := matcher.Match(ctx, policies, r.ARN)
		if protected {
			compliant++
		}
		verdicts = append(verdicts, compliance.NewVerdict(r, protected, observedAt))
	}

	span.SetAttributes(attribute.Int64("compliant", compliant))
	p.metrics.RecordVerdicts(ctx, compliant, int64(len(verdicts))-compliant)
	return verdicts
}

func (p *Pipeline) submit(ctx context.Context, verdicts []compliance.Verdict, token string) compliance.Result {
	ctx, span := p.tracer.Start(ctx, "submit")
	defer span.End()

	res := p.submitter.Submit(ctx, verdicts, token)
	span.SetAttributes(
		attribute.Int("batches", res.Batches),
		attribute.Int("failed_batches", res.FailedBatches),
	)
	p.metrics.RecordBatchFailures(ctx, int64(res.FailedBatches))
	return res
}
