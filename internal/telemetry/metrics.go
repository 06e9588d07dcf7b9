package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SweepMetrics holds per-sweep operational metrics. Instruments come from
// the global meter provider, so they are no-ops until one is installed.
type SweepMetrics struct {
	sweeps              metric.Int64Counter
	sweepDuration       metric.Float64Histogram
	resourcesDiscovered metric.Int64Gauge
	verdicts            metric.Int64Counter
	batchFailures       metric.Int64Counter
}

// NewSweepMetrics creates sweep metrics.
func NewSweepMetrics() (*SweepMetrics, error) {
	meter := otel.Meter("wafcheck.sweep")

	sweeps, err := meter.Int64Counter(
		"wafcheck.sweeps",
		metric.WithDescription("Number of compliance sweeps run"),
		metric.WithUnit("{sweep}"),
	)
	if err != nil {
		return nil, err
	}

	sweepDuration, err := meter.Float64Histogram(
		"wafcheck.sweep.duration",
		metric.WithDescription("Duration of compliance sweeps"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	resourcesDiscovered, err := meter.Int64Gauge(
		"wafcheck.resources.discovered",
		metric.WithDescription("Number of gateway resources discovered"),
		metric.WithUnit("{resource}"),
	)
	if err != nil {
		return nil, err
	}

	verdicts, err := meter.Int64Counter(
		"wafcheck.verdicts",
		metric.WithDescription("Number of verdicts produced"),
		metric.WithUnit("{verdict}"),
	)
	if err != nil {
		return nil, err
	}

	batchFailures, err := meter.Int64Counter(
		"wafcheck.submission.batch_failures",
		metric.WithDescription("Number of evaluation batches that failed to submit"),
		metric.WithUnit("{batch}"),
	)
	if err != nil {
		return nil, err
	}

	return &SweepMetrics{
		sweeps:              sweeps,
		sweepDuration:       sweepDuration,
		resourcesDiscovered: resourcesDiscovered,
		verdicts:            verdicts,
		batchFailures:       batchFailures,
	}, nil
}

// RecordSweep records one completed sweep with its duration.
func (m *SweepMetrics) RecordSweep(ctx context.Context, region string, durationSeconds float64) {
	attrs := metric.WithAttributes(attribute.String("cloud.region", region))
	m.sweeps.Add(ctx, 1, attrs)
	m.sweepDuration.Record(ctx, durationSeconds, attrs)
}

// RecordResourcesDiscovered records the number of gateway resources found.
func (m *SweepMetrics) RecordResourcesDiscovered(ctx context.Context, count int64, region string) {
	m.resourcesDiscovered.Record(ctx, count,
		metric.WithAttributes(attribute.String("cloud.region", region)),
	)
}

// RecordVerdicts records produced verdicts by compliance outcome.
func (m *SweepMetrics) RecordVerdicts(ctx context.Context, compliant, nonCompliant int64) {
	m.verdicts.Add(ctx, compliant,
		metric.WithAttributes(attribute.String("compliance", "COMPLIANT")),
	)
	m.verdicts.Add(ctx, nonCompliant,
		metric.WithAttributes(attribute.String("compliance", "NON_COMPLIANT")),
	)
}

// RecordBatchFailures records evaluation batches lost to submission errors.
func (m *SweepMetrics) RecordBatchFailures(ctx context.Context, count int64) {
	if count > 0 {
		m.batchFailures.Add(ctx, count)
	}
}
