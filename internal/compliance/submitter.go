package compliance

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/configservice"
	cstypes "github.com/aws/aws-sdk-go-v2/service/configservice/types"
	"github.com/rs/zerolog"
)

// ConfigAPI defines the AWS Config operations used by the submitter.
type ConfigAPI interface {
	PutEvaluations(ctx context.Context, params *configservice.PutEvaluationsInput, optFns ...func(*configservice.Options)) (*configservice.PutEvaluationsOutput, error)
}

// maxBatchSize is the PutEvaluations cap on evaluations per call.
const maxBatchSize = 100

// Submitter delivers verdicts to AWS Config in order-preserving batches.
type Submitter struct {
	client ConfigAPI
	logger zerolog.Logger
}

// NewSubmitter creates a submitter.
func NewSubmitter(client ConfigAPI, logger zerolog.Logger) *Submitter {
	return &Submitter{client: client, logger: logger}
}

// Result summarizes one submission pass.
type Result struct {
	Submitted     int
	Batches       int
	FailedBatches int
}

// Submit partitions verdicts into contiguous batches of at most 100 and
// submits each with the correlation token. A failed batch is logged and
// does not block later batches.
func (s *Submitter) Submit(ctx context.Context, verdicts []Verdict, token string) Result {
	var res Result

	for start := 0; start < len(verdicts); start += maxBatchSize {
		end := min(start+maxBatchSize, len(verdicts))
		batch := verdicts[start:end]
		res.Batches++

		_, err := s.client.PutEvaluations(ctx, &configservice.PutEvaluationsInput{
			Evaluations: toEvaluations(batch),
			ResultToken: aws.String(token),
		})
		if err != nil {
			res.FailedBatches++
			s.logger.Error().Err(err).
				Int("batch_start", start).
				Int("batch_size", len(batch)).
				Msg("put evaluations failed")
			continue
		}
		res.Submitted += len(batch)
	}

	s.logger.Info().
		Int("verdicts", len(verdicts)).
		Int("submitted", res.Submitted).
		Int("batches", res.Batches).
		Msg("submission complete")

	return res
}

func toEvaluations(batch []Verdict) []cstypes.Evaluation {
	evaluations := make([]cstypes.Evaluation, 0, len(batch))
	for _, v := range batch {
		complianceType := cstypes.ComplianceTypeNonCompliant
		if v.Compliant {
			complianceType = cstypes.ComplianceTypeCompliant
		}
		evaluations = append(evaluations, cstypes.Evaluation{
			ComplianceResourceId:   aws.String(v.ResourceID),
			ComplianceResourceType: aws.String(v.ResourceType),
			ComplianceType:         complianceType,
			Annotation:             aws.String(v.Annotation),
			OrderingTimestamp:      aws.Time(v.ObservedAt),
		})
	}
	return evaluations
}
