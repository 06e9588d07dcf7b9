// Package compliance builds per-resource verdicts and submits them to
// AWS Config.
package compliance

import (
	"time"

	"github.com/tidewatch/wafcheck/internal/gateway"
)

// Annotations surfaced to operators through AWS Config. These strings are
// part of the observable contract and must not change.
const (
	AnnotationProtected   = "WAFv2 WebACL attached (REGIONAL)"
	AnnotationUnprotected = "No WAFv2 WebACL attached"
)

// Verdict is the compliance result for one gateway resource.
type Verdict struct {
	ResourceID   string
	ResourceType string
	Compliant    bool
	Annotation   string
	ObservedAt   time.Time
}

// NewVerdict builds the verdict for one resource. observedAt is captured
// once per sweep and shared by every verdict in that sweep.
func NewVerdict(r gateway.Resource, compliant bool, observedAt time.Time) Verdict {
	annotation := AnnotationUnprotected
	if compliant {
		annotation = AnnotationProtected
	}
	return Verdict{
		ResourceID:   r.ID,
		ResourceType: r.Type,
		Compliant:    compliant,
		Annotation:   annotation,
		ObservedAt:   observedAt,
	}
}
