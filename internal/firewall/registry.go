// Package firewall scans WAFv2 web ACLs and matches gateway resources
// against the resources they protect.
package firewall

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/wafv2"
	wafv2types "github.com/aws/aws-sdk-go-v2/service/wafv2/types"
	"github.com/rs/zerolog"

	"github.com/tidewatch/wafcheck/internal/paging"
)

// Policy is one web ACL in the regional scope.
type Policy struct {
	ARN  string
	Name string
}

// Registry enumerates web ACLs. Only the REGIONAL scope is relevant:
// CloudFront-scoped ACLs cannot protect regional API Gateway stages.
type Registry struct {
	client WebACLAPI
	logger zerolog.Logger
}

// NewRegistry creates a registry scanner.
func NewRegistry(client WebACLAPI, logger zerolog.Logger) *Registry {
	return &Registry{client: client, logger: logger}
}

// ListPolicies returns all regional web ACLs. A scan error degrades to an
// empty set, which downstream classifies every resource non-compliant.
func (r *Registry) ListPolicies(ctx context.Context) []Policy {
	policies, err := paging.Collect(ctx, func(ctx context.Context, cursor *string) ([]Policy, *string, error) {
		out, err := r.client.ListWebACLs(ctx, &wafv2.ListWebACLsInput{
			Scope:      wafv2types.ScopeRegional,
			NextMarker: cursor,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("list web acls: %w", err)
		}

		items := make([]Policy, 0, len(out.WebACLs))
		for _, acl := range out.WebACLs {
			items = append(items, Policy{
				ARN:  aws.ToString(acl.ARN),
				Name: aws.ToString(acl.Name),
			})
		}
		return items, out.NextMarker, nil
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("listing web ACLs failed, treating registry as empty")
		return nil
	}

	r.logger.Info().Int("web_acls", len(policies)).Msg("firewall registry scan complete")
	return policies
}
