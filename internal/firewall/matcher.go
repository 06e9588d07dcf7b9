package firewall

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/wafv2"
	wafv2types "github.com/aws/aws-sdk-go-v2/service/wafv2/types"
	"github.com/rs/zerolog"
)

// Matcher decides whether a gateway resource is protected by any web ACL.
// Protected-resource sets are memoized per web ACL, so a sweep over R
// resources and P policies costs at most P ListResourcesForWebACL calls.
// One Matcher covers one sweep; state never survives a run.
type Matcher struct {
	client WebACLAPI
	logger zerolog.Logger
	cache  map[string]map[string]struct{}
}

// NewMatcher creates a matcher for a single sweep.
func NewMatcher(client WebACLAPI, logger zerolog.Logger) *Matcher {
	return &Matcher{
		client: client,
		logger: logger,
		cache:  make(map[string]map[string]struct{}),
	}
}

// Match reports whether arn is protected by at least one policy.
// Attachment to any single web ACL is sufficient, so scanning stops at
// the first hit. A failed per-policy query counts as non-matching for
// every resource in this sweep, never as a match.
func (m *Matcher) Match(ctx context.Context, policies []Policy, arn string) bool {
	for _, p := range policies {
		set, ok := m.cache[p.ARN]
		if !ok {
			set = m.protectedSet(ctx, p)
			m.cache[p.ARN] = set
		}
		if _, hit := set[arn]; hit {
			return true
		}
	}
	return false
}

func (m *Matcher) protectedSet(ctx context.Context, p Policy) map[string]struct{} {
	out, err := m.client.ListResourcesForWebACL(ctx, &wafv2.ListResourcesForWebACLInput{
		WebACLArn:    aws.String(p.ARN),
		ResourceType: wafv2types.ResourceTypeApiGateway,
	})
	if err != nil {
		m.logger.Error().Err(err).Str("web_acl", p.ARN).Msg("listing protected resources failed, web ACL treated as non-matching")
		return nil
	}

	set := make(map[string]struct{}, len(out.ResourceArns))
	for _, resourceARN := range out.ResourceArns {
		set[resourceARN] = struct{}{}
	}
	return set
}
