package firewall

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/wafv2"
)

// WebACLAPI defines the WAFv2 operations used by the registry and matcher.
type WebACLAPI interface {
	ListWebACLs(ctx context.Context, params *wafv2.ListWebACLsInput, optFns ...func(*wafv2.Options)) (*wafv2.ListWebACLsOutput, error)
	ListResourcesForWebACL(ctx context.Context, params *wafv2.ListResourcesForWebACLInput, optFns ...func(*wafv2.Options)) (*wafv2.ListResourcesForWebACLOutput, error)
}
