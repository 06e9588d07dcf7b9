package firewall

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/wafv2"
	wafv2types "github.com/aws/aws-sdk-go-v2/service/wafv2/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockWAFClient struct {
	ListWebACLsFunc            func(ctx context.Context, params *wafv2.ListWebACLsInput, optFns ...func(*wafv2.Options)) (*wafv2.ListWebACLsOutput, error)
	ListResourcesForWebACLFunc func(ctx context.Context, params *wafv2.ListResourcesForWebACLInput, optFns ...func(*wafv2.Options)) (*wafv2.ListResourcesForWebACLOutput, error)
}

func (m *mockWAFClient) ListWebACLs(ctx context.Context, params *wafv2.ListWebACLsInput, optFns ...func(*wafv2.Options)) (*wafv2.ListWebACLsOutput, error) {
	return m.ListWebACLsFunc(ctx, params, optFns...)
}

func (m *mockWAFClient) ListResourcesForWebACL(ctx context.Context, params *wafv2.ListResourcesForWebACLInput, optFns ...func(*wafv2.Options)) (*wafv2.ListResourcesForWebACLOutput, error) {
	return m.ListResourcesForWebACLFunc(ctx, params, optFns...)
}

func TestListPoliciesRegionalScope(t *testing.T) {
	mock := &mockWAFClient{
		ListWebACLsFunc: func(_ context.Context, params *wafv2.ListWebACLsInput, _ ...func(*wafv2.Options)) (*wafv2.ListWebACLsOutput, error) {
			assert.Equal(t, wafv2types.ScopeRegional, params.Scope)
			return &wafv2.ListWebACLsOutput{
				WebACLs: []wafv2types.WebACLSummary{
					{ARN: aws.String("arn:aws:wafv2:us-east-1:123456789012:regional/webacl/edge/1"), Name: aws.String("edge")},
					{ARN: aws.String("arn:aws:wafv2:us-east-1:123456789012:regional/webacl/core/2"), Name: aws.String("core")},
				},
			}, nil
		},
	}

	r := NewRegistry(mock, zerolog.Nop())
	policies := r.ListPolicies(context.Background())

	require.Len(t, policies, 2)
	assert.Equal(t, "edge", policies[0].Name)
	assert.Contains(t, policies[1].ARN, "webacl/core")
}

func TestListPoliciesFollowsMarker(t *testing.T) {
	var calls int
	mock := &mockWAFClient{
		ListWebACLsFunc: func(_ context.Context, params *wafv2.ListWebACLsInput, _ ...func(*wafv2.Options)) (*wafv2.ListWebACLsOutput, error) {
			calls++
			if calls == 1 {
				return &wafv2.ListWebACLsOutput{
					WebACLs:    []wafv2types.WebACLSummary{{ARN: aws.String("acl-1"), Name: aws.String("a")}},
					NextMarker: aws.String("m1"),
				}, nil
			}
			assert.Equal(t, "m1", aws.ToString(params.NextMarker))
			return &wafv2.ListWebACLsOutput{
				WebACLs: []wafv2types.WebACLSummary{{ARN: aws.String("acl-2"), Name: aws.String("b")}},
			}, nil
		},
	}

	r := NewRegistry(mock, zerolog.Nop())
	policies := r.ListPolicies(context.Background())

	assert.Equal(t, 2, calls)
	require.Len(t, policies, 2)
}

func TestListPoliciesErrorYieldsEmptySet(t *testing.T) {
	mock := &mockWAFClient{
		ListWebACLsFunc: func(_ context.Context, _ *wafv2.ListWebACLsInput, _ ...func(*wafv2.Options)) (*wafv2.ListWebACLsOutput, error) {
			return nil, errors.New("access denied")
		},
	}

	r := NewRegistry(mock, zerolog.Nop())
	policies := r.ListPolicies(context.Background())

	assert.Empty(t, policies)
}
