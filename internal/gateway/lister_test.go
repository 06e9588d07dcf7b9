package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigateway/types"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	apigwv2types "github.com/aws/aws-sdk-go-v2/service/apigatewayv2/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRestClient struct {
	GetRestApisFunc func(ctx context.Context, params *apigateway.GetRestApisInput, optFns ...func(*apigateway.Options)) (*apigateway.GetRestApisOutput, error)
}

func (m *mockRestClient) GetRestApis(ctx context.Context, params *apigateway.GetRestApisInput, optFns ...func(*apigateway.Options)) (*apigateway.GetRestApisOutput, error) {
	return m.GetRestApisFunc(ctx, params, optFns...)
}

type mockHTTPClient struct {
	GetApisFunc func(ctx context.Context, params *apigatewayv2.GetApisInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetApisOutput, error)
}

func (m *mockHTTPClient) GetApis(ctx context.Context, params *apigatewayv2.GetApisInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetApisOutput, error) {
	return m.GetApisFunc(ctx, params, optFns...)
}

func restPage(ids ...string) []apigwtypes.RestApi {
	items := make([]apigwtypes.RestApi, 0, len(ids))
	for _, id := range ids {
		items = append(items, apigwtypes.RestApi{Id: aws.String(id)})
	}
	return items
}

func httpPage(ids ...string) []apigwv2types.Api {
	items := make([]apigwv2types.Api, 0, len(ids))
	for _, id := range ids {
		items = append(items, apigwv2types.Api{ApiId: aws.String(id)})
	}
	return items
}

func emptyRest() *mockRestClient {
	return &mockRestClient{
		GetRestApisFunc: func(_ context.Context, _ *apigateway.GetRestApisInput, _ ...func(*apigateway.Options)) (*apigateway.GetRestApisOutput, error) {
			return &apigateway.GetRestApisOutput{}, nil
		},
	}
}

func emptyHTTP() *mockHTTPClient {
	return &mockHTTPClient{
		GetApisFunc: func(_ context.Context, _ *apigatewayv2.GetApisInput, _ ...func(*apigatewayv2.Options)) (*apigatewayv2.GetApisOutput, error) {
			return &apigatewayv2.GetApisOutput{}, nil
		},
	}
}

func TestListBothFamilies(t *testing.T) {
	rest := &mockRestClient{
		GetRestApisFunc: func(_ context.Context, params *apigateway.GetRestApisInput, _ ...func(*apigateway.Options)) (*apigateway.GetRestApisOutput, error) {
			assert.Equal(t, int32(500), aws.ToInt32(params.Limit))
			return &apigateway.GetRestApisOutput{Items: restPage("r1", "r2")}, nil
		},
	}
	http := &mockHTTPClient{
		GetApisFunc: func(_ context.Context, params *apigatewayv2.GetApisInput, _ ...func(*apigatewayv2.Options)) (*apigatewayv2.GetApisOutput, error) {
			assert.Equal(t, "500", aws.ToString(params.MaxResults))
			return &apigatewayv2.GetApisOutput{Items: httpPage("h1")}, nil
		},
	}

	l := NewLister(rest, http, "eu-west-1", zerolog.Nop())
	resources := l.List(context.Background())

	require.Len(t, resources, 3)
	assert.Equal(t, Resource{ID: "r1", Type: TypeRestAPI, ARN: "arn:aws:apigateway:eu-west-1::/restapis/r1"}, resources[0])
	assert.Equal(t, Resource{ID: "h1", Type: TypeHTTPAPI, ARN: "arn:aws:apigateway:eu-west-1::/apis/h1"}, resources[2])
}

func TestListPaginatesRestAPIs(t *testing.T) {
	var calls int
	rest := &mockRestClient{
		GetRestApisFunc: func(_ context.Context, params *apigateway.GetRestApisInput, _ ...func(*apigateway.Options)) (*apigateway.GetRestApisOutput, error) {
			calls++
			switch calls {
			case 1:
				assert.Nil(t, params.Position)
				return &apigateway.GetRestApisOutput{Items: restPage("r1"), Position: aws.String("pos-1")}, nil
			default:
				assert.Equal(t, "pos-1", aws.ToString(params.Position))
				return &apigateway.GetRestApisOutput{Items: restPage("r2")}, nil
			}
		},
	}

	l := NewLister(rest, emptyHTTP(), "us-east-1", zerolog.Nop())
	resources := l.List(context.Background())

	assert.Equal(t, 2, calls)
	require.Len(t, resources, 2)
	assert.Equal(t, "r1", resources[0].ID)
	assert.Equal(t, "r2", resources[1].ID)
}

func TestListPaginatesHTTPAPIs(t *testing.T) {
	var calls int
	http := &mockHTTPClient{
		GetApisFunc: func(_ context.Context, params *apigatewayv2.GetApisInput, _ ...func(*apigatewayv2.Options)) (*apigatewayv2.GetApisOutput, error) {
			calls++
			if calls == 1 {
				return &apigatewayv2.GetApisOutput{Items: httpPage("h1"), NextToken: aws.String("tok-1")}, nil
			}
			assert.Equal(t, "tok-1", aws.ToString(params.NextToken))
			return &apigatewayv2.GetApisOutput{Items: httpPage("h2")}, nil
		},
	}

	l := NewLister(emptyRest(), http, "us-east-1", zerolog.Nop())
	resources := l.List(context.Background())

	assert.Equal(t, 2, calls)
	require.Len(t, resources, 2)
}

func TestListFamilyFailureIsIsolated(t *testing.T) {
	rest := &mockRestClient{
		GetRestApisFunc: func(_ context.Context, _ *apigateway.GetRestApisInput, _ ...func(*apigateway.Options)) (*apigateway.GetRestApisOutput, error) {
			return nil, errors.New("access denied")
		},
	}
	http := &mockHTTPClient{
		GetApisFunc: func(_ context.Context, _ *apigatewayv2.GetApisInput, _ ...func(*apigatewayv2.Options)) (*apigatewayv2.GetApisOutput, error) {
			return &apigatewayv2.GetApisOutput{Items: httpPage("h1", "h2")}, nil
		},
	}

	l := NewLister(rest, http, "us-east-1", zerolog.Nop())
	resources := l.List(context.Background())

	require.Len(t, resources, 2)
	assert.Equal(t, TypeHTTPAPI, resources[0].Type)
}

func TestListKeepsPartialPagesFromFailedFamily(t *testing.T) {
	var calls int
	rest := &mockRestClient{
		GetRestApisFunc: func(_ context.Context, _ *apigateway.GetRestApisInput, _ ...func(*apigateway.Options)) (*apigateway.GetRestApisOutput, error) {
			calls++
			if calls == 1 {
				return &apigateway.GetRestApisOutput{Items: restPage("r1"), Position: aws.String("pos-1")}, nil
			}
			return nil, errors.New("throttled")
		},
	}

	l := NewLister(rest, emptyHTTP(), "us-east-1", zerolog.Nop())
	resources := l.List(context.Background())

	require.Len(t, resources, 1)
	assert.Equal(t, "r1", resources[0].ID)
}

func TestListDeduplicatesByARN(t *testing.T) {
	rest := &mockRestClient{
		GetRestApisFunc: func(_ context.Context, _ *apigateway.GetRestApisInput, _ ...func(*apigateway.Options)) (*apigateway.GetRestApisOutput, error) {
			return &apigateway.GetRestApisOutput{Items: restPage("r1", "r1")}, nil
		},
	}

	l := NewLister(rest, emptyHTTP(), "us-east-1", zerolog.Nop())
	resources := l.List(context.Background())

	require.Len(t, resources, 1)
}
