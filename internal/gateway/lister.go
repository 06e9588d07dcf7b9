package gateway

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/rs/zerolog"

	"github.com/tidewatch/wafcheck/internal/paging"
)

// pageSize bounds each list call for both API families.
const pageSize = 500

// Lister discovers REST and HTTP/WebSocket APIs in one region.
type Lister struct {
	rest   RestAPI
	http   HTTPAPI
	region string
	logger zerolog.Logger
}

// NewLister creates a lister over both API families.
func NewLister(rest RestAPI, http HTTPAPI, region string, logger zerolog.Logger) *Lister {
	return &Lister{
		rest:   rest,
		http:   http,
		region: region,
		logger: logger,
	}
}

// List returns the de-duplicated set of gateway resources across both
// families. A failing family is logged and contributes whatever it
// managed to list before the error; the other family is unaffected.
func (l *Lister) List(ctx context.Context) []Resource {
	var resources []Resource
	seen := make(map[string]struct{})

	add := func(items []Resource) {
		for _, r := range items {
			if _, dup := seen[r.ARN]; dup {
				continue
			}
			seen[r.ARN] = struct{}{}
			resources = append(resources, r)
		}
	}

	restAPIs, err := l.listRestAPIs(ctx)
	if err != nil {
		l.logger.Error().Err(err).Str("family", TypeRestAPI).Msg("listing REST APIs failed")
	}
	add(restAPIs)

	httpAPIs, err := l.listHTTPAPIs(ctx)
	if err != nil {
		l.logger.Error().Err(err).Str("family", TypeHTTPAPI).Msg("listing HTTP APIs failed")
	}
	add(httpAPIs)

	l.logger.Info().
		Int("rest_apis", len(restAPIs)).
		Int("http_apis", len(httpAPIs)).
		Int("total", len(resources)).
		Msg("gateway discovery complete")

	return resources
}

// listRestAPIs pages through GetRestApis on its opaque position cursor.
func (l *Lister) listRestAPIs(ctx context.Context) ([]Resource, error) {
	return paging.Collect(ctx, func(ctx context.Context, cursor *string) ([]Resource, *string, error) {
		out, err := l.rest.GetRestApis(ctx, &apigateway.GetRestApisInput{
			Limit:    aws.Int32(pageSize),
			Position: cursor,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("get rest apis: %w", err)
		}

		items := make([]Resource, 0, len(out.Items))
		for _, api := range out.Items {
			items = append(items, restResource(l.region, aws.ToString(api.Id)))
		}
		return items, out.Position, nil
	})
}

// listHTTPAPIs pages through GetApis on its next-token cursor.
func (l *Lister) listHTTPAPIs(ctx context.Context) ([]Resource, error) {
	return paging.Collect(ctx, func(ctx context.Context, cursor *string) ([]Resource, *string, error) {
		out, err := l.http.GetApis(ctx, &apigatewayv2.GetApisInput{
			MaxResults: aws.String(strconv.Itoa(pageSize)),
			NextToken:  cursor,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("get apis: %w", err)
		}

		items := make([]Resource, 0, len(out.Items))
		for _, api := range out.Items {
			items = append(items, httpResource(l.region, aws.ToString(api.ApiId)))
		}
		return items, out.NextToken, nil
	})
}
