// Package gateway enumerates API Gateway resources across both API families.
package gateway

import "fmt"

// Resource type identifiers as AWS Config knows them.
const (
	TypeRestAPI = "AWS::ApiGateway::RestApi"
	TypeHTTPAPI = "AWS::ApiGatewayV2::Api"
)

// Resource is one deployed API endpoint definition. Immutable once built.
type Resource struct {
	ID   string
	Type string
	ARN  string
}

// restResource builds the record for an API Gateway v1 REST API.
func restResource(region, id string) Resource {
	return Resource{
		ID:   id,
		Type: TypeRestAPI,
		ARN:  fmt.Sprintf("arn:aws:apigateway:%s::/restapis/%s", region, id),
	}
}

// httpResource builds the record for an API Gateway v2 HTTP or WebSocket API.
func httpResource(region, id string) Resource {
	return Resource{
		ID:   id,
		Type: TypeHTTPAPI,
		ARN:  fmt.Sprintf("arn:aws:apigateway:%s::/apis/%s", region, id),
	}
}
