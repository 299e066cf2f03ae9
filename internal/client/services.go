package client

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"

	"github.com/fivetwenty-io/robolt-go/internal/constants"
	"github.com/fivetwenty-io/robolt-go/internal/http"
	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

// ServicesClient implements robolt.ServiceClient.
type ServicesClient struct {
	*routes
}

// newServicesClient creates a new services client.
func newServicesClient(routes *routes) *ServicesClient {
	return &ServicesClient{routes: routes}
}

// RunService implements robolt.ServiceClient.RunService.
func (c *ServicesClient) RunService(ctx context.Context, service, function string, params any) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Operation: constants.RouteRunner,
		Method:    nethttp.MethodPost,
		Path:      c.path(constants.RouteRunner, service, function),
		Body:      params,
	})
	if err != nil {
		return nil, fmt.Errorf("running service %s.%s: %w", service, function, err)
	}

	return rawResult(resp.Body), nil
}

// GetService implements robolt.ServiceClient.GetService.
func (c *ServicesClient) GetService(ctx context.Context, service, function string, params robolt.Params) (json.RawMessage, error) {
	query, err := c.query(params)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Operation: constants.RouteGetter,
		Method:    nethttp.MethodGet,
		Path:      c.path(constants.RouteGetter, service, function),
		Query:     query,
	})
	if err != nil {
		return nil, fmt.Errorf("getting service %s.%s: %w", service, function, err)
	}

	return rawResult(resp.Body), nil
}

// rawResult returns body as JSON, or nil for an empty body.
func rawResult(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}

	return json.RawMessage(body)
}
