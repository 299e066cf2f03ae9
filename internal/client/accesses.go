package client

import (
	"context"
	"fmt"
	nethttp "net/http"

	"github.com/fivetwenty-io/robolt-go/internal/constants"
	"github.com/fivetwenty-io/robolt-go/internal/http"
	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

// AccessesClient implements robolt.AccessClient.
type AccessesClient struct {
	*routes
	logger robolt.Logger
}

// newAccessesClient creates a new accesses client. logger receives the
// warnings of AccessGroups.Check.
func newAccessesClient(routes *routes, logger robolt.Logger) *AccessesClient {
	return &AccessesClient{
		routes: routes,
		logger: logger,
	}
}

// Accesses implements robolt.AccessClient.Accesses.
func (c *AccessesClient) Accesses(ctx context.Context, model string) (*robolt.Accesses, error) {
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Operation: constants.RouteAccesses,
		Method:    nethttp.MethodGet,
		Path:      c.path(constants.RouteAccesses, model),
	})
	if err != nil {
		return nil, fmt.Errorf("getting %s accesses: %w", model, err)
	}

	var descriptor robolt.AccessDescriptor

	err = unmarshalBody(resp.Body, &descriptor)
	if err != nil {
		return nil, fmt.Errorf("parsing accesses: %w", err)
	}

	return robolt.NewAccesses(descriptor), nil
}

// AccessGroups implements robolt.AccessClient.AccessGroups.
func (c *AccessesClient) AccessGroups(ctx context.Context) (*robolt.AccessGroups, error) {
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Operation: constants.RouteAccessGroups,
		Method:    nethttp.MethodGet,
		Path:      c.path(constants.RouteAccessGroups),
	})
	if err != nil {
		return nil, fmt.Errorf("getting access groups: %w", err)
	}

	var groups []string

	err = unmarshalBody(resp.Body, &groups)
	if err != nil {
		return nil, fmt.Errorf("parsing access groups: %w", err)
	}

	return robolt.NewAccessGroups(groups, c.logger), nil
}
