package client

import (
	"context"
	"fmt"
	nethttp "net/http"

	"github.com/fivetwenty-io/robolt-go/internal/constants"
	"github.com/fivetwenty-io/robolt-go/internal/http"
	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

// IntrospectionClient implements robolt.IntrospectionClient.
type IntrospectionClient struct {
	*routes
}

// newIntrospectionClient creates a new introspection client.
func newIntrospectionClient(routes *routes) *IntrospectionClient {
	return &IntrospectionClient{routes: routes}
}

// Models implements robolt.IntrospectionClient.Models.
func (c *IntrospectionClient) Models(ctx context.Context) ([]robolt.ModelDescriptor, error) {
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Operation: constants.RouteModel,
		Method:    nethttp.MethodGet,
		Path:      c.path(constants.RouteModel),
	})
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}

	var models []robolt.ModelDescriptor

	err = unmarshalBody(resp.Body, &models)
	if err != nil {
		return nil, fmt.Errorf("parsing models: %w", err)
	}

	return models, nil
}

// Model implements robolt.IntrospectionClient.Model.
func (c *IntrospectionClient) Model(ctx context.Context, name string) (robolt.ModelDescriptor, error) {
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Operation: constants.RouteModel,
		Method:    nethttp.MethodGet,
		Path:      c.path(constants.RouteModel, name),
	})
	if err != nil {
		return nil, fmt.Errorf("getting model %s: %w", name, err)
	}

	var model robolt.ModelDescriptor

	err = unmarshalBody(resp.Body, &model)
	if err != nil {
		return nil, fmt.Errorf("parsing model: %w", err)
	}

	return model, nil
}

// Schema implements robolt.IntrospectionClient.Schema. The returned tree is
// acyclic; see RecycledSchema.
func (c *IntrospectionClient) Schema(ctx context.Context, model string) ([]*robolt.SchemaField, error) {
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Operation: constants.RouteSchema,
		Method:    nethttp.MethodGet,
		Path:      c.path(constants.RouteSchema, model),
	})
	if err != nil {
		return nil, fmt.Errorf("getting %s schema: %w", model, err)
	}

	var fields []*robolt.SchemaField

	err = unmarshalBody(resp.Body, &fields)
	if err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}

	return fields, nil
}

// RecycledSchema implements robolt.IntrospectionClient.RecycledSchema.
func (c *IntrospectionClient) RecycledSchema(ctx context.Context, model string) ([]*robolt.SchemaField, error) {
	fields, err := c.Schema(ctx, model)
	if err != nil {
		return nil, err
	}

	return robolt.RecycleSchema(fields), nil
}

// Fields implements robolt.IntrospectionClient.Fields.
func (c *IntrospectionClient) Fields(ctx context.Context, model string, opts *robolt.FieldsOptions) ([]*robolt.SchemaField, error) {
	if opts == nil {
		opts = &robolt.FieldsOptions{}
	}

	query, err := c.query(robolt.Params{"depth": opts.Depth})
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Operation: constants.RouteFields,
		Method:    nethttp.MethodGet,
		Path:      c.path(constants.RouteFields, model),
		Query:     query,
	})
	if err != nil {
		return nil, fmt.Errorf("getting %s fields: %w", model, err)
	}

	var fields []*robolt.SchemaField

	err = unmarshalBody(resp.Body, &fields)
	if err != nil {
		return nil, fmt.Errorf("parsing fields: %w", err)
	}

	return fields, nil
}
