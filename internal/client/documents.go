package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"

	"github.com/fivetwenty-io/robolt-go/internal/constants"
	"github.com/fivetwenty-io/robolt-go/internal/http"
	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

// DocumentsClient implements robolt.DocumentClient.
type DocumentsClient struct {
	*routes
}

// newDocumentsClient creates a new documents client.
func newDocumentsClient(routes *routes) *DocumentsClient {
	return &DocumentsClient{routes: routes}
}

// Create implements robolt.DocumentClient.Create.
func (c *DocumentsClient) Create(ctx context.Context, model string, data any) (robolt.Document, error) {
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Operation: constants.RouteCreate,
		Method:    nethttp.MethodPost,
		Path:      c.path(constants.RouteCreate, model),
		Body:      data,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s document: %w", model, err)
	}

	var document robolt.Document

	err = unmarshalBody(resp.Body, &document)
	if err != nil {
		return nil, fmt.Errorf("parsing created document: %w", err)
	}

	return document, nil
}

// Read implements robolt.DocumentClient.Read. A nil filter sends the
// configured default filter and a nil sort sends {}.
func (c *DocumentsClient) Read(ctx context.Context, model string, opts *robolt.ReadOptions) ([]robolt.Document, error) {
	if opts == nil {
		opts = &robolt.ReadOptions{}
	}

	params := robolt.Params{
		"filter":     opts.Filter,
		"projection": opts.Projection,
		"sort":       opts.Sort,
	}

	if isNilFilter(opts.Filter) {
		params["filter"] = c.defaultFilter
	}

	if opts.Sort == nil {
		params["sort"] = robolt.Sort{}
	}

	if opts.Skip != 0 {
		params["skip"] = opts.Skip
	}

	if opts.Limit != 0 {
		params["limit"] = opts.Limit
	}

	query, err := c.query(params)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Operation: constants.RouteRead,
		Method:    nethttp.MethodGet,
		Path:      c.path(constants.RouteRead, model),
		Query:     query,
	})
	if err != nil {
		return nil, fmt.Errorf("reading %s documents: %w", model, err)
	}

	var documents []robolt.Document

	err = unmarshalBody(resp.Body, &documents)
	if err != nil {
		return nil, fmt.Errorf("parsing documents: %w", err)
	}

	return documents, nil
}

// Get implements robolt.DocumentClient.Get. A missing document decoded from
// a JSON null is returned as a nil Document without error.
func (c *DocumentsClient) Get(ctx context.Context, model, id string, opts *robolt.GetOptions) (robolt.Document, error) {
	if opts == nil {
		opts = &robolt.GetOptions{}
	}

	query, err := c.query(robolt.Params{"projection": opts.Projection})
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Operation: constants.RouteGet,
		Method:    nethttp.MethodGet,
		Path:      c.path(constants.RouteGet, model, id),
		Query:     query,
	})
	if err != nil {
		return nil, fmt.Errorf("getting %s document %s: %w", model, id, err)
	}

	var document robolt.Document

	err = unmarshalBody(resp.Body, &document)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	return document, nil
}

// Search implements robolt.DocumentClient.Search.
func (c *DocumentsClient) Search(ctx context.Context, model string, opts *robolt.SearchOptions) ([]robolt.Document, error) {
	if opts == nil {
		opts = &robolt.SearchOptions{}
	}

	params := robolt.Params{
		"filter":     opts.Filter,
		"projection": opts.Projection,
		"threshold":  opts.Threshold,
		"keys":       opts.Keys,
		"depth":      opts.Depth,
	}

	if opts.Term != "" {
		params["term"] = opts.Term
	}

	query, err := c.query(params)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Operation: constants.RouteSearch,
		Method:    nethttp.MethodGet,
		Path:      c.path(constants.RouteSearch, model),
		Query:     query,
	})
	if err != nil {
		return nil, fmt.Errorf("searching %s documents: %w", model, err)
	}

	var documents []robolt.Document

	err = unmarshalBody(resp.Body, &documents)
	if err != nil {
		return nil, fmt.Errorf("parsing search results: %w", err)
	}

	return documents, nil
}

// Update implements robolt.DocumentClient.Update. data must carry the _id of
// the document to update.
func (c *DocumentsClient) Update(ctx context.Context, model string, data any) (robolt.Result, error) {
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Operation: constants.RouteUpdate,
		Method:    nethttp.MethodPatch,
		Path:      c.path(constants.RouteUpdate, model),
		Body:      data,
	})
	if err != nil {
		return nil, fmt.Errorf("updating %s document: %w", model, err)
	}

	var result robolt.Result

	err = unmarshalBody(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing update result: %w", err)
	}

	return result, nil
}

// Delete implements robolt.DocumentClient.Delete.
func (c *DocumentsClient) Delete(ctx context.Context, model, id string) (robolt.Result, error) {
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Operation: constants.RouteDelete,
		Method:    nethttp.MethodDelete,
		Path:      c.path(constants.RouteDelete, model, id),
	})
	if err != nil {
		return nil, fmt.Errorf("deleting %s document %s: %w", model, id, err)
	}

	var result robolt.Result

	err = unmarshalBody(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing delete result: %w", err)
	}

	return result, nil
}

// Count implements robolt.DocumentClient.Count. The body is a bare number.
func (c *DocumentsClient) Count(ctx context.Context, model string, filter any) (int64, error) {
	query, err := c.query(robolt.Params{"filter": filter})
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Operation: constants.RouteCount,
		Method:    nethttp.MethodGet,
		Path:      c.path(constants.RouteCount, model),
		Query:     query,
	})
	if err != nil {
		return 0, fmt.Errorf("counting %s documents: %w", model, err)
	}

	var count int64

	err = unmarshalBody(resp.Body, &count)
	if err != nil {
		return 0, fmt.Errorf("parsing count: %w", err)
	}

	return count, nil
}

// unmarshalBody decodes a JSON body. An empty body decodes like null.
func unmarshalBody(body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	return json.Unmarshal(body, v)
}
