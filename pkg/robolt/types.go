package robolt

import (
	"bytes"
	"encoding/json"
	"time"
)

// Document is a robogo record. Only the "_id" key is known to the SDK.
type Document map[string]any

// ID returns the document's "_id", or "" when it is missing or not a string.
func (d Document) ID() string {
	id, _ := d["_id"].(string)

	return id
}

// Result is the raw result object of a server-side update or delete operation.
type Result map[string]any

// ModelDescriptor is one entry of the model route.
type ModelDescriptor map[string]any

// Name returns the descriptor's "name", or "" when absent.
func (m ModelDescriptor) Name() string {
	name, _ := m["name"].(string)

	return name
}

// RoboFile represents a file stored by robogo.
type RoboFile struct {
	ID            string    `json:"_id"                     yaml:"_id"`
	Name          string    `json:"name"                    yaml:"name"`
	Path          string    `json:"path"                    yaml:"path"`
	Size          int64     `json:"size"                    yaml:"size"`
	MimeType      string    `json:"type,omitempty"          yaml:"type,omitempty"`
	Extension     string    `json:"extension"               yaml:"extension"`
	IsImage       bool      `json:"isImage"                 yaml:"isImage"`
	ThumbnailPath string    `json:"thumbnailPath,omitempty" yaml:"thumbnailPath,omitempty"`
	UploadDate    time.Time `json:"uploadDate"              yaml:"uploadDate"`
}

// File is a downloaded file.
type File struct {
	Name     string
	MimeType string
	Data     []byte
}

// SortField is one key of a sort specification.
type SortField struct {
	Field string
	Order int
}

// Sort is an ordered sort specification. It marshals to a JSON object whose
// keys keep the slice order, which MongoDB relies on.
type Sort []SortField

// MarshalJSON implements json.Marshaler.
func (s Sort) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, field := range s {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(field.Field)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')

		order, err := json.Marshal(field.Order)
		if err != nil {
			return nil, err
		}

		buf.Write(order)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Ascending returns an ascending sort on the given fields.
func Ascending(fields ...string) Sort {
	return sortOf(1, fields)
}

// Descending returns a descending sort on the given fields.
func Descending(fields ...string) Sort {
	return sortOf(-1, fields)
}

func sortOf(order int, fields []string) Sort {
	sort := make(Sort, 0, len(fields))
	for _, field := range fields {
		sort = append(sort, SortField{Field: field, Order: order})
	}

	return sort
}

// ReadOptions holds the parameters of the read route.
type ReadOptions struct {
	// Filter is a MongoDB query. Nil means the configured default filter.
	Filter any
	// Projection lists the fields to include in the results.
	Projection []string
	// Sort is a MongoDB sort. Nil is sent as {}.
	Sort Sort
	// Skip is the number of documents to skip. Zero is not sent.
	Skip int
	// Limit is the maximum number of documents returned. Zero is not sent.
	Limit int
}

// GetOptions holds the parameters of the get route.
type GetOptions struct {
	Projection []string
}

// SearchOptions holds the parameters of the search route.
type SearchOptions struct {
	Filter     any
	Projection []string
	// Threshold is the fuzzy match threshold. Nil is not sent.
	Threshold *float64
	// Keys restricts the searched fields.
	Keys []string
	// Depth limits how deep referenced documents are searched. Nil is not sent.
	Depth *int
	Term  string
}

// FieldsOptions holds the parameters of the fields route.
type FieldsOptions struct {
	// Depth limits the depth of the returned field tree. Nil is not sent.
	Depth *int
}

// Int returns a pointer to v, for optional integer options.
func Int(v int) *int {
	return &v
}

// Float returns a pointer to v, for optional float options.
func Float(v float64) *float64 {
	return &v
}
