package robolt

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"time"
)

// Params are the query parameters of one request. Values are structured; a
// ParamEncoder decides how they are written into the query string.
type Params map[string]any

// ParamEncoder turns Params into url.Values.
type ParamEncoder interface {
	Encode(params Params) (url.Values, error)
}

// ParamEncoderFunc adapts a function to ParamEncoder.
type ParamEncoderFunc func(params Params) (url.Values, error)

// Encode implements ParamEncoder.
func (f ParamEncoderFunc) Encode(params Params) (url.Values, error) {
	return f(params)
}

// isoMillis is the layout of JavaScript's Date.prototype.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z"

// BracketParamEncoder is the default ParamEncoder. It writes the query string
// the way axios serializes params for robogo's express parser:
//   - nil values (including nil pointers, maps and slices) are omitted
//   - time.Time values are written as UTC ISO 8601 text with milliseconds
//   - strings, booleans and numbers are written as text
//   - values implementing json.Marshaler are JSON encoded
//   - slices and arrays are written as repeated "key[]" entries, with
//     objects and nested lists JSON encoded and nil elements left empty
//   - anything else (filters, nested objects) is JSON encoded
type BracketParamEncoder struct{}

// Encode implements ParamEncoder.
func (BracketParamEncoder) Encode(params Params) (url.Values, error) {
	values := url.Values{}

	for key, value := range params {
		err := encodeParam(values, key, value)
		if err != nil {
			return nil, fmt.Errorf("encoding query parameter %q: %w", key, err)
		}
	}

	return values, nil
}

func encodeParam(values url.Values, key string, value any) error {
	if isNil(value) {
		return nil
	}

	if text, ok := scalarText(value); ok {
		values.Set(key, text)

		return nil
	}

	// Sort is a slice but marshals to an object, so this precedes the list case.
	if marshaler, ok := value.(json.Marshaler); ok {
		return encodeJSONParam(values, key, marshaler)
	}

	v := reflect.ValueOf(value)

	switch v.Kind() {
	case reflect.Ptr:
		return encodeParam(values, key, v.Elem().Interface())
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			err := encodeListItem(values, key+"[]", v.Index(i).Interface())
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}

		return nil
	default:
		return encodeJSONParam(values, key, value)
	}
}

func encodeListItem(values url.Values, key string, item any) error {
	if isNil(item) {
		values.Add(key, "")

		return nil
	}

	if v := reflect.ValueOf(item); v.Kind() == reflect.Ptr {
		return encodeListItem(values, key, v.Elem().Interface())
	}

	if text, ok := scalarText(item); ok {
		values.Add(key, text)

		return nil
	}

	encoded, err := json.Marshal(item)
	if err != nil {
		return err
	}

	values.Add(key, string(encoded))

	return nil
}

// scalarText formats times, strings, booleans and numbers.
func scalarText(value any) (string, bool) {
	if t, ok := value.(time.Time); ok {
		return t.UTC().Format(isoMillis), true
	}

	v := reflect.ValueOf(value)

	switch v.Kind() {
	case reflect.String:
		return v.String(), true
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), true
	default:
		return "", false
	}
}

func encodeJSONParam(values url.Values, key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}

	values.Set(key, string(encoded))

	return nil
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
