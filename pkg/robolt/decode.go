package robolt

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// DecodeDocument decodes doc into a T, matching keys against json struct tags.
// Timestamps sent as RFC 3339 strings decode into time.Time fields.
func DecodeDocument[T any](doc Document) (T, error) {
	var out T

	decoder, err := newDocumentDecoder(&out)
	if err != nil {
		return out, err
	}

	err = decoder.Decode(map[string]any(doc))
	if err != nil {
		return out, fmt.Errorf("decoding document: %w", err)
	}

	return out, nil
}

// DecodeDocuments decodes every document of docs into a T.
func DecodeDocuments[T any](docs []Document) ([]T, error) {
	out := make([]T, 0, len(docs))

	for i, doc := range docs {
		decoded, err := DecodeDocument[T](doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}

		out = append(out, decoded)
	}

	return out, nil
}

func newDocumentDecoder(result any) (*mapstructure.Decoder, error) {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  result,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
			float64ToIntHook,
		),
	})
	if err != nil {
		return nil, fmt.Errorf("creating document decoder: %w", err)
	}

	return decoder, nil
}

// float64ToIntHook rejects JSON numbers with a fraction for integer fields
// instead of truncating them.
func float64ToIntHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Float64 {
		return data, nil
	}

	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		number, _ := data.(float64)
		if number != float64(int64(number)) {
			return nil, fmt.Errorf("%w: %v", ErrFractionalInteger, number)
		}
	default:
	}

	return data, nil
}
