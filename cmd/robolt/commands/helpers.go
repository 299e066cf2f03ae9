package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

// appFs is the file system used for --data files, uploads and downloads.
var appFs = afero.NewOsFs()

// parseJSONArg decodes a JSON flag value. A value starting with "@" names a
// file holding the JSON. An empty value decodes to nil.
func parseJSONArg(value string) (any, error) {
	if value == "" {
		return nil, nil //nolint:nilnil // absent flag
	}

	data := []byte(value)

	if path, ok := strings.CutPrefix(value, "@"); ok {
		var err error

		data, err = afero.ReadFile(appFs, path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	var decoded any

	err := json.Unmarshal(data, &decoded)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	return decoded, nil
}

// parseSort turns "name,-createdAt" into an ascending name, descending
// createdAt sort.
func parseSort(value string) robolt.Sort {
	if value == "" {
		return nil
	}

	var sort robolt.Sort

	for _, field := range strings.Split(value, ",") {
		field = strings.TrimSpace(field)

		switch {
		case field == "":
			continue
		case strings.HasPrefix(field, "-"):
			sort = append(sort, robolt.SortField{Field: field[1:], Order: -1})
		default:
			sort = append(sort, robolt.SortField{Field: strings.TrimPrefix(field, "+"), Order: 1})
		}
	}

	return sort
}
