package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/robolt-go/internal/constants"
	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

func isOutputFormat(format string) bool {
	switch format {
	case constants.OutputFormatTable, constants.OutputFormatJSON, constants.OutputFormatYAML:
		return true
	default:
		return false
	}
}

func outputFormat() string {
	format := viper.GetString("output")
	if format == "" {
		return constants.OutputFormatTable
	}

	return format
}

// renderOutput writes data as JSON or YAML, or as the table built by fill.
func renderOutput(cmd *cobra.Command, data any, fill func(table *tablewriter.Table) error) error {
	switch format := outputFormat(); format {
	case constants.OutputFormatJSON:
		return printJSON(cmd, data)
	case constants.OutputFormatYAML:
		return printYAML(cmd, data)
	case constants.OutputFormatTable:
		table := tablewriter.NewWriter(cmd.OutOrStdout())

		err := fill(table)
		if err != nil {
			return err
		}

		err = table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, format)
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

	return encoder.Encode(v)
}

func printYAML(cmd *cobra.Command, v any) error {
	encoder := yaml.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent(constants.JSONIndentSize)

	defer func() { _ = encoder.Close() }()

	return encoder.Encode(v)
}

// renderDocuments prints documents with one column per key, "_id" first.
func renderDocuments(cmd *cobra.Command, docs []robolt.Document) error {
	return renderOutput(cmd, docs, func(table *tablewriter.Table) error {
		columns := documentColumns(docs)
		table.Header(columns)

		for _, doc := range docs {
			row := make([]string, 0, len(columns))
			for _, column := range columns {
				row = append(row, formatCell(doc[column]))
			}

			_ = table.Append(row)
		}

		return nil
	})
}

// renderProperties prints a single object as a key/value table.
func renderProperties(cmd *cobra.Command, data map[string]any) error {
	return renderOutput(cmd, data, func(table *tablewriter.Table) error {
		table.Header("Property", "Value")

		keys := make([]string, 0, len(data))
		for key := range data {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		for _, key := range keys {
			_ = table.Append(key, formatCell(data[key]))
		}

		return nil
	})
}

// renderRaw prints a raw JSON result. Objects are shown as properties.
func renderRaw(cmd *cobra.Command, raw json.RawMessage) error {
	var value any

	if len(raw) > 0 {
		err := json.Unmarshal(raw, &value)
		if err != nil {
			return fmt.Errorf("parsing result: %w", err)
		}
	}

	if object, ok := value.(map[string]any); ok {
		return renderProperties(cmd, object)
	}

	return renderOutput(cmd, value, func(table *tablewriter.Table) error {
		table.Header("Result")
		_ = table.Append(formatCell(value))

		return nil
	})
}

func documentColumns(docs []robolt.Document) []string {
	seen := map[string]bool{}

	var columns []string

	for _, doc := range docs {
		for key := range doc {
			if key == "_id" || seen[key] {
				continue
			}

			seen[key] = true
			columns = append(columns, key)
		}
	}

	sort.Strings(columns)

	return append([]string{"_id"}, columns...)
}

func formatCell(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64, bool, int, int64:
		return fmt.Sprint(typed)
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}

		return string(encoded)
	}
}
