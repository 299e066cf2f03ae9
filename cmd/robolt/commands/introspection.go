package commands

import (
	"errors"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/robolt-go/internal/constants"
	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

// ErrRecycledSchemaNotEncodable is returned when a recycled schema is asked
// for as JSON or YAML.
var ErrRecycledSchemaNotEncodable = errors.New("recycled schemas are cyclic, use table output")

// NewModelsCommand creates the models command
func NewModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "models [NAME]",
		Aliases: []string{"model"},
		Short:   "List models",
		Long:    "List the models registered on the server, or describe one model",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			if len(args) == 1 {
				model, err := client.Model(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				return renderProperties(cmd, model)
			}

			models, err := client.Models(cmd.Context())
			if err != nil {
				return err
			}

			return renderOutput(cmd, models, func(table *tablewriter.Table) error {
				table.Header("Name", "Display Name")

				for _, model := range models {
					_ = table.Append(model.Name(), formatCell(model["displayName"]))
				}

				return nil
			})
		},
	}
}

// NewSchemaCommand creates the schema command
func NewSchemaCommand() *cobra.Command {
	var recycled bool

	cmd := &cobra.Command{
		Use:   "schema MODEL",
		Short: "Show a model schema",
		Long: `Show the schema of a model as a field tree.

With --recycled, references sent only once by the server are expanded again,
so every referencing field lists its subfields.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if recycled && outputFormat() != constants.OutputFormatTable {
				return ErrRecycledSchemaNotEncodable
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			fetch := client.Schema
			if recycled {
				fetch = client.RecycledSchema
			}

			fields, err := fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return renderSchema(cmd, fields)
		},
	}

	cmd.Flags().BoolVar(&recycled, "recycled", false, "expand repeated references")

	return cmd
}

// NewFieldsCommand creates the fields command
func NewFieldsCommand() *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "fields MODEL",
		Short: "Show the fields of a model",
		Long:  "Show the fields of a model the current user may access",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &robolt.FieldsOptions{}
			if cmd.Flags().Changed("depth") {
				opts.Depth = robolt.Int(depth)
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			fields, err := client.Fields(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			return renderSchema(cmd, fields)
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 0, "maximum depth of the field tree")

	return cmd
}

func renderSchema(cmd *cobra.Command, fields []*robolt.SchemaField) error {
	return renderOutput(cmd, fields, func(table *tablewriter.Table) error {
		table.Header("Path", "Name", "Type", "Ref", "Required")

		robolt.WalkSchema(fields, func(path []string, field *robolt.SchemaField) bool {
			fieldType := field.Type
			if field.IsArray {
				fieldType = "[" + fieldType + "]"
			}

			required := ""
			if field.Required {
				required = "yes"
			}

			_ = table.Append(strings.Join(path, "."), field.Name, fieldType, field.Ref, required)

			return true
		})

		return nil
	})
}
