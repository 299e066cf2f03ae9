package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/robolt-go/internal/constants"
	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

// NewReadCommand creates the read command
func NewReadCommand() *cobra.Command {
	var (
		filter     string
		sort       string
		projection []string
		skip       int
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "read MODEL",
		Short: "List documents",
		Long: `List documents of a model.

Without --filter the server receives an empty filter. --sort takes a comma
separated list of fields, prefix a field with "-" to sort descending.`,
		Example: `  robolt read User --filter '{"active":true}' --sort -createdAt --limit 20`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filterValue, err := parseJSONArg(filter)
			if err != nil {
				return fmt.Errorf("--filter: %w", err)
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			docs, err := client.Read(cmd.Context(), args[0], &robolt.ReadOptions{
				Filter:     filterValue,
				Projection: projection,
				Sort:       parseSort(sort),
				Skip:       skip,
				Limit:      limit,
			})
			if err != nil {
				return err
			}

			return renderDocuments(cmd, docs)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "MongoDB filter as JSON, or @file")
	cmd.Flags().StringVar(&sort, "sort", "", "sort fields, e.g. name,-createdAt")
	cmd.Flags().StringSliceVar(&projection, "projection", nil, "fields to include")
	cmd.Flags().IntVar(&skip, "skip", 0, "number of documents to skip")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of documents")

	return cmd
}

// NewGetCommand creates the get command
func NewGetCommand() *cobra.Command {
	var projection []string

	cmd := &cobra.Command{
		Use:   "get MODEL ID",
		Short: "Get a document",
		Long:  "Display a single document by its _id",
		Args:  cobra.ExactArgs(2), //nolint:mnd // model and id
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			doc, err := client.Get(cmd.Context(), args[0], args[1], &robolt.GetOptions{Projection: projection})
			if err != nil {
				return err
			}

			return renderProperties(cmd, doc)
		},
	}

	cmd.Flags().StringSliceVar(&projection, "projection", nil, "fields to include")

	return cmd
}

// NewSearchCommand creates the search command
func NewSearchCommand() *cobra.Command {
	var (
		term       string
		filter     string
		projection []string
		keys       []string
		threshold  float64
		depth      int
	)

	cmd := &cobra.Command{
		Use:     "search MODEL",
		Short:   "Fuzzy search documents",
		Long:    "Search documents of a model for a term",
		Example: `  robolt search User --term ada --keys name,email --threshold 0.3`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if term == "" {
				return constants.ErrTermRequired
			}

			filterValue, err := parseJSONArg(filter)
			if err != nil {
				return fmt.Errorf("--filter: %w", err)
			}

			opts := &robolt.SearchOptions{
				Term:       term,
				Filter:     filterValue,
				Projection: projection,
				Keys:       keys,
			}

			if cmd.Flags().Changed("threshold") {
				opts.Threshold = robolt.Float(threshold)
			}

			if cmd.Flags().Changed("depth") {
				opts.Depth = robolt.Int(depth)
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			docs, err := client.Search(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			return renderDocuments(cmd, docs)
		},
	}

	cmd.Flags().StringVar(&term, "term", "", "search term (required)")
	cmd.Flags().StringVar(&filter, "filter", "", "MongoDB filter as JSON, or @file")
	cmd.Flags().StringSliceVar(&projection, "projection", nil, "fields to include")
	cmd.Flags().StringSliceVar(&keys, "keys", nil, "fields to search in")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "fuzzy match threshold")
	cmd.Flags().IntVar(&depth, "depth", 0, "depth of referenced documents to search")

	return cmd
}

// NewCountCommand creates the count command
func NewCountCommand() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "count MODEL",
		Short: "Count documents",
		Long:  "Count the documents of a model matching a filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filterValue, err := parseJSONArg(filter)
			if err != nil {
				return fmt.Errorf("--filter: %w", err)
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			count, err := client.Count(cmd.Context(), args[0], filterValue)
			if err != nil {
				return err
			}

			return renderProperties(cmd, map[string]any{"model": args[0], "count": count})
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "MongoDB filter as JSON, or @file")

	return cmd
}

// NewCreateCommand creates the create command
func NewCreateCommand() *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:     "create MODEL",
		Short:   "Create a document",
		Long:    "Create a document from JSON data",
		Example: `  robolt create User --data '{"name":"Ada"}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := requireData(data)
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			doc, err := client.Create(cmd.Context(), args[0], body)
			if err != nil {
				return err
			}

			return renderProperties(cmd, doc)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "document as JSON, or @file (required)")

	return cmd
}

// NewUpdateCommand creates the update command
func NewUpdateCommand() *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:     "update MODEL",
		Short:   "Update a document",
		Long:    "Update a document from JSON data. The data must carry the document's _id.",
		Example: `  robolt update User --data '{"_id":"64f1...","name":"Ada Lovelace"}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := requireData(data)
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			result, err := client.Update(cmd.Context(), args[0], body)
			if err != nil {
				return err
			}

			return renderProperties(cmd, result)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "document as JSON, or @file (required)")

	return cmd
}

// NewDeleteCommand creates the delete command
func NewDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete MODEL ID",
		Short: "Delete a document",
		Long:  "Delete a single document by its _id",
		Args:  cobra.ExactArgs(2), //nolint:mnd // model and id
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			result, err := client.Delete(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			return renderProperties(cmd, result)
		},
	}
}

func requireData(data string) (any, error) {
	if data == "" {
		return nil, constants.ErrDataRequired
	}

	body, err := parseJSONArg(data)
	if err != nil {
		return nil, fmt.Errorf("--data: %w", err)
	}

	return body, nil
}
