package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	var params string

	cmd := &cobra.Command{
		Use:     "run SERVICE FUNCTION",
		Short:   "Run a service function",
		Long:    "Call a robogo service function through the runner route, sending --params as the request body",
		Example: `  robolt run Mailer send --params '{"to":"ada@example.com"}'`,
		Args:    cobra.ExactArgs(2), //nolint:mnd // service and function
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := parseJSONArg(params)
			if err != nil {
				return fmt.Errorf("--params: %w", err)
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			result, err := client.RunService(cmd.Context(), args[0], args[1], body)
			if err != nil {
				return err
			}

			return renderRaw(cmd, result)
		},
	}

	cmd.Flags().StringVar(&params, "params", "", "parameters as JSON, or @file")

	return cmd
}

// NewGetterCommand creates the getter command
func NewGetterCommand() *cobra.Command {
	var params map[string]string

	cmd := &cobra.Command{
		Use:     "getter SERVICE FUNCTION",
		Short:   "Call a service getter",
		Long:    "Call a robogo service function through the getter route, sending --params in the query string",
		Example: `  robolt getter Stats daily --params day=2024-01-02`,
		Args:    cobra.ExactArgs(2), //nolint:mnd // service and function
		RunE: func(cmd *cobra.Command, args []string) error {
			query := robolt.Params{}
			for key, value := range params {
				query[key] = value
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			result, err := client.GetService(cmd.Context(), args[0], args[1], query)
			if err != nil {
				return err
			}

			return renderRaw(cmd, result)
		},
	}

	cmd.Flags().StringToStringVar(&params, "params", nil, "query parameters as key=value pairs")

	return cmd
}
