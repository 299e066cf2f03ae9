package commands

import (
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewAccessesCommand creates the accesses command
func NewAccessesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "accesses MODEL",
		Short: "Show model permissions",
		Long:  "Show what the current user may read and write on a model and its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			accesses, err := client.Accesses(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			descriptor := accesses.Descriptor()

			return renderOutput(cmd, descriptor, func(table *tablewriter.Table) error {
				table.Header("Field", "Read", "Write")
				_ = table.Append("(model)", strconv.FormatBool(accesses.CanReadModel()), strconv.FormatBool(accesses.CanWriteModel()))

				paths := make([]string, 0, len(descriptor.Fields))
				for path := range descriptor.Fields {
					paths = append(paths, path)
				}

				sort.Strings(paths)

				for _, path := range paths {
					_ = table.Append(path,
						strconv.FormatBool(accesses.CanReadField(path)),
						strconv.FormatBool(accesses.CanWriteField(path)))
				}

				return nil
			})
		},
	}
}

// NewAccessGroupsCommand creates the access-groups command
func NewAccessGroupsCommand() *cobra.Command {
	var check []string

	cmd := &cobra.Command{
		Use:   "access-groups",
		Short: "List access groups",
		Long:  "List the access groups known to the server. --check warns about the given groups that are unknown.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			groups, err := client.AccessGroups(cmd.Context())
			if err != nil {
				return err
			}

			if len(check) > 0 {
				unknown := groups.Check(check...)

				return renderOutput(cmd, map[string][]string{"unknown": unknown}, func(table *tablewriter.Table) error {
					table.Header("Group", "Known")

					for _, group := range check {
						_ = table.Append(group, strconv.FormatBool(groups.Has(group)))
					}

					return nil
				})
			}

			return renderOutput(cmd, groups.Groups(), func(table *tablewriter.Table) error {
				table.Header("Group")

				for _, group := range groups.Groups() {
					_ = table.Append(group)
				}

				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&check, "check", nil, "groups to check")

	return cmd
}
