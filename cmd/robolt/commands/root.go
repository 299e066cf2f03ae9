package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCommand creates the robolt command tree with its global flags bound
// to viper.
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "robolt",
		Short: "robogo CLI",
		Long: `A command-line interface for interacting with robogo servers.

Read, search and change documents, call services, manage stored files and
inspect model schemas and permissions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.robolt/config.yml)")
	flags.StringP("url", "u", "", "base URL of the robogo server")
	flags.String("prefix", "", "path the robogo routes are mounted under")
	flags.StringP("token", "t", "", "authentication token")
	flags.StringP("output", "o", "", "output format (table, json, yaml)")
	flags.Int("retry", 0, "retries for failed requests")
	flags.BoolP("verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("base_url", flags.Lookup("url"))
	_ = viper.BindPFlag("prefix", flags.Lookup("prefix"))
	_ = viper.BindPFlag("token", flags.Lookup("token"))
	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("retry_max", flags.Lookup("retry"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))

	rootCmd.AddCommand(NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(NewLoginCommand())
	rootCmd.AddCommand(NewLogoutCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewModelsCommand())
	rootCmd.AddCommand(NewSchemaCommand())
	rootCmd.AddCommand(NewFieldsCommand())
	rootCmd.AddCommand(NewReadCommand())
	rootCmd.AddCommand(NewGetCommand())
	rootCmd.AddCommand(NewSearchCommand())
	rootCmd.AddCommand(NewCountCommand())
	rootCmd.AddCommand(NewCreateCommand())
	rootCmd.AddCommand(NewUpdateCommand())
	rootCmd.AddCommand(NewDeleteCommand())
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewGetterCommand())
	rootCmd.AddCommand(NewFilesCommand())
	rootCmd.AddCommand(NewAccessesCommand())
	rootCmd.AddCommand(NewAccessGroupsCommand())

	return rootCmd
}
