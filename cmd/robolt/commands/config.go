package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/robolt-go/internal/constants"
)

// Config represents the CLI configuration.
type Config struct {
	BaseURL    string `json:"base_url,omitempty"    yaml:"base_url,omitempty"`
	Prefix     string `json:"prefix,omitempty"      yaml:"prefix,omitempty"`
	StaticPath string `json:"static_path,omitempty" yaml:"static_path,omitempty"`
	Output     string `json:"output,omitempty"      yaml:"output,omitempty"`

	TokenURL       string     `json:"token_url,omitempty"        yaml:"token_url,omitempty"`
	ClientID       string     `json:"client_id,omitempty"        yaml:"client_id,omitempty"`
	ClientSecret   string     `json:"client_secret,omitempty"    yaml:"client_secret,omitempty"`
	Username       string     `json:"username,omitempty"         yaml:"username,omitempty"`
	Token          string     `json:"token,omitempty"            yaml:"token,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty" yaml:"token_expires_at,omitempty"`
	RefreshToken   string     `json:"refresh_token,omitempty"    yaml:"refresh_token,omitempty"`
}

// configKeys maps the user-facing keys of "config set" to viper keys.
var configKeys = map[string]string{
	"base-url":      "base_url",
	"prefix":        "prefix",
	"static-path":   "static_path",
	"output":        "output",
	"token-url":     "token_url",
	"client-id":     "client_id",
	"client-secret": "client_secret",
	"username":      "username",
	"token":         "token",
}

// secretKeys are masked by "config view" and "config get".
var secretKeys = map[string]bool{
	"client-secret": true,
	"token":         true,
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "View and change the robolt CLI configuration stored in ~/.robolt/config.yml",
	}

	cmd.AddCommand(newConfigViewCommand())
	cmd.AddCommand(newConfigGetCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show current configuration",
		Long:  "Display the effective configuration, merged from flags, environment and config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := maskSecrets(loadConfig())

			return renderOutput(cmd, config, func(table *tablewriter.Table) error {
				table.Header("Key", "Value")

				for _, key := range sortedConfigKeys() {
					_ = table.Append(key, configValue(config, key))
				}

				return nil
			})
		},
	}
}

func newConfigGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Get a configuration value",
		Long:  "Print a single configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if _, ok := configKeys[key]; !ok {
				return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), configValue(maskSecrets(loadConfig()), key))

			return err
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: " + strings.Join(sortedConfigKeys(), ", "),
		Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return err
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, args[0], "")
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return err
		},
	}
}

func sortedConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for key := range configKeys {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// loadConfig reads the effective configuration from viper.
func loadConfig() *Config {
	config := &Config{
		BaseURL:      viper.GetString("base_url"),
		Prefix:       viper.GetString("prefix"),
		StaticPath:   viper.GetString("static_path"),
		Output:       viper.GetString("output"),
		TokenURL:     viper.GetString("token_url"),
		ClientID:     viper.GetString("client_id"),
		ClientSecret: viper.GetString("client_secret"),
		Username:     viper.GetString("username"),
		Token:        viper.GetString("token"),
		RefreshToken: viper.GetString("refresh_token"),
	}

	if expiresAt := viper.GetTime("token_expires_at"); !expiresAt.IsZero() {
		config.TokenExpiresAt = &expiresAt
	}

	return config
}

func configValue(config *Config, key string) string {
	switch key {
	case "base-url":
		return config.BaseURL
	case "prefix":
		return config.Prefix
	case "static-path":
		return config.StaticPath
	case "output":
		return config.Output
	case "token-url":
		return config.TokenURL
	case "client-id":
		return config.ClientID
	case "client-secret":
		return config.ClientSecret
	case "username":
		return config.Username
	case "token":
		return config.Token
	default:
		return ""
	}
}

func setConfigValue(config *Config, key, value string) error {
	switch key {
	case "base-url":
		config.BaseURL = value
	case "prefix":
		config.Prefix = value
	case "static-path":
		config.StaticPath = value
	case "output":
		if value != "" && !isOutputFormat(value) {
			return fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, value)
		}

		config.Output = value
	case "token-url":
		config.TokenURL = value
	case "client-id":
		config.ClientID = value
	case "client-secret":
		config.ClientSecret = value
	case "username":
		config.Username = value
	case "token":
		config.Token = value
		config.TokenExpiresAt = nil
		config.RefreshToken = ""
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

func maskSecrets(config *Config) *Config {
	masked := *config

	for key := range secretKeys {
		if configValue(&masked, key) != "" {
			_ = setConfigValue(&masked, key, "********")
		}
	}

	masked.RefreshToken = ""
	masked.TokenExpiresAt = config.TokenExpiresAt

	return &masked
}

// configFilePath returns the config file in use, or ~/.robolt/config.yml.
func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".robolt", "config.yml"), nil
}

// saveConfigStruct writes config to the config file.
func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	return writeConfigFile(afero.NewOsFs(), configFile, config)
}

func writeConfigFile(fs afero.Fs, path string, config *Config) error {
	err := fs.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = afero.WriteFile(fs, path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func readConfigFile(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}
