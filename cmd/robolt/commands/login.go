package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fivetwenty-io/robolt-go/internal/auth"
	"github.com/fivetwenty-io/robolt-go/internal/constants"
)

type loginOptions struct {
	username     string
	password     string
	clientID     string
	clientSecret string
	tokenURL     string
}

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	opts := &loginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to a robogo server",
		Long: `Authenticate with a robogo server and store the issued token in the config file.

Uses the OAuth2 client credentials grant when --client-id and --client-secret
are given, and the password grant otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.username, "username", "", "username for the password grant")
	cmd.Flags().StringVar(&opts.password, "password", "", "password for the password grant (prompted when omitted)")
	cmd.Flags().StringVar(&opts.clientID, "client-id", "", "OAuth2 client ID")
	cmd.Flags().StringVar(&opts.clientSecret, "client-secret", "", "OAuth2 client secret")
	cmd.Flags().StringVar(&opts.tokenURL, "token-url", "", "OAuth2 token endpoint (default {base-url}/oauth/token)")

	return cmd
}

func runLogin(cmd *cobra.Command, opts *loginOptions) error {
	reader := bufio.NewReader(cmd.InOrStdin())
	config := loadConfig()

	if config.BaseURL == "" {
		config.BaseURL = prompt(cmd, reader, "Base URL: ")
	}

	if config.BaseURL == "" {
		return constants.ErrNoBaseURLConfigured
	}

	config.Token = ""
	config.RefreshToken = ""
	config.TokenExpiresAt = nil

	if opts.tokenURL != "" {
		config.TokenURL = opts.tokenURL
	}

	if opts.clientID != "" {
		config.ClientID = opts.clientID
	}

	oauthConfig := buildOAuth2Config(config)

	if opts.clientSecret != "" {
		config.ClientSecret = opts.clientSecret
		oauthConfig.ClientSecret = opts.clientSecret
	} else {
		username, password, err := passwordCredentials(cmd, reader, opts, config)
		if err != nil {
			return err
		}

		config.Username = username
		oauthConfig.Username = username
		oauthConfig.Password = password
	}

	err := saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	persister, err := NewConfigPersister()
	if err != nil {
		return err
	}

	var persistErr error

	manager := auth.NewConfigTokenManager(oauthConfig, persister, normalizeBaseURL(config.BaseURL), "", time.Time{})
	manager.OnPersistError(func(err error) { persistErr = err })

	_, err = manager.GetToken(cmd.Context())
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if persistErr != nil {
		return fmt.Errorf("failed to save token: %w", persistErr)
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s\n", normalizeBaseURL(config.BaseURL))

	return err
}

func passwordCredentials(cmd *cobra.Command, reader *bufio.Reader, opts *loginOptions, config *Config) (string, string, error) {
	username := opts.username
	if username == "" {
		username = config.Username
	}

	if username == "" {
		username = prompt(cmd, reader, "Username: ")
	}

	password := opts.password
	if password == "" {
		var err error

		password, err = readPassword(cmd)
		if err != nil {
			return "", "", err
		}
	}

	return username, password, nil
}

func prompt(cmd *cobra.Command, reader *bufio.Reader, label string) string {
	_, _ = fmt.Fprint(cmd.OutOrStdout(), label)

	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return ""
	}

	return strings.TrimSpace(line)
}

func readPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int
	if !term.IsTerminal(fd) {
		return "", constants.ErrNoPasswordTerminal
	}

	_, _ = fmt.Fprint(cmd.OutOrStdout(), "Password: ")

	bytePassword, err := term.ReadPassword(fd)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	return string(bytePassword), nil
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout from the robogo server",
		Long:  "Remove the stored token from the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.Token = ""
			config.RefreshToken = ""
			config.TokenExpiresAt = nil

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			viper.Set("token", "")
			viper.Set("refresh_token", "")

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")

			return err
		},
	}
}
