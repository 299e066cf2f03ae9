package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/robolt-go/internal/auth"
	"github.com/fivetwenty-io/robolt-go/internal/client"
	"github.com/fivetwenty-io/robolt-go/internal/constants"
	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
	"github.com/fivetwenty-io/robolt-go/pkg/roboltclient"
)

// defaultCLIClientID is the OAuth2 client the CLI uses for password and
// refresh token grants when none is configured.
const defaultCLIClientID = "robolt"

// CreateClient creates a client from the effective CLI configuration.
// Stored tokens are refreshed automatically and written back to the config file.
func CreateClient(ctx context.Context) (robolt.Client, error) {
	config := loadConfig()
	if config.BaseURL == "" {
		return nil, constants.ErrNoBaseURLConfigured
	}

	roboltConfig := buildRoboltConfig(config)

	tokenManager, err := createTokenManager(config)
	if err != nil {
		return nil, err
	}

	if tokenManager == nil {
		return roboltclient.New(ctx, roboltConfig)
	}

	cli, err := client.NewWithTokenManager(roboltConfig, tokenManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create client with token manager: %w", err)
	}

	return cli, nil
}

func buildRoboltConfig(config *Config) *robolt.Config {
	return &robolt.Config{
		BaseURL:    normalizeBaseURL(config.BaseURL),
		Prefix:     config.Prefix,
		StaticPath: config.StaticPath,
		UserAgent:  constants.DefaultUserAgent + "-cli",
		Logger:     newLogger(),
		Debug:      viper.GetBool("verbose"),
		RetryMax:   viper.GetInt("retry_max"),
	}
}

// createTokenManager returns nil when no credentials are configured.
func createTokenManager(config *Config) (auth.TokenManager, error) {
	if config.Token == "" && config.RefreshToken == "" && config.ClientSecret == "" {
		return nil, nil //nolint:nilnil // unauthenticated servers are valid
	}

	persister, err := NewConfigPersister()
	if err != nil {
		return nil, err
	}

	baseURL := normalizeBaseURL(config.BaseURL)
	manager := auth.NewConfigTokenManager(buildOAuth2Config(config), persister, baseURL, config.Token, tokenExpiry(config))

	if viper.GetBool("verbose") {
		manager.OnPersistError(func(err error) {
			fmt.Fprintf(os.Stderr, "Warning: could not save refreshed token: %v\n", err)
		})
	}

	return manager, nil
}

func buildOAuth2Config(config *Config) *auth.OAuth2Config {
	clientID := config.ClientID
	if clientID == "" {
		clientID = defaultCLIClientID
	}

	return &auth.OAuth2Config{
		TokenURL:     tokenURL(config),
		ClientID:     clientID,
		ClientSecret: config.ClientSecret,
		RefreshToken: config.RefreshToken,
		AccessToken:  config.Token,
	}
}

func tokenURL(config *Config) string {
	if config.TokenURL != "" {
		return config.TokenURL
	}

	return normalizeBaseURL(config.BaseURL) + "/oauth/token"
}

func tokenExpiry(config *Config) time.Time {
	if config.TokenExpiresAt != nil {
		return *config.TokenExpiresAt
	}

	return time.Time{}
}

// normalizeBaseURL trims trailing slashes and defaults the scheme to https.
func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return ""
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return baseURL
}

// newLogger logs debug output through zerolog with --verbose, and warnings
// through logrus otherwise.
func newLogger() robolt.Logger {
	if viper.GetBool("verbose") {
		output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}

		return robolt.NewZerologLogger(zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger())
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	return robolt.NewLogrusLogger(logger)
}
