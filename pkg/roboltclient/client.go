// Package roboltclient provides the main entry point for creating robogo clients
package roboltclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/robolt-go/internal/client"
	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

// New creates a new robogo client. The Config is copied, so later changes to
// it do not affect the returned client.
func New(ctx context.Context, config *robolt.Config) (robolt.Client, error) {
	if config == nil {
		return nil, robolt.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, robolt.ErrBaseURLRequired
	}

	normalized := *config
	normalized.BaseURL = normalizeBaseURL(config.BaseURL)

	client, err := client.New(ctx, &normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return client, nil
}

// normalizeBaseURL trims trailing slashes and defaults the scheme to https.
func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return baseURL
}

// NewWithEndpoint creates a new client for an unauthenticated server.
func NewWithEndpoint(ctx context.Context, baseURL, prefix string) (robolt.Client, error) {
	return New(ctx, &robolt.Config{
		BaseURL: baseURL,
		Prefix:  prefix,
	})
}

// NewWithToken creates a new client sending a static Bearer token.
func NewWithToken(ctx context.Context, baseURL, prefix, token string) (robolt.Client, error) {
	return New(ctx, &robolt.Config{
		BaseURL:     baseURL,
		Prefix:      prefix,
		AccessToken: token,
	})
}

// NewWithClientCredentials creates a new client using OAuth2 client credentials.
func NewWithClientCredentials(ctx context.Context, baseURL, prefix, clientID, clientSecret string) (robolt.Client, error) {
	return New(ctx, &robolt.Config{
		BaseURL:      baseURL,
		Prefix:       prefix,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
}

// NewWithPassword creates a new client using username/password authentication.
func NewWithPassword(ctx context.Context, baseURL, prefix, username, password string) (robolt.Client, error) {
	return New(ctx, &robolt.Config{
		BaseURL:  baseURL,
		Prefix:   prefix,
		Username: username,
		Password: password,
	})
}
