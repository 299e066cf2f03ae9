package auth

import (
	"context"

	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

// StaticTokenManager always returns the same token.
type StaticTokenManager struct {
	token string
}

// NewStaticTokenManager creates a manager for a pre-issued token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

// GetToken returns the static token.
func (m *StaticTokenManager) GetToken(context.Context) (string, error) {
	return m.token, nil
}

// RefreshToken always fails.
func (m *StaticTokenManager) RefreshToken(context.Context) error {
	return robolt.ErrStaticTokenCannotRefresh
}
