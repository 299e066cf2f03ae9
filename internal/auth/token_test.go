package auth_test

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/robolt-go/internal/auth"
)

func TestToken_Valid(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name  string
		token *auth.Token
		valid bool
	}{
		{name: "nil", token: nil, valid: false},
		{name: "no access token", token: &auth.Token{RefreshToken: "r"}, valid: false},
		{name: "no expiry", token: &auth.Token{AccessToken: "a"}, valid: true},
		{name: "expires in an hour", token: &auth.Token{AccessToken: "a", ExpiresAt: now.Add(time.Hour)}, valid: true},
		{name: "expired", token: &auth.Token{AccessToken: "a", ExpiresAt: now.Add(-time.Minute)}, valid: false},
		{name: "inside the expiry buffer", token: &auth.Token{AccessToken: "a", ExpiresAt: now.Add(10 * time.Second)}, valid: false},
		{name: "just past the expiry buffer", token: &auth.Token{AccessToken: "a", ExpiresAt: now.Add(45 * time.Second)}, valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.valid, tt.token.Valid())
		})
	}
}

func TestToken_JSON(t *testing.T) {
	t.Parallel()

	var token auth.Token

	err := json.Unmarshal([]byte(`{
		"access_token": "eyJhbGciOi",
		"refresh_token": "r-1",
		"token_type": "bearer",
		"expires_in": 3600
	}`), &token)
	require.NoError(t, err)

	assert.Equal(t, "eyJhbGciOi", token.AccessToken)
	assert.Equal(t, "r-1", token.RefreshToken)
	assert.Equal(t, 3600, token.ExpiresIn)
	assert.True(t, token.ExpiresAt.IsZero())

	encoded, err := json.Marshal(auth.Token{AccessToken: "a", TokenType: "bearer", ExpiresAt: time.Now()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"access_token":"a","token_type":"bearer"}`, string(encoded))
}

func TestTokenStore(t *testing.T) {
	t.Parallel()

	store := auth.NewTokenStore()
	assert.Nil(t, store.Get())

	first := &auth.Token{AccessToken: "first"}
	store.Set(first)
	assert.Same(t, first, store.Get())

	second := &auth.Token{AccessToken: "second"}
	store.Set(second)
	assert.Same(t, second, store.Get())

	store.Clear()
	assert.Nil(t, store.Get())
}

func TestTokenStore_Concurrent(t *testing.T) {
	t.Parallel()

	store := auth.NewTokenStore()
	tokens := []string{"token-a", "token-b", "token-c"}

	var wg sync.WaitGroup

	for _, access := range tokens {
		wg.Add(2)

		go func() {
			defer wg.Done()

			for range 100 {
				store.Set(&auth.Token{AccessToken: access})
			}
		}()

		go func() {
			defer wg.Done()

			for range 100 {
				_ = store.Get().Valid()
			}
		}()
	}

	wg.Wait()

	require.NotNil(t, store.Get())
	assert.Contains(t, tokens, store.Get().AccessToken)
}
