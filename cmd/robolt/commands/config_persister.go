package commands

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// ErrBaseURLMismatch is returned when a token is issued for a server other
// than the configured one.
var ErrBaseURLMismatch = errors.New("token issued for a different base URL")

// ConfigPersister implements the auth.ConfigPersister interface on the CLI
// config file.
type ConfigPersister struct {
	mutex sync.Mutex
	fs    afero.Fs
	path  string
}

// NewConfigPersister creates a persister writing to the active config file.
func NewConfigPersister() (*ConfigPersister, error) {
	path, err := configFilePath()
	if err != nil {
		return nil, err
	}

	return newConfigPersisterAt(afero.NewOsFs(), path), nil
}

func newConfigPersisterAt(fs afero.Fs, path string) *ConfigPersister {
	return &ConfigPersister{fs: fs, path: path}
}

// UpdateToken stores a newly issued token in the config file.
func (p *ConfigPersister) UpdateToken(baseURL, token string, expiresAt time.Time, refreshToken string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config, err := readConfigFile(p.fs, p.path)
	if err != nil {
		return err
	}

	if normalizeBaseURL(config.BaseURL) != baseURL {
		return fmt.Errorf("%w: %s", ErrBaseURLMismatch, baseURL)
	}

	config.Token = token
	config.TokenExpiresAt = nil

	if !expiresAt.IsZero() {
		config.TokenExpiresAt = &expiresAt
	}

	if refreshToken != "" {
		config.RefreshToken = refreshToken
	}

	return writeConfigFile(p.fs, p.path, config)
}
