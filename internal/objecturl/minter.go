// Package objecturl mints local URLs for downloaded file contents.
package objecturl

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/fivetwenty-io/robolt-go/internal/constants"
	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

// Static errors for err113 compliance.
var (
	ErrUnknownURL = errors.New("url was not minted by this minter")
)

// FSMinter writes file contents under a directory and hands out file://
// URLs for them. Revoke removes the backing file.
type FSMinter struct {
	fs    afero.Fs
	dir   string
	mutex sync.Mutex
	paths map[string]string
}

// NewFSMinter creates a minter writing under dir on fs.
func NewFSMinter(fs afero.Fs, dir string) *FSMinter {
	return &FSMinter{
		fs:    fs,
		dir:   dir,
		paths: make(map[string]string),
	}
}

// NewTempMinter creates a minter backed by a robolt directory in the OS temp dir.
func NewTempMinter() *FSMinter {
	return NewFSMinter(afero.NewOsFs(), filepath.Join(os.TempDir(), "robolt"))
}

// Mint stores file and returns its URL.
func (m *FSMinter) Mint(file *robolt.File) (string, error) {
	err := m.fs.MkdirAll(m.dir, constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("creating object directory: %w", err)
	}

	name := uuid.NewString() + extension(file)
	target := filepath.Join(m.dir, name)

	err = afero.WriteFile(m.fs, target, file.Data, constants.ConfigFilePerm)
	if err != nil {
		return "", fmt.Errorf("writing object: %w", err)
	}

	objectURL := (&url.URL{Scheme: "file", Path: filepath.ToSlash(target)}).String()

	m.mutex.Lock()
	m.paths[objectURL] = target
	m.mutex.Unlock()

	return objectURL, nil
}

// Revoke deletes the file behind a minted URL.
func (m *FSMinter) Revoke(objectURL string) error {
	m.mutex.Lock()
	target, ok := m.paths[objectURL]
	delete(m.paths, objectURL)
	m.mutex.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownURL, objectURL)
	}

	err := m.fs.Remove(target)
	if err != nil {
		return fmt.Errorf("removing object: %w", err)
	}

	return nil
}

// Path returns the filesystem path behind a minted URL.
func (m *FSMinter) Path(objectURL string) (string, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	target, ok := m.paths[objectURL]

	return target, ok
}

func extension(file *robolt.File) string {
	ext := path.Ext(file.Name)
	if ext == "" || strings.ContainsAny(ext, `/\`) {
		return ""
	}

	return ext
}
