package objecturl_test

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/robolt-go/internal/objecturl"
	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

func TestFSMinter(t *testing.T) {
	t.Parallel()
	t.Run("mint and revoke", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		minter := objecturl.NewFSMinter(fs, "/tmp/robolt")

		objectURL, err := minter.Mint(&robolt.File{Name: "photo.png", MimeType: "image/png", Data: []byte("png")})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(objectURL, "file:///tmp/robolt/"))
		assert.True(t, strings.HasSuffix(objectURL, ".png"))

		target, ok := minter.Path(objectURL)
		require.True(t, ok)

		data, err := afero.ReadFile(fs, target)
		require.NoError(t, err)
		assert.Equal(t, "png", string(data))

		require.NoError(t, minter.Revoke(objectURL))

		exists, err := afero.Exists(fs, target)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("distinct urls per mint", func(t *testing.T) {
		t.Parallel()

		minter := objecturl.NewFSMinter(afero.NewMemMapFs(), "/objects")
		file := &robolt.File{Name: "unknown", Data: []byte("x")}

		first, err := minter.Mint(file)
		require.NoError(t, err)

		second, err := minter.Mint(file)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("revoking twice fails", func(t *testing.T) {
		t.Parallel()

		minter := objecturl.NewFSMinter(afero.NewMemMapFs(), "/objects")

		objectURL, err := minter.Mint(&robolt.File{Name: "a.txt"})
		require.NoError(t, err)
		require.NoError(t, minter.Revoke(objectURL))
		require.ErrorIs(t, minter.Revoke(objectURL), objecturl.ErrUnknownURL)
	})

	t.Run("read only filesystem", func(t *testing.T) {
		t.Parallel()

		minter := objecturl.NewFSMinter(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/objects")

		_, err := minter.Mint(&robolt.File{Name: "a.txt"})
		require.Error(t, err)
	})
}
