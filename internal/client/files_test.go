package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/fivetwenty-io/robolt-go/internal/client"
	"github.com/fivetwenty-io/robolt-go/internal/objecturl"
	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

func TestFilesClient_GetFileURLs(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, &robolt.Config{BaseURL: "https://x", Prefix: "api"})

	tests := []struct {
		name     string
		file     *robolt.RoboFile
		expected robolt.FileURLs
	}{
		{
			name: "without thumbnail",
			file: &robolt.RoboFile{Path: "a/b.png"},
			expected: robolt.FileURLs{
				AbsolutePath: "https://x/api/static/a/b.png",
				RelativePath: "/api/static/a/b.png",
			},
		},
		{
			name: "with thumbnail",
			file: &robolt.RoboFile{Path: "a/b.png", ThumbnailPath: "a/b_thumb.png"},
			expected: robolt.FileURLs{
				AbsolutePath:          "https://x/api/static/a/b.png",
				RelativePath:          "/api/static/a/b.png",
				AbsoluteThumbnailPath: "https://x/api/static/a/b_thumb.png",
				RelativeThumbnailPath: "/api/static/a/b_thumb.png",
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, client.GetFileURLs(testCase.file))
		})
	}

	t.Run("thumbnail keys omitted from JSON", func(t *testing.T) {
		t.Parallel()

		encoded, err := json.Marshal(client.GetFileURLs(&robolt.RoboFile{Path: "a/b.png"}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"absolutePath":"https://x/api/static/a/b.png","relativePath":"/api/static/a/b.png"}`, string(encoded))
	})

	t.Run("custom static path", func(t *testing.T) {
		t.Parallel()

		custom := newTestClient(t, &robolt.Config{BaseURL: "https://x", Prefix: "api", StaticPath: "/files/"})
		urls := custom.GetFileURLs(&robolt.RoboFile{Path: "a.txt"})
		assert.Equal(t, "/api/files/a.txt", urls.RelativePath)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestFilesClient_FileRefEquivalence(t *testing.T) {
	t.Parallel()

	file := &robolt.RoboFile{
		ID:            "f1",
		Name:          "b.png",
		Path:          "a/b.png",
		ThumbnailPath: "a/b_thumb.png",
	}

	tests := []struct {
		name   string
		object robolt.FileRef
		bare   robolt.FileRef
		call   func(context.Context, *Client, robolt.FileRef) error
	}{
		{
			name:   "clone",
			object: robolt.FileRefOf(file),
			bare:   robolt.FileKey("f1"),
			call: func(ctx context.Context, c *Client, ref robolt.FileRef) error {
				_, err := c.CloneFile(ctx, ref)

				return err
			},
		},
		{
			name:   "delete",
			object: robolt.FileRefOf(file),
			bare:   robolt.FileKey("f1"),
			call: func(ctx context.Context, c *Client, ref robolt.FileRef) error {
				_, err := c.DeleteFile(ctx, ref)

				return err
			},
		},
		{
			name:   "get file",
			object: robolt.FileRefOf(file),
			bare:   robolt.FileKey("a/b.png"),
			call: func(ctx context.Context, c *Client, ref robolt.FileRef) error {
				_, err := c.GetFile(ctx, ref, nil)

				return err
			},
		},
		{
			name:   "get thumbnail",
			object: robolt.FileRefOf(file),
			bare:   robolt.FileKey("a/b_thumb.png"),
			call: func(ctx context.Context, c *Client, ref robolt.FileRef) error {
				_, err := c.GetThumbnail(ctx, ref, nil)

				return err
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			rec, server := newRecorder(t, "null")
			client := newTestClient(t, &robolt.Config{BaseURL: server.URL, Prefix: "api"})

			require.NoError(t, testCase.call(context.Background(), client, testCase.object))
			fromObject := rec.Last()

			require.NoError(t, testCase.call(context.Background(), client, testCase.bare))
			fromBare := rec.Last()

			assert.Equal(t, fromObject.Method, fromBare.Method)
			assert.Equal(t, fromObject.Path, fromBare.Path)
			assert.Equal(t, fromObject.Query, fromBare.Query)
			assert.Equal(t, fromObject.Body, fromBare.Body)
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestFilesClient_UploadFile(t *testing.T) {
	t.Parallel()
	t.Run("sends multipart file field", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/fileupload", request.URL.Path)
			assert.True(t, strings.HasPrefix(request.Header.Get("Content-Type"), "multipart/form-data"))

			file, header, err := request.FormFile("file")
			if !assert.NoError(t, err) {
				return
			}

			defer func() { _ = file.Close() }()

			content, _ := io.ReadAll(file)
			assert.Equal(t, "hello", string(content))
			assert.Equal(t, "hello.txt", header.Filename)
			assert.Equal(t, "text/plain", header.Header.Get("Content-Type"))

			writer.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(writer).Encode(map[string]any{
				"_id":        "f1",
				"name":       "hello.txt",
				"path":       "2024/hello.txt",
				"size":       5,
				"type":       "text/plain",
				"extension":  "txt",
				"isImage":    false,
				"uploadDate": "2024-05-01T10:00:00.000Z",
			})
		}))
		defer server.Close()

		client := newTestClient(t, &robolt.Config{BaseURL: server.URL, Prefix: "api"})

		var (
			mutex    sync.Mutex
			percents []int
		)

		file, err := client.UploadFile(context.Background(), &robolt.Upload{
			Name:     "hello.txt",
			MimeType: "text/plain",
			Content:  strings.NewReader("hello"),
		}, func(percent int, _ robolt.ProgressEvent) {
			mutex.Lock()
			defer mutex.Unlock()

			percents = append(percents, percent)
		})
		require.NoError(t, err)
		require.NotNil(t, file)
		assert.Equal(t, "f1", file.ID)
		assert.Equal(t, int64(5), file.Size)
		assert.Equal(t, "text/plain", file.MimeType)
		assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), file.UploadDate.UTC())

		mutex.Lock()
		defer mutex.Unlock()

		require.NotEmpty(t, percents)
		assert.Equal(t, 100, percents[len(percents)-1])
	})

	t.Run("custom encoder", func(t *testing.T) {
		t.Parallel()

		rec, server := newRecorder(t, "null")
		client := newTestClient(t, &robolt.Config{
			BaseURL:          server.URL,
			Prefix:           "api",
			MultipartEncoder: fixedEncoder{},
		})

		_, err := client.UploadFile(context.Background(), &robolt.Upload{Name: "x"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "file=x", string(rec.Last().Body))
		assert.Equal(t, "text/plain", rec.Last().ContentType)
	})
}

type fixedEncoder struct{}

func (fixedEncoder) Encode(field string, upload *robolt.Upload) ([]byte, string, error) {
	return []byte(field + "=" + upload.Name), "text/plain", nil
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestFilesClient_Download(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/api/static/a/b.png":
			writer.Header().Set("Content-Type", "image/png")
			_, _ = io.WriteString(writer, "full-image")
		case "/api/static/a/b_thumb.png":
			writer.Header().Set("Content-Type", "image/png")
			_, _ = io.WriteString(writer, "thumb")
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	fs := afero.NewMemMapFs()
	minter := objecturl.NewFSMinter(fs, "/objects")
	client := newTestClient(t, &robolt.Config{BaseURL: server.URL, Prefix: "api", URLMinter: minter})

	roboFile := &robolt.RoboFile{ID: "f1", Name: "b.png", Path: "a/b.png", ThumbnailPath: "a/b_thumb.png"}

	t.Run("file from object", func(t *testing.T) {
		t.Parallel()

		var last int

		file, err := client.GetFile(context.Background(), robolt.FileRefOf(roboFile), func(percent int, _ robolt.ProgressEvent) {
			last = percent
		})
		require.NoError(t, err)
		assert.Equal(t, "b.png", file.Name)
		assert.Equal(t, "image/png", file.MimeType)
		assert.Equal(t, "full-image", string(file.Data))
		assert.Equal(t, 100, last)
	})

	t.Run("file from bare key is unnamed", func(t *testing.T) {
		t.Parallel()

		file, err := client.GetFile(context.Background(), robolt.FileKey("a/b.png"), nil)
		require.NoError(t, err)
		assert.Equal(t, "unknown", file.Name)
		assert.Equal(t, "full-image", string(file.Data))
	})

	t.Run("thumbnail", func(t *testing.T) {
		t.Parallel()

		file, err := client.GetThumbnail(context.Background(), robolt.FileRefOf(roboFile), nil)
		require.NoError(t, err)
		assert.Equal(t, "thumb", string(file.Data))
	})

	t.Run("file url is minted and revocable", func(t *testing.T) {
		t.Parallel()

		objectURL, err := client.GetFileURL(context.Background(), robolt.FileRefOf(roboFile), nil)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(objectURL, "file:///objects/"))

		target, ok := minter.Path(objectURL)
		require.True(t, ok)

		data, err := afero.ReadFile(fs, target)
		require.NoError(t, err)
		assert.Equal(t, "full-image", string(data))

		require.NoError(t, client.RevokeFileURL(objectURL))
		require.Error(t, client.RevokeFileURL(objectURL))
	})

	t.Run("thumbnail url", func(t *testing.T) {
		t.Parallel()

		objectURL, err := client.GetThumbnailURL(context.Background(), robolt.FileRefOf(roboFile), nil)
		require.NoError(t, err)

		target, ok := minter.Path(objectURL)
		require.True(t, ok)

		data, err := afero.ReadFile(fs, target)
		require.NoError(t, err)
		assert.Equal(t, "thumb", string(data))
	})

	t.Run("missing file is not minted", func(t *testing.T) {
		t.Parallel()

		_, err := client.GetFileURL(context.Background(), robolt.FileKey("nope.png"), nil)
		require.Error(t, err)
		assert.True(t, robolt.IsNotFound(err))
	})
}
