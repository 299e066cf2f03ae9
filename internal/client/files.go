package client

import (
	"context"
	"fmt"
	nethttp "net/http"

	"github.com/fivetwenty-io/robolt-go/internal/constants"
	"github.com/fivetwenty-io/robolt-go/internal/http"
	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

// FilesClient implements robolt.FileClient.
type FilesClient struct {
	*routes
	multipart robolt.MultipartEncoder
	minter    robolt.ObjectURLMinter
}

// newFilesClient creates a new files client.
func newFilesClient(routes *routes, multipart robolt.MultipartEncoder, minter robolt.ObjectURLMinter) *FilesClient {
	return &FilesClient{
		routes:    routes,
		multipart: multipart,
		minter:    minter,
	}
}

// UploadFile implements robolt.FileClient.UploadFile.
func (c *FilesClient) UploadFile(ctx context.Context, upload *robolt.Upload, progress robolt.ProgressFunc) (*robolt.RoboFile, error) {
	body, contentType, err := c.multipart.Encode(constants.UploadFieldName, upload)
	if err != nil {
		return nil, fmt.Errorf("encoding upload: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Operation:      constants.RouteFileUpload,
		Method:         nethttp.MethodPost,
		Path:           c.path(constants.RouteFileUpload),
		RawBody:        body,
		ContentType:    contentType,
		UploadProgress: progress,
	})
	if err != nil {
		return nil, fmt.Errorf("uploading file: %w", err)
	}

	return parseRoboFile(resp.Body)
}

// CloneFile implements robolt.FileClient.CloneFile.
func (c *FilesClient) CloneFile(ctx context.Context, ref robolt.FileRef) (*robolt.RoboFile, error) {
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Operation: constants.RouteFileClone,
		Method:    nethttp.MethodPost,
		Path:      c.path(constants.RouteFileClone, ref.ID()),
	})
	if err != nil {
		return nil, fmt.Errorf("cloning file %s: %w", ref.ID(), err)
	}

	return parseRoboFile(resp.Body)
}

// DeleteFile implements robolt.FileClient.DeleteFile.
func (c *FilesClient) DeleteFile(ctx context.Context, ref robolt.FileRef) (robolt.Result, error) {
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Operation: constants.RouteFileDelete,
		Method:    nethttp.MethodDelete,
		Path:      c.path(constants.RouteFileDelete, ref.ID()),
	})
	if err != nil {
		return nil, fmt.Errorf("deleting file %s: %w", ref.ID(), err)
	}

	var result robolt.Result

	err = unmarshalBody(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing delete result: %w", err)
	}

	return result, nil
}

// GetFile implements robolt.FileClient.GetFile.
func (c *FilesClient) GetFile(ctx context.Context, ref robolt.FileRef, progress robolt.ProgressFunc) (*robolt.File, error) {
	return c.download(ctx, ref, ref.Path(), progress)
}

// GetThumbnail implements robolt.FileClient.GetThumbnail.
func (c *FilesClient) GetThumbnail(ctx context.Context, ref robolt.FileRef, progress robolt.ProgressFunc) (*robolt.File, error) {
	return c.download(ctx, ref, ref.ThumbnailPath(), progress)
}

// GetFileURL implements robolt.FileClient.GetFileURL.
func (c *FilesClient) GetFileURL(ctx context.Context, ref robolt.FileRef, progress robolt.ProgressFunc) (string, error) {
	file, err := c.GetFile(ctx, ref, progress)
	if err != nil {
		return "", err
	}

	return c.mint(file)
}

// GetThumbnailURL implements robolt.FileClient.GetThumbnailURL.
func (c *FilesClient) GetThumbnailURL(ctx context.Context, ref robolt.FileRef, progress robolt.ProgressFunc) (string, error) {
	file, err := c.GetThumbnail(ctx, ref, progress)
	if err != nil {
		return "", err
	}

	return c.mint(file)
}

// RevokeFileURL implements robolt.FileClient.RevokeFileURL.
func (c *FilesClient) RevokeFileURL(url string) error {
	err := c.minter.Revoke(url)
	if err != nil {
		return fmt.Errorf("revoking file url: %w", err)
	}

	return nil
}

// GetFileURLs implements robolt.FileClient.GetFileURLs. No request is made.
func (c *FilesClient) GetFileURLs(file *robolt.RoboFile) robolt.FileURLs {
	baseURL := c.httpClient.BaseURL()

	urls := robolt.FileURLs{
		RelativePath: c.static(file.Path),
	}
	urls.AbsolutePath = baseURL + urls.RelativePath

	if file.ThumbnailPath != "" {
		urls.RelativeThumbnailPath = c.static(file.ThumbnailPath)
		urls.AbsoluteThumbnailPath = baseURL + urls.RelativeThumbnailPath
	}

	return urls
}

func (c *FilesClient) download(ctx context.Context, ref robolt.FileRef, key string, progress robolt.ProgressFunc) (*robolt.File, error) {
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Operation:        c.staticPath,
		Method:           nethttp.MethodGet,
		Path:             c.static(key),
		Binary:           true,
		DownloadProgress: progress,
	})
	if err != nil {
		return nil, fmt.Errorf("downloading file %s: %w", key, err)
	}

	mimeType := resp.Headers.Get("Content-Type")
	if mimeType == "" {
		mimeType = ref.MimeType()
	}

	return &robolt.File{
		Name:     ref.Name(),
		MimeType: mimeType,
		Data:     resp.Body,
	}, nil
}

func (c *FilesClient) mint(file *robolt.File) (string, error) {
	url, err := c.minter.Mint(file)
	if err != nil {
		return "", fmt.Errorf("minting file url: %w", err)
	}

	return url, nil
}

func parseRoboFile(body []byte) (*robolt.RoboFile, error) {
	var file *robolt.RoboFile

	err := unmarshalBody(body, &file)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	return file, nil
}
