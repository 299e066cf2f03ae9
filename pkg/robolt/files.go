package robolt

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/fivetwenty-io/robolt-go/internal/constants"
)

// FileRef addresses a stored file either by its RoboFile or by a bare
// identifier. A bare identifier stands for the _id in CloneFile and DeleteFile
// and for the storage key in GetFile and GetThumbnail.
type FileRef struct {
	file *RoboFile
	key  string
}

// FileRefOf refers to file.
func FileRefOf(file *RoboFile) FileRef {
	return FileRef{file: file}
}

// FileKey refers to a file by a bare identifier.
func FileKey(key string) FileRef {
	return FileRef{key: key}
}

// File returns the referenced RoboFile, or nil for a bare identifier.
func (r FileRef) File() *RoboFile {
	return r.file
}

// ID returns the identifier used by the fileclone and filedelete routes.
func (r FileRef) ID() string {
	if r.file != nil {
		return r.file.ID
	}

	return r.key
}

// Path returns the storage key of the file itself.
func (r FileRef) Path() string {
	if r.file != nil {
		return r.file.Path
	}

	return r.key
}

// ThumbnailPath returns the storage key of the file's thumbnail.
func (r FileRef) ThumbnailPath() string {
	if r.file != nil {
		return r.file.ThumbnailPath
	}

	return r.key
}

// Name returns the file name, or "unknown" for a bare identifier.
func (r FileRef) Name() string {
	if r.file != nil {
		return r.file.Name
	}

	return constants.UnknownFileName
}

// MimeType returns the file's MIME type when known.
func (r FileRef) MimeType() string {
	if r.file != nil {
		return r.file.MimeType
	}

	return ""
}

// FileURLs holds the URLs robogo serves a file and its thumbnail under.
type FileURLs struct {
	AbsolutePath          string `json:"absolutePath"                    yaml:"absolutePath"`
	RelativePath          string `json:"relativePath"                    yaml:"relativePath"`
	AbsoluteThumbnailPath string `json:"absoluteThumbnailPath,omitempty" yaml:"absoluteThumbnailPath,omitempty"`
	RelativeThumbnailPath string `json:"relativeThumbnailPath,omitempty" yaml:"relativeThumbnailPath,omitempty"`
}

// ProgressEvent describes the state of a transfer.
type ProgressEvent struct {
	Loaded int64
	// Total is the full size of the transfer, or -1 when unknown.
	Total int64
}

// Percent returns the rounded percentage of the transfer, or -1 when the total is unknown.
func (e ProgressEvent) Percent() int {
	if e.Total <= 0 {
		return constants.UnknownPercent
	}

	return int(math.Round(float64(e.Loaded) * constants.PercentMultiplier / float64(e.Total)))
}

// ProgressFunc observes upload or download progress.
type ProgressFunc func(percent int, event ProgressEvent)

// Upload is a file to be uploaded.
type Upload struct {
	Name     string
	MimeType string
	Content  io.Reader
}

// MultipartEncoder wraps an upload as a multipart form field.
type MultipartEncoder interface {
	Encode(field string, upload *Upload) (body []byte, contentType string, err error)
}

// FormDataEncoder is the default MultipartEncoder.
type FormDataEncoder struct{}

// Encode implements MultipartEncoder.
func (FormDataEncoder) Encode(field string, upload *Upload) ([]byte, string, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	part, err := createPart(writer, field, upload)
	if err != nil {
		return nil, "", fmt.Errorf("creating form file: %w", err)
	}

	if upload.Content != nil {
		_, err = io.Copy(part, upload.Content)
		if err != nil {
			return nil, "", fmt.Errorf("writing file to form: %w", err)
		}
	}

	err = writer.Close()
	if err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func createPart(writer *multipart.Writer, field string, upload *Upload) (io.Writer, error) {
	if upload.MimeType == "" {
		return writer.CreateFormFile(field, upload.Name)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quoteEscaper.Replace(field), quoteEscaper.Replace(upload.Name)))
	header.Set("Content-Type", upload.MimeType)

	return writer.CreatePart(header)
}

// ObjectURLMinter mints transient local URLs for downloaded files. Every
// minted URL stays valid until it is revoked.
type ObjectURLMinter interface {
	Mint(file *File) (string, error)
	Revoke(url string) error
}
