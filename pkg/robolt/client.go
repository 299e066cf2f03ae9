package robolt

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired           = errors.New("config is required")
	ErrBaseURLRequired          = errors.New("base URL is required")
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
	ErrStaticTokenCannotRefresh = errors.New("static token cannot be refreshed")
	ErrFractionalInteger        = errors.New("number with a fraction cannot be decoded into an integer")
)

// DocumentClient covers the CRUD, search and count routes.
type DocumentClient interface {
	Create(ctx context.Context, model string, data any) (Document, error)
	Read(ctx context.Context, model string, opts *ReadOptions) ([]Document, error)
	Get(ctx context.Context, model, id string, opts *GetOptions) (Document, error)
	Search(ctx context.Context, model string, opts *SearchOptions) ([]Document, error)
	Update(ctx context.Context, model string, data any) (Result, error)
	Delete(ctx context.Context, model, id string) (Result, error)
	Count(ctx context.Context, model string, filter any) (int64, error)
}

// ServiceClient covers the runner and getter routes of robogo services.
type ServiceClient interface {
	RunService(ctx context.Context, service, function string, params any) (json.RawMessage, error)
	GetService(ctx context.Context, service, function string, params Params) (json.RawMessage, error)
}

// FileClient covers file upload, management and static file retrieval.
type FileClient interface {
	UploadFile(ctx context.Context, upload *Upload, progress ProgressFunc) (*RoboFile, error)
	CloneFile(ctx context.Context, ref FileRef) (*RoboFile, error)
	DeleteFile(ctx context.Context, ref FileRef) (Result, error)
	GetFile(ctx context.Context, ref FileRef, progress ProgressFunc) (*File, error)
	GetFileURL(ctx context.Context, ref FileRef, progress ProgressFunc) (string, error)
	GetThumbnail(ctx context.Context, ref FileRef, progress ProgressFunc) (*File, error)
	GetThumbnailURL(ctx context.Context, ref FileRef, progress ProgressFunc) (string, error)
	RevokeFileURL(url string) error
	GetFileURLs(file *RoboFile) FileURLs
}

// IntrospectionClient covers the model, schema and fields routes.
type IntrospectionClient interface {
	Models(ctx context.Context) ([]ModelDescriptor, error)
	Model(ctx context.Context, name string) (ModelDescriptor, error)
	Schema(ctx context.Context, model string) ([]*SchemaField, error)
	RecycledSchema(ctx context.Context, model string) ([]*SchemaField, error)
	Fields(ctx context.Context, model string, opts *FieldsOptions) ([]*SchemaField, error)
}

// AccessClient covers the access routes.
type AccessClient interface {
	Accesses(ctx context.Context, model string) (*Accesses, error)
	AccessGroups(ctx context.Context) (*AccessGroups, error)
}

// Client is the full robogo route surface.
type Client interface {
	DocumentClient
	ServiceClient
	FileClient
	IntrospectionClient
	AccessClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a robolt.Client.
//
// # Routes
//
// Every route is built as "/{Prefix}/{route}/...", where Prefix is the path the
// robogo router was mounted under in the host express application. Prefix is
// trimmed of surrounding slashes; an empty Prefix drops the segment entirely.
//
// # Authentication precedence
//
//  1. AccessToken: used directly as a static Bearer token.
//  2. ClientID/ClientSecret with TokenURL: OAuth2 client_credentials grant.
//  3. Username/Password with TokenURL: OAuth2 password grant.
//  4. No credentials: requests are sent without an Authorization header.
//
// # Immutability
//
// The client copies the Config (including DefaultFilter and Headers) at
// construction. Mutating the Config afterwards has no effect on the client.
type Config struct {
	// BaseURL: scheme and host of the robogo server (e.g., "https://api.example.com").
	// roboltclient.New trims a trailing slash and adds "https://" if no scheme is present.
	BaseURL string
	// Prefix: the path the robogo routes were registered under.
	Prefix string
	// StaticPath: the path stored files are served under. Defaults to "static".
	StaticPath string
	// DefaultFilter: filter sent by Read when the caller gives none. Defaults to {}.
	DefaultFilter map[string]any

	// AccessToken: static Bearer token.
	AccessToken string
	// TokenURL: OAuth2 token endpoint for the client_credentials and password grants.
	TokenURL string
	// ClientID: OAuth2 client ID.
	ClientID string
	// ClientSecret: OAuth2 client secret.
	ClientSecret string
	// Username: account username for the password grant.
	Username string
	// Password: account password for the password grant.
	Password string
	// Scopes: OAuth2 scopes requested for either grant.
	Scopes []string

	// Headers: extra headers sent with every request.
	Headers map[string]string
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// HTTPTimeout: overall per-request timeout of the underlying http.Client.
	// Zero leaves timeouts to the caller's context.
	HTTPTimeout time.Duration
	// RetryMax: maximum number of retries for transient failures (>=500, 429 and
	// connection errors). Zero disables retries.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration
	// Debug: enables request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the transport and AccessGroups.Check.
	// Without one, transport logging is off and AccessGroups.Check warnings go to
	// stderr through NewWarnLogger.
	Logger Logger

	// ParamEncoder: turns query parameters into url.Values. Defaults to BracketParamEncoder.
	ParamEncoder ParamEncoder
	// MultipartEncoder: wraps uploads as multipart form data. Defaults to FormDataEncoder.
	MultipartEncoder MultipartEncoder
	// URLMinter: mints local URLs for downloaded files. Defaults to a temp-dir minter.
	URLMinter ObjectURLMinter
	// Interceptors: request/response hooks run around every call.
	Interceptors *InterceptorChain
	// MetricsRegisterer: when set, request counters and latency histograms are registered on it.
	MetricsRegisterer prometheus.Registerer
	// Tracing: wraps the transport with OpenTelemetry HTTP instrumentation.
	Tracing bool
}
