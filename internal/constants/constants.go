package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits.
const (
	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second

	// ExtendedRetryWaitMax is used for operations that need longer waits.
	ExtendedRetryWaitMax = 30 * time.Second
)

// Route segments registered by robogo. Each route is
// "/{prefix}/{segment}[/...]".
const (
	RouteCreate       = "create"
	RouteRead         = "read"
	RouteGet          = "get"
	RouteSearch       = "search"
	RouteUpdate       = "update"
	RouteDelete       = "delete"
	RouteRunner       = "runner"
	RouteGetter       = "getter"
	RouteFileUpload   = "fileupload"
	RouteFileClone    = "fileclone"
	RouteFileDelete   = "filedelete"
	RouteModel        = "model"
	RouteSchema       = "schema"
	RouteFields       = "fields"
	RouteCount        = "count"
	RouteAccesses     = "accesses"
	RouteAccessGroups = "accessesGroups"
)

// Defaults mirrored from the robogo server constructor.
const (
	// DefaultStaticPath is the path robogo serves stored files under.
	DefaultStaticPath = "static"

	// UploadFieldName is the multipart field robogo reads uploads from.
	UploadFieldName = "file"

	// UnknownFileName is reported when a file is addressed by storage key only.
	UnknownFileName = "unknown"

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "robolt-go"
)

// Output formats.
const (
	// OutputFormatTable renders tables.
	OutputFormatTable = "table"

	// OutputFormatJSON renders JSON.
	OutputFormatJSON = "json"

	// OutputFormatYAML renders YAML.
	OutputFormatYAML = "yaml"

	// JSONIndentSize is the number of spaces for JSON and YAML indentation.
	JSONIndentSize = 2
)

// Percentages.
const (
	// PercentMultiplier converts a ratio into a percentage.
	PercentMultiplier = 100

	// UnknownPercent is reported when the total size of a transfer is unknown.
	UnknownPercent = -1
)
