package constants

import "errors"

// Configuration errors.
var (
	ErrNoBaseURLConfigured = errors.New("no base URL configured, use 'robolt config set base-url <url>'")
	ErrUnknownConfigKey    = errors.New("unknown configuration key")
	ErrInvalidOutputFormat = errors.New("invalid output format")
)

// Argument errors.
var (
	ErrDataRequired       = errors.New("--data flag is required")
	ErrTermRequired       = errors.New("--term flag is required")
	ErrNoPasswordTerminal = errors.New("password required but stdin is not a terminal")
)

// File system errors.
var (
	ErrNotRegularFile = errors.New("path is not a regular file")
)
