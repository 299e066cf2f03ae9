package robolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ResponseError is returned for every non-2xx response from the server.
type ResponseError struct {
	StatusCode int    `json:"status_code"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	Message    string `json:"message"`
	Body       []byte `json:"-"`
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	status := fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message == "" {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, status)
	}

	return fmt.Sprintf("%s %s: %s: %s", e.Method, e.Path, status, e.Message)
}

// ParseResponseError builds a ResponseError from a response body. robogo
// answers errors either with a JSON object carrying "message" or "error", or
// with plain text.
func ParseResponseError(method, path string, statusCode int, body []byte) *ResponseError {
	return &ResponseError{
		StatusCode: statusCode,
		Method:     method,
		Path:       path,
		Message:    errorMessage(body),
		Body:       body,
	}
}

func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}

	err := json.Unmarshal(body, &payload)
	if err == nil {
		if payload.Message != "" {
			return payload.Message
		}

		return payload.Error
	}

	var text string
	if json.Unmarshal(body, &text) == nil {
		return text
	}

	return strings.TrimSpace(string(body))
}

// StatusCode returns the HTTP status of a ResponseError in err's chain, or 0.
func StatusCode(err error) int {
	respErr := &ResponseError{}
	if errors.As(err, &respErr) {
		return respErr.StatusCode
	}

	return 0
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}
