package robolt_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

func TestParseResponseError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"message field", `{"message": "Document not found"}`, "Document not found"},
		{"error field", `{"error": "Forbidden"}`, "Forbidden"},
		{"json string", `"Model does not exist"`, "Model does not exist"},
		{"plain text", "Internal error\n", "Internal error"},
		{"empty", "", ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := robolt.ParseResponseError("GET", "/get/User/1", http.StatusNotFound, []byte(testCase.body))
			assert.Equal(t, testCase.message, err.Message)
			assert.Equal(t, []byte(testCase.body), err.Body)
			assert.Equal(t, http.StatusNotFound, err.StatusCode)
		})
	}
}

func TestResponseError_Error(t *testing.T) {
	t.Parallel()

	withMessage := &robolt.ResponseError{StatusCode: 404, Method: "GET", Path: "/get/User/1", Message: "Document not found"}
	assert.Equal(t, "GET /get/User/1: 404 Not Found: Document not found", withMessage.Error())

	bare := &robolt.ResponseError{StatusCode: 500, Method: "POST", Path: "/create/User"}
	assert.Equal(t, "POST /create/User: 500 Internal Server Error", bare.Error())
}

func TestStatusHelpers(t *testing.T) {
	t.Parallel()

	notFound := fmt.Errorf("loading user: %w", &robolt.ResponseError{StatusCode: http.StatusNotFound})
	unauthorized := &robolt.ResponseError{StatusCode: http.StatusUnauthorized}
	forbidden := &robolt.ResponseError{StatusCode: http.StatusForbidden}
	plain := errors.New("network down")

	assert.True(t, robolt.IsNotFound(notFound))
	assert.False(t, robolt.IsNotFound(forbidden))
	assert.True(t, robolt.IsUnauthorized(unauthorized))
	assert.True(t, robolt.IsForbidden(forbidden))
	assert.False(t, robolt.IsForbidden(plain))
	assert.Equal(t, http.StatusNotFound, robolt.StatusCode(notFound))
	assert.Zero(t, robolt.StatusCode(plain))
	assert.Zero(t, robolt.StatusCode(nil))
}
