package databricks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/databricks/databricks-sdk-go/apierr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		notFound    bool
		conflict    bool
		validation  bool
		unsupported bool
		internal    bool
	}{
		{
			name:     "404",
			err:      &APIError{StatusCode: http.StatusNotFound, Message: "gone"},
			notFound: true,
		},
		{
			name:     "remote does-not-exist code",
			err:      &APIError{StatusCode: http.StatusBadRequest, ErrorCode: codeResourceDoesNotExist},
			notFound: true,
		},
		{
			name:     "409",
			err:      &APIError{StatusCode: http.StatusConflict},
			conflict: true,
		},
		{
			name:     "remote already-exists code on 400",
			err:      &APIError{StatusCode: http.StatusBadRequest, ErrorCode: codeResourceAlreadyExists},
			conflict: true,
		},
		{
			name:       "plain 400",
			err:        &APIError{StatusCode: http.StatusBadRequest, ErrorCode: "DIRECTORY_NOT_EMPTY"},
			validation: true,
		},
		{
			name:        "unsupported",
			err:         newUnsupportedError("cannot copy %s", "/lib"),
			unsupported: true,
		},
		{
			name:     "500",
			err:      &APIError{StatusCode: http.StatusInternalServerError},
			internal: true,
		},
		{
			name:     "wrapped with fmt",
			err:      fmt.Errorf("outer: %w", &APIError{StatusCode: http.StatusNotFound}),
			notFound: true,
		},
		{
			name: "non-API error",
			err:  errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, IsNotFound(tt.err), "IsNotFound")
			assert.Equal(t, tt.conflict, IsConflict(tt.err), "IsConflict")
			assert.Equal(t, tt.validation, IsValidation(tt.err), "IsValidation")
			assert.Equal(t, tt.unsupported, IsUnsupported(tt.err), "IsUnsupported")
			assert.Equal(t, tt.internal, IsInternal(tt.err), "IsInternal")
		})
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{StatusCode: 404, ErrorCode: codeResourceDoesNotExist, Message: "Path (/x) doesn't exist."}
	assert.Equal(t, "workspace error [404 RESOURCE_DOES_NOT_EXIST]: Path (/x) doesn't exist.", err.Error())

	err = &APIError{StatusCode: 500, Message: "boom"}
	assert.Equal(t, "workspace error [500]: boom", err.Error())
}

func TestWrapInternal(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, wrapInternal(nil, "ctx"))
	})

	t.Run("classified errors pass through unchanged", func(t *testing.T) {
		original := &APIError{StatusCode: http.StatusConflict, Message: "exists"}
		assert.Same(t, original, wrapInternal(original, "copy %s", "/a"))
	})

	t.Run("other errors become 500 with context", func(t *testing.T) {
		cause := context.DeadlineExceeded
		err := wrapInternal(cause, "copy %s", "/a")

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Contains(t, apiErr.Message, "copy /a")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.True(t, IsInternal(err))
	})
}

func TestFromSDKError(t *testing.T) {
	t.Run("maps status, code and message", func(t *testing.T) {
		sdkErr := &apierr.APIError{StatusCode: 404, ErrorCode: codeResourceDoesNotExist, Message: "missing"}
		err := fromSDKError(sdkErr)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 404, apiErr.StatusCode)
		assert.Equal(t, codeResourceDoesNotExist, apiErr.ErrorCode)
		assert.Equal(t, "missing", apiErr.Message)
		assert.Equal(t, 404, StatusCode(err))
	})

	t.Run("empty message falls back to status text", func(t *testing.T) {
		err := fromSDKError(&apierr.APIError{StatusCode: 503})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusText(503), apiErr.Message)
	})

	t.Run("transport errors are untouched", func(t *testing.T) {
		cause := errors.New("dial tcp: refused")
		assert.Same(t, cause, fromSDKError(cause))
		assert.Equal(t, 0, StatusCode(cause))
	})

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, fromSDKError(nil))
	})
}
