package databricks

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/databricks/databricks-sdk-go/apierr"
)

// Error codes reported by the workspace API, plus the local ones this
// package raises itself.
const (
	codeResourceDoesNotExist  = "RESOURCE_DOES_NOT_EXIST"
	codeResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	codeInvalidParameterValue = "INVALID_PARAMETER_VALUE"
	codeUnsupportedObjectType = "UNSUPPORTED_OBJECT_TYPE"
	codeInternalError         = "INTERNAL_ERROR"
)

// APIError is the single error type returned by WorkspaceClient.
// StatusCode carries the taxonomy (404, 409, 400, 500); ErrorCode is the
// remote or local machine-readable code when one is known.
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
	err        error
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("workspace error [%d %s]: %s", e.StatusCode, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("workspace error [%d]: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.err
}

// Is matches the package sentinels by classification, so
// errors.Is(err, ErrNotFound) holds for any not-found APIError.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	switch t {
	case ErrNotFound:
		return e.isNotFound()
	case ErrConflict:
		return e.isConflict()
	case ErrUnsupported:
		return e.ErrorCode == codeUnsupportedObjectType
	case ErrValidation:
		return e.StatusCode == http.StatusBadRequest && e.ErrorCode != codeUnsupportedObjectType &&
			!e.isConflict() && !e.isNotFound()
	case ErrInternal:
		return e.StatusCode == http.StatusInternalServerError
	}
	return e == t
}

func (e *APIError) isNotFound() bool {
	return e.StatusCode == http.StatusNotFound || e.ErrorCode == codeResourceDoesNotExist
}

// The workspace API reports existing objects as 400 RESOURCE_ALREADY_EXISTS.
func (e *APIError) isConflict() bool {
	return e.StatusCode == http.StatusConflict || e.ErrorCode == codeResourceAlreadyExists
}

// Sentinels for errors.Is.
var (
	ErrNotFound    = &APIError{StatusCode: http.StatusNotFound, ErrorCode: codeResourceDoesNotExist, Message: "resource not found"}
	ErrConflict    = &APIError{StatusCode: http.StatusConflict, ErrorCode: codeResourceAlreadyExists, Message: "resource already exists"}
	ErrValidation  = &APIError{StatusCode: http.StatusBadRequest, ErrorCode: codeInvalidParameterValue, Message: "invalid request"}
	ErrUnsupported = &APIError{StatusCode: http.StatusBadRequest, ErrorCode: codeUnsupportedObjectType, Message: "unsupported object type"}
	ErrInternal    = &APIError{StatusCode: http.StatusInternalServerError, ErrorCode: codeInternalError, Message: "internal error"}
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not an APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func newConflictError(format string, args ...any) *APIError {
	return &APIError{StatusCode: http.StatusConflict, ErrorCode: codeResourceAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

func newValidationError(err error, format string, args ...any) *APIError {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &APIError{StatusCode: http.StatusBadRequest, ErrorCode: codeInvalidParameterValue, Message: msg, err: err}
}

func newUnsupportedError(format string, args ...any) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, ErrorCode: codeUnsupportedObjectType, Message: fmt.Sprintf(format, args...)}
}

func newInternalError(format string, args ...any) *APIError {
	return &APIError{StatusCode: http.StatusInternalServerError, ErrorCode: codeInternalError, Message: fmt.Sprintf(format, args...)}
}

// wrapInternal re-wraps err as a 500 with context, unless it is already an
// APIError, which is returned unchanged so callers can still branch on it.
func wrapInternal(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  codeInternalError,
		Message:    fmt.Sprintf("%s: %v", fmt.Sprintf(format, args...), err),
		err:        err,
	}
}

// fromSDKError maps transport errors from the SDK into APIError. Errors that
// never reached the remote (network, context) are returned as they are.
func fromSDKError(err error) error {
	if err == nil {
		return nil
	}
	var sdkErr *apierr.APIError
	if errors.As(err, &sdkErr) {
		msg := sdkErr.Message
		if msg == "" {
			msg = http.StatusText(sdkErr.StatusCode)
		}
		return &APIError{
			StatusCode: sdkErr.StatusCode,
			ErrorCode:  sdkErr.ErrorCode,
			Message:    msg,
			err:        err,
		}
	}
	return err
}
