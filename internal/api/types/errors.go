package types

import (
	"net/http"

	appErr "github.com/foodshare/engine/pkg/errors"
)

const internalMessage = "internal server error"

// FromAppError converts err into the envelope error. Internal and unknown
// errors are reduced to a generic message.
func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	code := appErr.CodeOf(err)
	switch code {
	case appErr.CodeInternal, appErr.CodeUnknown:
		return &APIError{Code: string(appErr.CodeInternal), Message: internalMessage}
	}
	return &APIError{Code: string(code), Message: appErr.MessageOf(err)}
}

// HTTPStatus maps an error code to its response status.
func HTTPStatus(err error) int {
	switch appErr.CodeOf(err) {
	case appErr.CodeInvalid:
		return http.StatusBadRequest
	case appErr.CodeUnauthorized:
		return http.StatusUnauthorized
	case appErr.CodeForbidden:
		return http.StatusForbidden
	case appErr.CodeNotFound:
		return http.StatusNotFound
	case appErr.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
