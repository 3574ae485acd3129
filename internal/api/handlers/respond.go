package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/foodshare/engine/internal/api/middleware"
	"github.com/foodshare/engine/internal/api/types"
	"github.com/foodshare/engine/internal/services"
	appErr "github.com/foodshare/engine/pkg/errors"
)

const maxBodyBytes = 1 << 20

// errEmptyBody is returned by decode when the body holds no JSON value.
var errEmptyBody = appErr.Validation("request body is required")

func writeJSON(w http.ResponseWriter, status int, v any) {
	types.WriteJSON(w, status, v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	types.WriteError(w, r, err)
}

func writeOK(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	writeJSON(w, status, types.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    &types.Meta{RequestID: middleware.GetRequestID(r.Context())},
	})
}

// decode reads a JSON body into dst, rejecting unknown fields and trailing data.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return appErr.Wrap(err, appErr.CodeInvalid, "invalid json")
	}
	if dec.More() {
		return appErr.Validation("invalid json: trailing data")
	}
	return nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, appErr.Validation("invalid id")
	}
	return id, nil
}

// caller returns the authenticated caller set by middleware.Auth.
func caller(r *http.Request) (services.Caller, error) {
	c, ok := middleware.GetCaller(r.Context())
	if !ok {
		return services.Caller{}, appErr.Unauthorized("authentication required")
	}
	return c, nil
}
