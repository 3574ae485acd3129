package types

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/foodshare/engine/pkg/logger"
)

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an envelope using its code's status.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	WriteJSON(w, status, APIResponse{
		Success: false,
		Error:   FromAppError(err),
		Meta:    &Meta{RequestID: logger.RequestID(r.Context())},
	})
}
