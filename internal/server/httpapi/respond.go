package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/common"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/logging"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto HTTP statuses. Internal details stay
// in the log; clients only see the error class.
func writeError(ctx context.Context, w http.ResponseWriter, logger logging.Logger, err error) {
	switch {
	case errors.Is(err, common.ErrorAuthentication):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication failed"})
	case errors.Is(err, common.ErrorForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	default:
		logger.Error(ctx, "internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
