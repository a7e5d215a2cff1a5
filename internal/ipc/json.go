package ipc

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the body of every non-2xx response on the loopback
// surface. The message is safe to show in the UI shell; it never carries
// credential material.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes data as the response body under the given status. The
// status line goes out before encoding, so an encoding failure can only be
// logged, not reported to the client.
func writeJSON(ctx context.Context, w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.ErrorContext(ctx, "encoding response body", "error", err)
	}
}

// writeJSONError is the JSON counterpart of http.Error.
func writeJSONError(ctx context.Context, w http.ResponseWriter, message string, status int) {
	writeJSON(ctx, w, ErrorResponse{Error: message}, status)
}
