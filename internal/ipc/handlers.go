package ipc

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/solostack/solostack/internal/migration"
	"github.com/solostack/solostack/internal/securestore"
	"github.com/solostack/solostack/internal/selftest"
)

// handlers holds the collaborators behind the IPC endpoints.
type handlers struct {
	holder *migration.Holder
	creds  *securestore.Service
}

// authRequest is the body of a credential write.
type authRequest struct {
	Auth string `json:"auth"`
}

// authResponse carries a stored credential back to the shell. Auth is null
// when no credential is stored.
type authResponse struct {
	Auth *string `json:"auth"`
}

// migrationReport returns the startup migration report. Never fails; before
// the report is published this returns the zero-value report.
func (h *handlers) migrationReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, h.holder.Report(), http.StatusOK)
}

func (h *handlers) getAuth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	secret, found, err := h.creds.GetAuth(ctx, r.PathValue("provider"))
	if err != nil {
		// Only validation errors reach here; read failures are absent
		writeJSONError(ctx, w, err.Error(), http.StatusBadRequest)
		return
	}

	var resp authResponse
	if found {
		resp.Auth = &secret
	}
	writeJSON(ctx, w, resp, http.StatusOK)
}

func (h *handlers) setAuth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(ctx, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.creds.SetAuth(ctx, r.PathValue("provider"), req.Auth); err != nil {
		writeJSONError(ctx, w, err.Error(), statusForError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) deleteAuth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.creds.DeleteAuth(ctx, r.PathValue("provider")); err != nil {
		writeJSONError(ctx, w, err.Error(), statusForError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) selfTest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	// The self-test is diagnostic: the result is data, never an HTTP error
	writeJSON(ctx, w, selftest.Run(ctx, h.creds.Backend()), http.StatusOK)
}

// statusForError maps validation failures to 400 and everything else (a
// secure-storage backend failure) to 502.
func statusForError(err error) int {
	if errors.Is(err, securestore.ErrInvalidProvider) || errors.Is(err, securestore.ErrEmptySecret) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}
