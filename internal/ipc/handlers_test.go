package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/solostack/solostack/internal/migration"
	"github.com/solostack/solostack/internal/securestore"
	"github.com/solostack/solostack/internal/selftest"
)

// memBackend is an in-memory secure store with injectable failures.
type memBackend struct {
	secrets   map[string]string
	setErr    error
	deleteErr error
}

var _ securestore.Backend = (*memBackend)(nil)

func newMemBackend() *memBackend {
	return &memBackend{secrets: make(map[string]string)}
}

func (m *memBackend) Name() string { return "mem" }

func (m *memBackend) Get(_ context.Context, provider string) (string, bool, error) {
	secret, ok := m.secrets[provider]
	return secret, ok, nil
}

func (m *memBackend) Set(_ context.Context, provider, secret string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.secrets[provider] = secret
	return nil
}

func (m *memBackend) Delete(_ context.Context, provider string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.secrets, provider)
	return nil
}

func newTestServer(t *testing.T, backend securestore.Backend) (*Server, *migration.Holder) {
	t.Helper()

	creds, err := securestore.NewService(backend, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	holder := migration.NewHolder()
	server, err := New(holder, creds)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return server, holder
}

func doRequest(t *testing.T, server *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func TestMigrationReportEndpoint(t *testing.T) {
	server, holder := newTestServer(t, newMemBackend())

	// Before the report is published the zero value is served.
	rec := doRequest(t, server, http.MethodGet, "/v1/migration/report", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var report migration.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if report != (migration.Report{}) {
		t.Errorf("expected zero-value report, got %+v", report)
	}

	holder.Set(migration.Report{
		LegacyPathDetected: true,
		MigrationAttempted: true,
		MigrationCompleted: true,
		MarkerPresent:      true,
		NewDBPath:          "/data/solostack.db",
	})

	rec = doRequest(t, server, http.MethodGet, "/v1/migration/report", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if !report.MigrationCompleted || report.NewDBPath != "/data/solostack.db" {
		t.Errorf("report = %+v", report)
	}
}

func TestCredentialRoundTripOverIPC(t *testing.T) {
	server, _ := newTestServer(t, newMemBackend())

	rec := doRequest(t, server, http.MethodGet, "/v1/sync-providers/github/auth", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var resp struct {
		Auth *string `json:"auth"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Auth != nil {
		t.Errorf("auth = %q, want null before any write", *resp.Auth)
	}

	rec = doRequest(t, server, http.MethodPut, "/v1/sync-providers/github/auth", `{"auth":"token-123"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("put status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doRequest(t, server, http.MethodGet, "/v1/sync-providers/github/auth", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Auth == nil || *resp.Auth != "token-123" {
		t.Fatalf("auth = %v, want token-123", resp.Auth)
	}

	rec = doRequest(t, server, http.MethodDelete, "/v1/sync-providers/github/auth", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doRequest(t, server, http.MethodGet, "/v1/sync-providers/github/auth", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Auth != nil {
		t.Error("auth should be null after delete")
	}
}

func TestCredentialValidationErrors(t *testing.T) {
	server, _ := newTestServer(t, newMemBackend())

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{name: "whitespace provider on get", method: http.MethodGet, target: "/v1/sync-providers/%20/auth"},
		{name: "whitespace provider on put", method: http.MethodPut, target: "/v1/sync-providers/%20/auth", body: `{"auth":"x"}`},
		{name: "empty auth", method: http.MethodPut, target: "/v1/sync-providers/github/auth", body: `{"auth":""}`},
		{name: "whitespace auth", method: http.MethodPut, target: "/v1/sync-providers/github/auth", body: `{"auth":"  "}`},
		{name: "malformed body", method: http.MethodPut, target: "/v1/sync-providers/github/auth", body: `{"auth":`},
		{name: "whitespace provider on delete", method: http.MethodDelete, target: "/v1/sync-providers/%20/auth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, server, tt.method, tt.target, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body)
			}
			var errResp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("decoding error response: %v", err)
			}
			if errResp.Error == "" {
				t.Error("error message missing")
			}
		})
	}
}

func TestCredentialBackendFailuresMapTo502(t *testing.T) {
	backend := newMemBackend()
	backend.setErr = errors.New("storage rejected write")
	backend.deleteErr = errors.New("storage rejected delete")
	server, _ := newTestServer(t, backend)

	rec := doRequest(t, server, http.MethodPut, "/v1/sync-providers/github/auth", `{"auth":"x"}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("put status = %d, want 502", rec.Code)
	}

	rec = doRequest(t, server, http.MethodDelete, "/v1/sync-providers/github/auth", "")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("delete status = %d, want 502", rec.Code)
	}
}

func TestSelfTestEndpoint(t *testing.T) {
	server, _ := newTestServer(t, newMemBackend())

	rec := doRequest(t, server, http.MethodPost, "/v1/secure-store/self-test", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var result selftest.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if !result.RoundtripOK {
		t.Errorf("roundtrip_ok = false: %+v", result)
	}
	if result.Backend != "mem" {
		t.Errorf("backend = %q", result.Backend)
	}
}

func TestNewValidation(t *testing.T) {
	creds, err := securestore.NewService(newMemBackend(), slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := New(nil, creds); err == nil {
		t.Error("expected error for missing holder")
	}
	if _, err := New(migration.NewHolder(), nil); err == nil {
		t.Error("expected error for missing credential service")
	}
}
