package securestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/solostack/solostack/internal/securestore/uibridge"
)

// Validation errors returned before any backend is touched.
var (
	ErrInvalidProvider = errors.New("provider cannot be empty")
	ErrEmptySecret     = errors.New("secret cannot be empty")
)

// accountPrefix namespaces per-provider accounts inside the service entry.
const accountPrefix = "sync-provider::"

// Backend stores one opaque secret per sync provider in platform secure
// storage. Providers arrive already normalized (see NormalizeProvider).
type Backend interface {
	// Name identifies the backend variant for diagnostics.
	Name() string

	// Get returns the stored secret. found is false when no credential is
	// stored; err reports backend failures without masking them, so the
	// self-test can tell a read failure from an absent credential.
	Get(ctx context.Context, provider string) (secret string, found bool, err error)

	// Set persists the secret, overwriting any existing value.
	Set(ctx context.Context, provider, secret string) error

	// Delete removes the stored secret. Whether a failure is surfaced is
	// backend-specific.
	Delete(ctx context.Context, provider string) error
}

// NormalizeProvider trims surrounding whitespace and rejects an empty
// result. Applied before every backend operation.
func NormalizeProvider(provider string) (string, error) {
	p := strings.TrimSpace(provider)
	if p == "" {
		return "", ErrInvalidProvider
	}
	return p, nil
}

// accountName maps a normalized provider to its secure-storage account.
func accountName(provider string) string {
	return accountPrefix + provider
}

// ForPlatform selects the backend variant for the current platform, once per
// process: the OS keyring on desktop platforms, the UI runtime bridge on
// Android when one is configured, and the no-op backend everywhere else.
// Call sites hold only the Backend interface.
func ForPlatform(service string, bridge *uibridge.Bridge, logger *slog.Logger) (Backend, error) {
	switch runtime.GOOS {
	case "darwin", "windows", "linux":
		return NewKeyringBackend(service, logger)
	case "android":
		if bridge == nil {
			return NewUnsupportedBackend(), nil
		}
		return NewBridgedBackend(bridge)
	default:
		return NewUnsupportedBackend(), nil
	}
}

// emptySecret reports whether the secret is empty after trimming. The stored
// value itself is kept verbatim; only validation trims.
func emptySecret(secret string) bool {
	return strings.TrimSpace(secret) == ""
}

// wrapOp scopes a backend error to the failing operation.
func wrapOp(op, provider string, err error) error {
	return fmt.Errorf("secure store %s for provider %q: %w", op, provider, err)
}
