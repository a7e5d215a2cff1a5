package securestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zalando/go-keyring"
)

// KeyringBackend provides OS-native secure credential storage on desktop
// platforms (macOS Keychain, Windows Credential Manager, Linux Secret
// Service). Entries live under a fixed service identifier with one account
// per provider.
type KeyringBackend struct {
	service string
	logger  *slog.Logger
}

// Compile-time check to ensure KeyringBackend implements Backend
var _ Backend = (*KeyringBackend)(nil)

// NewKeyringBackend creates a KeyringBackend for the given service
// identifier. A nil logger falls back to slog.Default.
func NewKeyringBackend(service string, logger *slog.Logger) (*KeyringBackend, error) {
	if service == "" {
		return nil, fmt.Errorf("service cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &KeyringBackend{service: service, logger: logger}, nil
}

// Name identifies the backend variant.
func (k *KeyringBackend) Name() string {
	return "keyring"
}

// Get returns the secret for the provider. A missing entry is reported as
// not found, not as an error.
func (k *KeyringBackend) Get(ctx context.Context, provider string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	secret, err := keyring.Get(k.service, accountName(provider))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapOp("read", provider, err)
	}
	return secret, true, nil
}

// Set persists the secret, overwriting any existing value.
func (k *KeyringBackend) Set(ctx context.Context, provider, secret string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := keyring.Set(k.service, accountName(provider), secret); err != nil {
		return wrapOp("write", provider, err)
	}
	return nil
}

// Delete removes the stored secret. Failures are swallowed: deleting an
// already-absent credential is not a condition the caller needs to see.
func (k *KeyringBackend) Delete(ctx context.Context, provider string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := keyring.Delete(k.service, accountName(provider)); err != nil {
		k.logger.Debug("keyring delete discarded", "provider", provider, "error", err)
	}
	return nil
}
