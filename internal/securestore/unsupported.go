package securestore

import "context"

// UnsupportedBackend is the fallback for platforms with neither native
// secure storage nor a UI runtime bridge. Every operation succeeds as a
// no-op with empty or absent results, so callers degrade to prompting for
// credentials instead of failing.
type UnsupportedBackend struct{}

// Compile-time check to ensure UnsupportedBackend implements Backend
var _ Backend = (*UnsupportedBackend)(nil)

// NewUnsupportedBackend creates the no-op backend.
func NewUnsupportedBackend() *UnsupportedBackend {
	return &UnsupportedBackend{}
}

// Name identifies the backend variant.
func (u *UnsupportedBackend) Name() string {
	return "unsupported"
}

// Get reports no credential stored.
func (u *UnsupportedBackend) Get(ctx context.Context, provider string) (string, bool, error) {
	return "", false, nil
}

// Set discards the secret.
func (u *UnsupportedBackend) Set(ctx context.Context, provider, secret string) error {
	return nil
}

// Delete does nothing.
func (u *UnsupportedBackend) Delete(ctx context.Context, provider string) error {
	return nil
}
