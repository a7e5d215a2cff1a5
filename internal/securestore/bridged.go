package securestore

import (
	"context"
	"fmt"

	"github.com/solostack/solostack/internal/securestore/uibridge"
)

// BridgedBackend stores credentials through the embedded UI runtime's
// execution context. Unlike the keyring backend, delete failures are
// surfaced to the caller.
type BridgedBackend struct {
	bridge *uibridge.Bridge
}

// Compile-time check to ensure BridgedBackend implements Backend
var _ Backend = (*BridgedBackend)(nil)

// NewBridgedBackend creates a BridgedBackend over the given bridge.
func NewBridgedBackend(bridge *uibridge.Bridge) (*BridgedBackend, error) {
	if bridge == nil {
		return nil, fmt.Errorf("missing ui runtime bridge")
	}
	return &BridgedBackend{bridge: bridge}, nil
}

// Name identifies the backend variant.
func (b *BridgedBackend) Name() string {
	return "ui-bridge"
}

// Get returns the secret for the provider, or not found when the platform
// helper reports no stored value.
func (b *BridgedBackend) Get(ctx context.Context, provider string) (string, bool, error) {
	return b.bridge.Get(ctx, provider)
}

// Set persists the secret through the bridge.
func (b *BridgedBackend) Set(ctx context.Context, provider, secret string) error {
	return b.bridge.Set(ctx, provider, secret)
}

// Delete removes the stored secret through the bridge. Failures are
// surfaced, unlike the keyring backend.
func (b *BridgedBackend) Delete(ctx context.Context, provider string) error {
	return b.bridge.Delete(ctx, provider)
}
