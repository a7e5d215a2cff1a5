// Package uibridge executes secure-storage calls inside the execution
// context that owns the embedded UI runtime component.
//
// On Android the platform keystore API is only reachable from the runtime
// that holds the host activity, so every credential operation is packaged as
// a self-contained unit of work, scheduled onto that context, and awaited on
// a single-use reply channel with a bounded wait. Three failure modes stay
// distinguishable so operators can tell "not integrated" from "hung" from
// "rejected": scheduling failure, timeout, and an error from the platform
// call chain itself.
package uibridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds the wait for a reply from the UI runtime.
const DefaultTimeout = 5000 * time.Millisecond

// Sentinel errors for the two bridge-level failure modes. Errors from the
// platform call chain are wrapped and carry the helper's own message.
var (
	// ErrScheduleFailed means the unit of work could not even be queued on
	// the UI runtime's execution context.
	ErrScheduleFailed = errors.New("secure store bridge: scheduling on ui runtime failed")

	// ErrTimeout means the unit of work was scheduled but produced no reply
	// within the bound; the UI runtime is unresponsive or dropped the work.
	ErrTimeout = errors.New("secure store bridge: no reply from ui runtime")
)

// Runtime schedules a unit of work onto the execution context that owns the
// embedded UI runtime component. Schedule returns an error only when the
// submission itself cannot be queued; whether fn ever runs is the runtime's
// concern and is covered by the caller's bounded wait.
type Runtime interface {
	Schedule(fn func()) error
}

// Helper is the platform-side credential helper, implemented and registered
// by the host shell. On Android each call resolves the helper class handle,
// marshals the provider and secret as platform strings, invokes the static
// get/set/delete accessor with the host activity, and unmarshals the result,
// translating a null value into "absent" rather than an error.
type Helper interface {
	Get(provider string) (secret string, found bool, err error)
	Set(provider, secret string) error
	Delete(provider string) error
}

// Bridge marshals credential operations onto the UI runtime and returns
// their results to the calling goroutine.
type Bridge struct {
	runtime Runtime
	helper  Helper
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithTimeout overrides the reply wait bound. Intended for tests.
func WithTimeout(d time.Duration) Option {
	return func(b *Bridge) {
		b.timeout = d
	}
}

// WithLogger sets the logger used for bridge diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// New creates a Bridge over the given runtime and helper.
func New(rt Runtime, helper Helper, opts ...Option) (*Bridge, error) {
	if rt == nil {
		return nil, fmt.Errorf("missing ui runtime")
	}
	if helper == nil {
		return nil, fmt.Errorf("missing platform helper")
	}

	b := &Bridge{
		runtime: rt,
		helper:  helper,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b, nil
}

// reply carries a helper result back across the context boundary.
type reply struct {
	secret string
	found  bool
	err    error
}

// Get retrieves the provider's secret through the UI runtime.
func (b *Bridge) Get(ctx context.Context, provider string) (string, bool, error) {
	res, err := b.call(ctx, "get", provider, func() reply {
		secret, found, err := b.helper.Get(provider)
		return reply{secret: secret, found: found, err: err}
	})
	if err != nil {
		return "", false, err
	}
	return res.secret, res.found, nil
}

// Set stores the provider's secret through the UI runtime.
func (b *Bridge) Set(ctx context.Context, provider, secret string) error {
	_, err := b.call(ctx, "set", provider, func() reply {
		return reply{err: b.helper.Set(provider, secret)}
	})
	return err
}

// Delete removes the provider's secret through the UI runtime.
func (b *Bridge) Delete(ctx context.Context, provider string) error {
	_, err := b.call(ctx, "delete", provider, func() reply {
		return reply{err: b.helper.Delete(provider)}
	})
	return err
}

// call schedules fn on the UI runtime and blocks on a single-use reply
// channel. The channel is buffered so the runtime never blocks sending to a
// caller that already timed out. Once scheduled, the call is not
// cancellable; the timeout is the only bound.
func (b *Bridge) call(ctx context.Context, op, provider string, fn func() reply) (reply, error) {
	if err := ctx.Err(); err != nil {
		return reply{}, err
	}

	callID := uuid.NewString()
	replyCh := make(chan reply, 1)

	if err := b.runtime.Schedule(func() { replyCh <- fn() }); err != nil {
		return reply{}, fmt.Errorf("%w: %s (call %s): %v", ErrScheduleFailed, op, callID, err)
	}

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case res := <-replyCh:
		if res.err != nil {
			return reply{}, fmt.Errorf("secure store bridge: %s (call %s) rejected: %w", op, callID, res.err)
		}
		return res, nil
	case <-timer.C:
		b.logger.Warn("ui runtime call timed out",
			"op", op, "provider", provider, "call_id", callID, "timeout", b.timeout)
		return reply{}, fmt.Errorf("%w: %s (call %s) after %s", ErrTimeout, op, callID, b.timeout)
	}
}
