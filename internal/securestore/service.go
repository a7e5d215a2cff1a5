package securestore

import (
	"context"
	"fmt"
	"log/slog"
)

// Service is the request-facing credential surface. It normalizes provider
// identifiers before every backend call and applies the input validation
// the backends themselves assume.
type Service struct {
	backend Backend
	logger  *slog.Logger
}

// NewService creates a Service over the selected backend. A nil logger
// falls back to slog.Default.
func NewService(backend Backend, logger *slog.Logger) (*Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("missing secure store backend")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{backend: backend, logger: logger}, nil
}

// Backend returns the underlying backend, for diagnostics such as the
// self-test which needs unmasked read errors.
func (s *Service) Backend() Backend {
	return s.backend
}

// GetAuth returns the stored auth value for the provider. Backend read
// failures are collapsed into "not found": either way the caller's only
// move is to prompt for re-authentication, so the distinction would not be
// actionable. The failure is still logged.
func (s *Service) GetAuth(ctx context.Context, provider string) (string, bool, error) {
	p, err := NormalizeProvider(provider)
	if err != nil {
		return "", false, err
	}

	secret, found, err := s.backend.Get(ctx, p)
	if err != nil {
		s.logger.Warn("secure store read failed, treating as absent",
			"provider", p, "backend", s.backend.Name(), "error", err)
		return "", false, nil
	}
	return secret, found, nil
}

// SetAuth stores the auth value for the provider. An empty or
// whitespace-only value is rejected before any backend is touched.
func (s *Service) SetAuth(ctx context.Context, provider, auth string) error {
	p, err := NormalizeProvider(provider)
	if err != nil {
		return err
	}
	if emptySecret(auth) {
		return ErrEmptySecret
	}

	return s.backend.Set(ctx, p, auth)
}

// DeleteAuth removes the stored auth value for the provider. Whether a
// backend failure surfaces here is the backend's policy (the keyring
// swallows, the bridge reports).
func (s *Service) DeleteAuth(ctx context.Context, provider string) error {
	p, err := NormalizeProvider(provider)
	if err != nil {
		return err
	}

	return s.backend.Delete(ctx, p)
}
