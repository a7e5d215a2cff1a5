package securestore

import (
	"context"
	"errors"
	"testing"
)

func TestNormalizeProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		want     string
		wantErr  bool
	}{
		{name: "plain", provider: "github", want: "github"},
		{name: "surrounding whitespace", provider: "  dropbox \t", want: "dropbox"},
		{name: "inner whitespace kept", provider: " my provider ", want: "my provider"},
		{name: "empty", provider: "", wantErr: true},
		{name: "whitespace only", provider: " \t\n ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeProvider(tt.provider)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidProvider) {
					t.Fatalf("error = %v, want ErrInvalidProvider", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NormalizeProvider = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAccountName(t *testing.T) {
	if got := accountName("github"); got != "sync-provider::github" {
		t.Errorf("accountName = %q, want %q", got, "sync-provider::github")
	}
}

func TestUnsupportedBackendNoOps(t *testing.T) {
	ctx := context.Background()
	backend := NewUnsupportedBackend()

	if backend.Name() != "unsupported" {
		t.Errorf("Name = %q", backend.Name())
	}
	if err := backend.Set(ctx, "github", "secret"); err != nil {
		t.Errorf("Set: %v", err)
	}
	secret, found, err := backend.Get(ctx, "github")
	if err != nil || found || secret != "" {
		t.Errorf("Get = (%q, %v, %v), want absent with no error", secret, found, err)
	}
	if err := backend.Delete(ctx, "github"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}
