// Package selftest exercises a secure-store backend through a full
// write→read→delete cycle and reports its operational health as data.
//
// The runner never returns an error: its purpose is observability, not
// control flow, so even total failure produces a populated Result.
package selftest

import (
	"context"
	"fmt"
	"runtime"

	"github.com/solostack/solostack/internal/securestore"
)

const (
	// Provider is the dedicated, non-user-visible provider key the
	// diagnostic writes under. Kept apart from any real sync provider.
	Provider = "self-test.internal"

	// Payload is the fixed value written and read back.
	Payload = "solostack-secure-store-self-test-payload"
)

// Result is the structured outcome of one self-test invocation.
// RoundtripOK is derived: true iff the other four booleans are true.
type Result struct {
	Runtime     string `json:"runtime"`
	Backend     string `json:"backend"`
	Available   bool   `json:"available"`
	WriteOK     bool   `json:"write_ok"`
	ReadOK      bool   `json:"read_ok"`
	DeleteOK    bool   `json:"delete_ok"`
	RoundtripOK bool   `json:"roundtrip_ok"`
	Detail      string `json:"detail,omitempty"`
}

// Run executes the diagnostic sequence against the backend. Available is
// false only when no backend could be constructed at all. Later steps
// short-circuit after a failure, except delete, which is attempted
// regardless so the dedicated key never lingers. Detail carries the first
// failure encountered, write/read taking precedence over delete.
func Run(ctx context.Context, backend securestore.Backend) Result {
	result := Result{Runtime: runtime.GOOS}

	if backend == nil {
		result.Detail = "secure store backend unavailable"
		return result
	}
	result.Backend = backend.Name()
	result.Available = true

	if err := backend.Set(ctx, Provider, Payload); err != nil {
		result.Detail = fmt.Sprintf("write failed: %v", err)
	} else {
		result.WriteOK = true

		value, found, err := backend.Get(ctx, Provider)
		switch {
		case err != nil:
			result.Detail = fmt.Sprintf("read failed: %v", err)
		case !found:
			result.Detail = "read found no credential after write"
		case value != Payload:
			// Distinct from a read error: the backend answered, but with
			// the wrong bytes.
			result.Detail = "read payload mismatch after write"
		default:
			result.ReadOK = true
		}
	}

	if err := backend.Delete(ctx, Provider); err != nil {
		if result.Detail == "" {
			result.Detail = fmt.Sprintf("delete failed: %v", err)
		}
	} else {
		result.DeleteOK = true
	}

	result.RoundtripOK = result.Available && result.WriteOK && result.ReadOK && result.DeleteOK
	return result
}
