// Package securestore persists per-provider sync credentials in the
// operating system's protected storage.
//
// One backend variant is selected per process and injected wherever
// credentials are handled:
//   - Keyring: OS-native credential storage (macOS Keychain, Windows
//     Credential Manager, Linux Secret Service)
//   - Bridged: mobile secure storage reached through the embedded UI
//     runtime's execution context (see the uibridge subpackage)
//   - Unsupported: no-op fallback for platforms with neither
//
// Secret values are owned entirely by the platform facility; they are never
// cached in process memory between calls and never logged.
package securestore
