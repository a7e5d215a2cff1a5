// Package migration moves a prior SoloStack installation's database into the
// current installation's data directory, exactly once.
//
// The engine detects the legacy data directory by bundle-identifier
// substitution, copies the database and its -wal/-shm sidecars, verifies the
// copy, and persists a marker file whose presence makes the migration
// idempotent across restarts. Every failure degrades to "legacy data not
// migrated this run"; the host process always keeps starting.
package migration
