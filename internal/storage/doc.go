// Package storage is the diary storage engine.
//
// A single Store is constructed at process start with New and initialized
// once with Init; it is then handed to every consumer (CLI commands, the
// backup service, the interactive shell). There is no package-level instance.
//
// # Responsibilities
//
//   - Opening the SQLite database in the data directory and applying the
//     ordered, additive goose migrations (see internal/migrations).
//   - Seeding the singleton settings record with its defaults.
//   - Entry operations (create, partial update, toggles, delete, get, list)
//     with derived fields computed on write: word count, edit history,
//     updatedAt.
//   - Settings accessors with defaults applied on read.
//   - Administrative key enumeration and delete-by-key.
//   - Snapshot and ReplaceAll for the backup codec.
//
// # Transactions
//
// Every public operation runs as exactly one transaction through
// dbx.WithTx; the DSN requests BEGIN IMMEDIATE so read-then-write operations
// are serialized by SQLite. Nothing is retried internally.
//
// # Errors
//
// Init fails with ErrStorageUnavailable or ErrInitializationFailed; every
// other operation fails with ErrNotInitialized until Init has succeeded.
// Per-operation failures are wrapped with the operation name and entry id.
package storage
