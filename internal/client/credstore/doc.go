// Package credstore persists the credentials of the current API session:
// the access token, the refresh token and the cached user record.
//
// # Backends
//
//   - MemoryStore: process-local map; the session ends with the process.
//   - SQLiteStore: a "credentials" table in a local SQLite file, created by
//     the goose migrations in internal/client/migrations.
//   - RedisStore: one Redis hash per session key, for clients that share a
//     session across processes.
//
// Open picks a backend from configuration.
//
// The Store contract is deliberately small (Get/Set/SetAll/Delete/Clear).
// Get returns (nil, nil) for a missing key so callers can treat "absent" and
// "empty" the same way.
package credstore
