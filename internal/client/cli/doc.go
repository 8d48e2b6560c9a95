// Package cli provides the interactive CineBook command-line client.
//
// It wires configuration, the credential store, the API dispatchers, the
// session controller and the domain services behind a small REPL. The
// session survives restarts when a persistent credential store is
// configured; an expired session drops the user back to the login prompt.
//
// Key features:
//   - Register / Login / Logout
//   - Browse movies and free seats
//   - Book seats, list and cancel bookings, view tickets
//   - View and edit the profile
//   - Background online/offline indicator
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
