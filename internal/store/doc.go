// Package store provides persistent storage for listkeep using SQLite.
//
// # Data Models
//
//   - Account: registered user with unique email and bcrypt credential
//   - List: task list with a polymorphic owner (anonymous token or account id)
//   - Task: list item with a done flag; owned transitively through its list
//   - Session: browser session carrying the two identity keys
//
// The polymorphic list owner is persisted as an explicit kind column plus one
// of two value columns, with a CHECK keeping exactly one value set. Go code
// only ever sees identity.OwnerRef, so no caller can compare the raw columns
// across kinds by accident.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// # Transactions
//
// WithTx exposes a transaction-bound view of the store. Lifecycle operations
// run their read-owner, authorize, write sequence inside one transaction,
// relying on SQLite's isolation rather than explicit locks.
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: requested entity does not exist
//   - ErrEmailExists: registration email already taken
//   - ErrNotTransferable: list ownership was already transferred
//
// All methods accept context.Context for cancellation support.
package store
