// ABOUTME: Store interface and data types for listkeep persistence
// ABOUTME: Defines Account, List, Task, Session structs and the Store interface

package store

import (
	"context"
	"errors"
	"time"

	"github.com/listkeep/listkeep/internal/identity"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when registering an email that already has an account.
var ErrEmailExists = errors.New("email already registered")

// ErrNotTransferable is returned when transferring a list that is no longer in
// anonymous-owner form. Ownership moves from token to account exactly once.
var ErrNotTransferable = errors.New("list ownership already transferred")

// Account is a registered user. The id is immutable; the email is unique.
type Account struct {
	ID           int64
	DisplayName  string
	Email        string
	PasswordHash string // bcrypt hash, opaque to everything but the creds package
	CreatedAt    time.Time
}

// List is a task list with a polymorphic owner: an anonymous session token or
// an account id, carried as an explicit kind+value pair rather than an
// implicitly typed column.
type List struct {
	ID        int64
	Owner     identity.OwnerRef
	Name      string
	CreatedAt time.Time
}

// Task belongs to a list. Its effective owner is always the parent list's
// owner; tasks have no independent ownership.
type Task struct {
	ID        int64
	ListID    int64
	Name      string
	Done      bool
	CreatedAt time.Time
}

// Session is a browser session row. It holds exactly two logical identity
// keys: the anonymous actor token and the authenticated account marker.
type Session struct {
	ID         string
	ActorToken string
	AccountID  *int64
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// Store defines the interface for listkeep persistence.
type Store interface {
	// Accounts
	CreateAccount(ctx context.Context, account *Account) error
	GetAccount(ctx context.Context, id int64) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	// AllAccounts returns every account, oldest first. Admin use only.
	AllAccounts(ctx context.Context) ([]*Account, error)

	// Lists
	CreateList(ctx context.Context, list *List) error
	GetList(ctx context.Context, id int64) (*List, error)
	// FindListByToken returns the at-most-one list owned by an anonymous token.
	FindListByToken(ctx context.Context, token string) (*List, error)
	// ListsByAccount returns all lists owned by an account, oldest first.
	ListsByAccount(ctx context.Context, accountID int64) ([]*List, error)
	// AllLists returns every list regardless of owner. Admin use only.
	AllLists(ctx context.Context) ([]*List, error)
	RenameList(ctx context.Context, id int64, name string) error
	// TransferListOwner rewrites a list's owner from anonymous-token form to
	// account-id form. Fails with ErrNotTransferable if the list is already
	// account-owned.
	TransferListOwner(ctx context.Context, id, accountID int64) error

	// Tasks
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, id int64) (*Task, error)
	TasksByList(ctx context.Context, listID int64) ([]*Task, error)
	SetTaskDone(ctx context.Context, id int64, done bool) error
	DeleteTask(ctx context.Context, id int64) error

	// Sessions
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	UpdateSession(ctx context.Context, session *Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context) error

	// WithTx runs fn against a transaction-bound view of the store. Guarded
	// mutations (read owner, authorize, write) execute inside one transaction
	// so two concurrent requests cannot both pass the guard before either
	// writes.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	// Close releases any resources held by the store.
	Close() error
}
