// ABOUTME: Lifecycle service orchestrating list/task operations behind the access guard
// ABOUTME: Every guarded mutation runs its read-owner, authorize, write sequence in one transaction

package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/listkeep/listkeep/internal/authz"
	"github.com/listkeep/listkeep/internal/creds"
	"github.com/listkeep/listkeep/internal/identity"
	"github.com/listkeep/listkeep/internal/store"
)

// DefaultListName is the name given to the lazily created first list.
const DefaultListName = "My list"

// ErrBadCredentials is returned on login failure. It does not distinguish
// unknown email from wrong password.
var ErrBadCredentials = errors.New("invalid email or password")

// Service orchestrates list and task operations. All ownership checks route
// through authz; no method compares identities itself.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

// NewService creates a lifecycle service.
func NewService(st store.Store) *Service {
	return &Service{
		store:  st,
		logger: slog.Default().With("component", "lifecycle"),
	}
}

// EnsureDefaultList returns the anonymous actor's list, creating it on first
// visit. This flow is self-scoped: the list is looked up by the actor's own
// token, so the guard has nothing to check.
func (s *Service) EnsureDefaultList(ctx context.Context, actor identity.Actor) (*store.List, error) {
	if !actor.Resolved() {
		return nil, authz.ErrUnauthorized
	}
	if actor.Kind() != identity.KindAnonymous {
		return nil, authz.ErrForbidden
	}

	var list *store.List
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		found, err := tx.FindListByToken(ctx, actor.Token())
		if err == nil {
			list = found
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		list = &store.List{
			Owner:     actor.Owner(),
			Name:      DefaultListName,
			CreatedAt: time.Now(),
		}
		return tx.CreateList(ctx, list)
	})
	if err != nil {
		return nil, fmt.Errorf("ensuring default list: %w", err)
	}
	return list, nil
}

// Lists returns all lists owned by an authenticated actor.
func (s *Service) Lists(ctx context.Context, actor identity.Actor) ([]*store.List, error) {
	if !actor.Resolved() {
		return nil, authz.ErrUnauthorized
	}
	if actor.Kind() != identity.KindAuthenticated {
		return nil, authz.ErrForbidden
	}
	return s.store.ListsByAccount(ctx, actor.UserID())
}

// ViewList returns a list and its tasks, provided the actor owns it.
func (s *Service) ViewList(ctx context.Context, actor identity.Actor, listID int64) (*store.List, []*store.Task, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, nil, err
	}
	if err := authz.Check(actor, list.Owner); err != nil {
		return nil, nil, err
	}

	tasks, err := s.store.TasksByList(ctx, listID)
	if err != nil {
		return nil, nil, err
	}
	return list, tasks, nil
}

// Tasks returns a list's tasks without an ownership check. Callers must have
// authorized the list already; prefer ViewList.
func (s *Service) Tasks(ctx context.Context, listID int64) ([]*store.Task, error) {
	return s.store.TasksByList(ctx, listID)
}

// CreateList creates a named list for an authenticated actor. Anonymous
// actors only ever get the single auto-created default list.
func (s *Service) CreateList(ctx context.Context, actor identity.Actor, name string) (*store.List, error) {
	if !actor.Resolved() {
		return nil, authz.ErrUnauthorized
	}
	if actor.Kind() != identity.KindAuthenticated {
		return nil, authz.ErrForbidden
	}

	list := &store.List{
		Owner:     actor.Owner(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateList(ctx, list); err != nil {
		return nil, fmt.Errorf("creating list: %w", err)
	}
	return list, nil
}

// AddTask appends an open task to a list the actor owns.
func (s *Service) AddTask(ctx context.Context, actor identity.Actor, listID int64, name string) (*store.Task, error) {
	var task *store.Task
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		list, err := tx.GetList(ctx, listID)
		if err != nil {
			return err
		}
		if err := authz.Check(actor, list.Owner); err != nil {
			return err
		}

		task = &store.Task{
			ListID:    list.ID,
			Name:      name,
			Done:      false,
			CreatedAt: time.Now(),
		}
		return tx.CreateTask(ctx, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ToggleTask flips a task's done flag, provided the actor owns the parent
// list. Toggling twice restores the original state.
func (s *Service) ToggleTask(ctx context.Context, actor identity.Actor, taskID int64) (*store.Task, error) {
	var task *store.Task
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		var err error
		task, err = tx.GetTask(ctx, taskID)
		if err != nil {
			return err
		}

		list, err := tx.GetList(ctx, task.ListID)
		if err != nil {
			return err
		}
		if err := authz.Check(actor, list.Owner); err != nil {
			return err
		}

		task.Done = !task.Done
		return tx.SetTaskDone(ctx, task.ID, task.Done)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task, provided the actor owns the parent list.
// Returns the parent list id for post-delete navigation.
func (s *Service) DeleteTask(ctx context.Context, actor identity.Actor, taskID int64) (int64, error) {
	var listID int64
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		task, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return err
		}

		list, err := tx.GetList(ctx, task.ListID)
		if err != nil {
			return err
		}
		if err := authz.Check(actor, list.Owner); err != nil {
			return err
		}

		listID = list.ID
		return tx.DeleteTask(ctx, task.ID)
	})
	if err != nil {
		return 0, err
	}
	return listID, nil
}

// RenameList updates a list's name. Renaming is an authenticated-only
// operation on top of the ownership check.
func (s *Service) RenameList(ctx context.Context, actor identity.Actor, listID int64, name string) error {
	if !actor.Resolved() {
		return authz.ErrUnauthorized
	}
	if actor.Kind() != identity.KindAuthenticated {
		return authz.ErrForbidden
	}

	return s.store.WithTx(ctx, func(tx store.Store) error {
		list, err := tx.GetList(ctx, listID)
		if err != nil {
			return err
		}
		if err := authz.Check(actor, list.Owner); err != nil {
			return err
		}
		return tx.RenameList(ctx, list.ID, name)
	})
}

// Register creates an account and, when the registering actor was anonymous
// and holds a list, transfers that list's ownership to the new account in the
// same transaction. A duplicate email aborts everything with
// store.ErrEmailExists.
func (s *Service) Register(ctx context.Context, actor identity.Actor, displayName, email, password string) (*store.Account, error) {
	hash, err := creds.Hash(password)
	if err != nil {
		return nil, err
	}

	account := &store.Account{
		DisplayName:  displayName,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	err = s.store.WithTx(ctx, func(tx store.Store) error {
		if err := tx.CreateAccount(ctx, account); err != nil {
			return err
		}
		return s.adoptAnonymousList(ctx, tx, actor, account.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("registered account", "id", account.ID)
	return account, nil
}

// Login verifies credentials and, when the logging-in actor was anonymous and
// holds a list, transfers that list to the account. The unknown-email path
// burns a dummy hash comparison so timing does not reveal which emails exist.
func (s *Service) Login(ctx context.Context, actor identity.Actor, email, password string) (*store.Account, error) {
	account, err := s.store.GetAccountByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		creds.VerifyDummy(password)
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}

	if !creds.Verify(account.PasswordHash, password) {
		return nil, ErrBadCredentials
	}

	err = s.store.WithTx(ctx, func(tx store.Store) error {
		return s.adoptAnonymousList(ctx, tx, actor, account.ID)
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// adoptAnonymousList performs the one-time ownership transfer for an
// anonymous actor crossing into an account. No-op when the actor is not
// anonymous or never created a list.
func (s *Service) adoptAnonymousList(ctx context.Context, tx store.Store, actor identity.Actor, accountID int64) error {
	if actor.Kind() != identity.KindAnonymous {
		return nil
	}

	list, err := tx.FindListByToken(ctx, actor.Token())
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := tx.TransferListOwner(ctx, list.ID, accountID); err != nil {
		return fmt.Errorf("adopting anonymous list: %w", err)
	}

	s.logger.Info("adopted anonymous list", "list_id", list.ID, "account_id", accountID)
	return nil
}
