// ABOUTME: List persistence including the polymorphic owner columns
// ABOUTME: Owner is stored as explicit kind+value, transfer rewrites token form to account form

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/listkeep/listkeep/internal/identity"
)

const listColumns = "id, owner_kind, owner_token, owner_account_id, name, created_at"

// ownerColumns maps an OwnerRef onto the three owner columns. Exactly one of
// token/accountID is non-NULL, enforced again by a table CHECK.
func ownerColumns(owner identity.OwnerRef) (kind string, token, accountID any, err error) {
	switch owner.Kind() {
	case identity.OwnerAnonymous:
		return "anonymous", owner.Token(), nil, nil
	case identity.OwnerAccount:
		return "account", nil, owner.AccountID(), nil
	default:
		return "", nil, nil, fmt.Errorf("list owner kind is unset")
	}
}

func scanOwner(kind string, token sql.NullString, accountID sql.NullInt64) (identity.OwnerRef, error) {
	switch kind {
	case "anonymous":
		return identity.AnonymousOwner(token.String), nil
	case "account":
		return identity.AccountOwner(accountID.Int64), nil
	default:
		return identity.OwnerRef{}, fmt.Errorf("unknown owner kind %q", kind)
	}
}

// CreateList inserts a new list and fills in its generated id.
func (s *SQLiteStore) CreateList(ctx context.Context, list *List) error {
	kind, token, accountID, err := ownerColumns(list.Owner)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO lists (owner_kind, owner_token, owner_account_id, name, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := s.q.ExecContext(ctx, query,
		kind,
		token,
		accountID,
		list.Name,
		list.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting list: %w", err)
	}

	list.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading list id: %w", err)
	}

	s.logger.Info("created list", "id", list.ID, "owner_kind", kind, "name", list.Name)
	return nil
}

// GetList retrieves a list by id.
func (s *SQLiteStore) GetList(ctx context.Context, id int64) (*List, error) {
	query := `SELECT ` + listColumns + ` FROM lists WHERE id = ?`
	return scanList(s.q.QueryRowContext(ctx, query, id))
}

// FindListByToken returns the list owned by an anonymous token. One list per
// token is a lookup-or-create convention, not a uniqueness constraint, so the
// oldest list wins if the convention was ever violated.
func (s *SQLiteStore) FindListByToken(ctx context.Context, token string) (*List, error) {
	query := `
		SELECT ` + listColumns + `
		FROM lists
		WHERE owner_kind = 'anonymous' AND owner_token = ?
		ORDER BY id ASC
		LIMIT 1
	`
	return scanList(s.q.QueryRowContext(ctx, query, token))
}

// ListsByAccount returns all lists owned by an account, oldest first.
func (s *SQLiteStore) ListsByAccount(ctx context.Context, accountID int64) ([]*List, error) {
	query := `
		SELECT ` + listColumns + `
		FROM lists
		WHERE owner_kind = 'account' AND owner_account_id = ?
		ORDER BY id ASC
	`

	rows, err := s.q.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("querying lists: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var lists []*List
	for rows.Next() {
		list, err := scanListRow(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lists: %w", err)
	}
	return lists, nil
}

// AllLists returns every list regardless of owner, oldest first. Admin use only.
func (s *SQLiteStore) AllLists(ctx context.Context) ([]*List, error) {
	query := `SELECT ` + listColumns + ` FROM lists ORDER BY id ASC`

	rows, err := s.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying lists: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var lists []*List
	for rows.Next() {
		list, err := scanListRow(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lists: %w", err)
	}
	return lists, nil
}

// RenameList updates a list's name.
func (s *SQLiteStore) RenameList(ctx context.Context, id int64, name string) error {
	result, err := s.q.ExecContext(ctx, `UPDATE lists SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("renaming list: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Info("renamed list", "id", id, "name", name)
	return nil
}

// TransferListOwner rewrites a list's owner from anonymous-token form to
// account-id form. The WHERE clause only matches anonymous-owned rows, so the
// transfer happens at most once per list regardless of concurrent callers.
func (s *SQLiteStore) TransferListOwner(ctx context.Context, id, accountID int64) error {
	query := `
		UPDATE lists
		SET owner_kind = 'account', owner_token = NULL, owner_account_id = ?
		WHERE id = ? AND owner_kind = 'anonymous'
	`

	result, err := s.q.ExecContext(ctx, query, accountID, id)
	if err != nil {
		return fmt.Errorf("transferring list owner: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		if _, err := s.GetList(ctx, id); errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return ErrNotTransferable
	}

	s.logger.Info("transferred list ownership", "id", id, "account_id", accountID)
	return nil
}

func scanList(row *sql.Row) (*List, error) {
	var list List
	var kind, createdAtStr string
	var token sql.NullString
	var accountID sql.NullInt64

	err := row.Scan(&list.ID, &kind, &token, &accountID, &list.Name, &createdAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying list: %w", err)
	}

	return finishList(&list, kind, token, accountID, createdAtStr)
}

func scanListRow(rows *sql.Rows) (*List, error) {
	var list List
	var kind, createdAtStr string
	var token sql.NullString
	var accountID sql.NullInt64

	if err := rows.Scan(&list.ID, &kind, &token, &accountID, &list.Name, &createdAtStr); err != nil {
		return nil, fmt.Errorf("scanning list: %w", err)
	}

	return finishList(&list, kind, token, accountID, createdAtStr)
}

func finishList(list *List, kind string, token sql.NullString, accountID sql.NullInt64, createdAtStr string) (*List, error) {
	owner, err := scanOwner(kind, token, accountID)
	if err != nil {
		return nil, err
	}
	list.Owner = owner

	list.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return list, nil
}
