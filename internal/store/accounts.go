// ABOUTME: Account persistence methods for the SQLite store
// ABOUTME: Create and lookup by id or unique email

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateAccount inserts a new account and fills in its generated id.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *Account) error {
	query := `
		INSERT INTO accounts (display_name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := s.q.ExecContext(ctx, query,
		account.DisplayName,
		account.Email,
		account.PasswordHash,
		account.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("inserting account: %w", err)
	}

	account.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading account id: %w", err)
	}

	s.logger.Info("created account", "id", account.ID, "email", account.Email)
	return nil
}

// GetAccount retrieves an account by id.
func (s *SQLiteStore) GetAccount(ctx context.Context, id int64) (*Account, error) {
	query := `
		SELECT id, display_name, email, password_hash, created_at
		FROM accounts
		WHERE id = ?
	`
	return s.scanAccount(s.q.QueryRowContext(ctx, query, id))
}

// GetAccountByEmail retrieves an account by its unique email.
func (s *SQLiteStore) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	query := `
		SELECT id, display_name, email, password_hash, created_at
		FROM accounts
		WHERE email = ?
	`
	return s.scanAccount(s.q.QueryRowContext(ctx, query, email))
}

// AllAccounts returns every account, oldest first. Admin use only.
func (s *SQLiteStore) AllAccounts(ctx context.Context) ([]*Account, error) {
	query := `
		SELECT id, display_name, email, password_hash, created_at
		FROM accounts
		ORDER BY id ASC
	`

	rows, err := s.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []*Account
	for rows.Next() {
		var account Account
		var createdAtStr string
		if err := rows.Scan(&account.ID, &account.DisplayName, &account.Email, &account.PasswordHash, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		account.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		accounts = append(accounts, &account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}
	return accounts, nil
}

func (s *SQLiteStore) scanAccount(row *sql.Row) (*Account, error) {
	var account Account
	var createdAtStr string

	err := row.Scan(
		&account.ID,
		&account.DisplayName,
		&account.Email,
		&account.PasswordHash,
		&createdAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying account: %w", err)
	}

	account.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &account, nil
}
