// ABOUTME: Task persistence methods for the SQLite store
// ABOUTME: Standard CRUD scoped by list_id

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateTask inserts a new task and fills in its generated id.
func (s *SQLiteStore) CreateTask(ctx context.Context, task *Task) error {
	query := `
		INSERT INTO tasks (list_id, name, done, created_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := s.q.ExecContext(ctx, query,
		task.ListID,
		task.Name,
		task.Done,
		task.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}

	task.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading task id: %w", err)
	}

	s.logger.Info("created task", "id", task.ID, "list_id", task.ListID)
	return nil
}

// GetTask retrieves a task by id.
func (s *SQLiteStore) GetTask(ctx context.Context, id int64) (*Task, error) {
	query := `
		SELECT id, list_id, name, done, created_at
		FROM tasks
		WHERE id = ?
	`

	var task Task
	var createdAtStr string

	err := s.q.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.ListID,
		&task.Name,
		&task.Done,
		&createdAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}

	task.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &task, nil
}

// TasksByList returns a list's tasks in creation order.
func (s *SQLiteStore) TasksByList(ctx context.Context, listID int64) ([]*Task, error) {
	query := `
		SELECT id, list_id, name, done, created_at
		FROM tasks
		WHERE list_id = ?
		ORDER BY id ASC
	`

	rows, err := s.q.QueryContext(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*Task
	for rows.Next() {
		var task Task
		var createdAtStr string

		if err := rows.Scan(&task.ID, &task.ListID, &task.Name, &task.Done, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}

		task.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

// SetTaskDone writes a task's done flag.
func (s *SQLiteStore) SetTaskDone(ctx context.Context, id int64, done bool) error {
	result, err := s.q.ExecContext(ctx, `UPDATE tasks SET done = ? WHERE id = ?`, done, id)
	if err != nil {
		return fmt.Errorf("updating task done: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTask removes a task. Deleting an absent task is ErrNotFound.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Info("deleted task", "id", id)
	return nil
}
