// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskdeck Contributors

// Package postgres implements the task repository using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/taskdeck/taskdeck/internal/task"
)

// poolIface is the subset of pgxpool.Pool used by repositories.
// Satisfied by both *pgxpool.Pool and pgxmock.PgxPoolIface.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TaskRepository implements task.Repository using PostgreSQL. Ownership
// is enforced in the WHERE clause of every single-record query, so an
// unowned row is never observable.
type TaskRepository struct {
	pool poolIface
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool poolIface) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// Create persists a new task.
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tasks (id, title, description, status, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		t.ID.String(),
		t.Title,
		t.Description,
		string(t.Status),
		t.OwnerID.String(),
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return oops.Code("TASK_CREATE_FAILED").
			With("operation", "insert task").
			With("id", t.ID.String()).
			Wrap(err)
	}
	return nil
}

// GetOwned retrieves a task by ID if it belongs to ownerID.
func (r *TaskRepository) GetOwned(ctx context.Context, id, ownerID ulid.ULID) (*task.Task, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, description, status, owner_id, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND owner_id = $2
	`, id.String(), ownerID.String())

	t, err := r.scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TASK_NOT_FOUND").
			With("id", id.String()).
			Wrap(task.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("TASK_GET_FAILED").
			With("operation", "get owned task").
			With("id", id.String()).
			Wrap(err)
	}
	return t, nil
}

// ListByOwner returns all of ownerID's tasks ordered by ID. ULIDs sort
// by creation time, which preserves storage order.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID ulid.ULID) ([]*task.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, description, status, owner_id, created_at, updated_at
		FROM tasks
		WHERE owner_id = $1
		ORDER BY id
	`, ownerID.String())
	if err != nil {
		return nil, oops.Code("TASK_LIST_FAILED").
			With("operation", "query tasks by owner").
			Wrap(err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := r.scanTask(rows)
		if err != nil {
			return nil, oops.Code("TASK_LIST_FAILED").
				With("operation", "scan task row").
				Wrap(err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("TASK_LIST_FAILED").
			With("operation", "iterate task rows").
			Wrap(err)
	}
	return tasks, nil
}

// Update modifies an existing task, matching on both ID and owner.
func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE tasks SET
			title = $3,
			description = $4,
			status = $5,
			updated_at = $6
		WHERE id = $1 AND owner_id = $2
	`,
		t.ID.String(),
		t.OwnerID.String(),
		t.Title,
		t.Description,
		string(t.Status),
		t.UpdatedAt,
	)
	if err != nil {
		return oops.Code("TASK_UPDATE_FAILED").
			With("operation", "update task").
			With("id", t.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TASK_NOT_FOUND").
			With("id", t.ID.String()).
			Wrap(task.ErrNotFound)
	}
	return nil
}

// DeleteOwned removes a task by ID if it belongs to ownerID.
func (r *TaskRepository) DeleteOwned(ctx context.Context, id, ownerID ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM tasks WHERE id = $1 AND owner_id = $2
	`, id.String(), ownerID.String())
	if err != nil {
		return oops.Code("TASK_DELETE_FAILED").
			With("operation", "delete owned task").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TASK_NOT_FOUND").
			With("id", id.String()).
			Wrap(task.ErrNotFound)
	}
	return nil
}

// scanTask scans a single row into a Task.
// Callers are responsible for handling pgx.ErrNoRows.
func (r *TaskRepository) scanTask(row pgx.Row) (*task.Task, error) {
	var (
		idStr       string
		title       string
		description *string
		statusStr   string
		ownerIDStr  string
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(&idStr, &title, &description, &statusStr, &ownerIDStr, &createdAt, &updatedAt)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("TASK_SCAN_FAILED").
			With("operation", "scan task").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("TASK_INVALID_ID").
			With("operation", "parse task id").
			With("id", idStr).
			Wrap(err)
	}

	ownerID, err := ulid.Parse(ownerIDStr)
	if err != nil {
		return nil, oops.Code("TASK_INVALID_OWNER_ID").
			With("operation", "parse owner id").
			With("owner_id", ownerIDStr).
			Wrap(err)
	}

	return &task.Task{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      task.Status(statusStr),
		OwnerID:     ownerID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// Compile-time interface check.
var _ task.Repository = (*TaskRepository)(nil)
