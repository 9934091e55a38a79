// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskdeck Contributors

package task

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// Repository manages task persistence. The *Owned methods fold the
// ownership check into the lookup itself so "not yours" and "does not
// exist" produce the same ErrNotFound.
type Repository interface {
	// Create persists a new task.
	Create(ctx context.Context, t *Task) error

	// GetOwned retrieves a task by ID if it belongs to ownerID.
	// Returns ErrNotFound (wrapped) otherwise.
	GetOwned(ctx context.Context, id, ownerID ulid.ULID) (*Task, error)

	// ListByOwner returns all of ownerID's tasks in storage order.
	ListByOwner(ctx context.Context, ownerID ulid.ULID) ([]*Task, error)

	// Update modifies an existing task's title, description, and status.
	// The row is matched on both ID and OwnerID; ErrNotFound (wrapped)
	// if no owned row matches.
	Update(ctx context.Context, t *Task) error

	// DeleteOwned removes a task by ID if it belongs to ownerID.
	// Returns ErrNotFound (wrapped) otherwise.
	DeleteOwned(ctx context.Context, id, ownerID ulid.ULID) error
}
