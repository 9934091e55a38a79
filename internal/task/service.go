// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskdeck Contributors

package task

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/store"
)

// Service provides ownership-scoped task operations. Every call is
// constrained to tasks owned by the caller's identity; there is no way
// to address another user's records through this API.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new Service.
func NewService(repo Repository) (*Service, error) {
	if repo == nil {
		return nil, oops.Errorf("task repository is required")
	}
	return &Service{repo: repo, now: time.Now}, nil
}

// CreateParams are the caller-suppliable fields for a new task. There is
// deliberately no owner field: ownership always comes from the
// authenticated identity.
type CreateParams struct {
	Title       string
	Description *string
	Status      *Status
}

// UpdateParams are the mutable fields of a task. Nil fields are left
// unchanged; OwnerID is never reassignable.
type UpdateParams struct {
	Title       *string
	Description *string
	Status      *Status
}

// Create persists a new task owned by the caller. Status defaults to
// pending and description to absent.
func (s *Service) Create(ctx context.Context, identity auth.Identity, params CreateParams) (*Task, error) {
	if err := ValidateTitle(params.Title); err != nil {
		return nil, err
	}
	if err := ValidateDescription(params.Description); err != nil {
		return nil, err
	}

	status := StatusPending
	if params.Status != nil {
		status = *params.Status
		if !status.Valid() {
			return nil, oops.Code("TASK_INVALID_STATUS").
				With("status", string(status)).
				Wrap(ErrInvalidStatus)
		}
	}

	now := s.now()
	t := &Task{
		ID:          store.NewULID(),
		Title:       params.Title,
		Description: params.Description,
		Status:      status,
		OwnerID:     identity.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, oops.Code("TASK_CREATE_FAILED").
			With("operation", "create task").
			Wrap(err)
	}
	return t, nil
}

// List returns the caller's tasks in storage order. It never returns
// another user's tasks.
func (s *Service) List(ctx context.Context, identity auth.Identity) ([]*Task, error) {
	tasks, err := s.repo.ListByOwner(ctx, identity.UserID)
	if err != nil {
		return nil, oops.Code("TASK_LIST_FAILED").
			With("operation", "list tasks by owner").
			Wrap(err)
	}
	return tasks, nil
}

// Get retrieves one of the caller's tasks. A task that exists but
// belongs to someone else fails with ErrNotFound, exactly like a task
// that does not exist.
func (s *Service) Get(ctx context.Context, identity auth.Identity, id ulid.ULID) (*Task, error) {
	t, err := s.repo.GetOwned(ctx, id, identity.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("TASK_NOT_FOUND").
				With("task_id", id.String()).
				Wrap(ErrNotFound)
		}
		return nil, oops.Code("TASK_GET_FAILED").
			With("operation", "get owned task").
			Wrap(err)
	}
	return t, nil
}

// Update modifies title, description, and/or status of one of the
// caller's tasks. Validation happens before any write, so a failed
// update leaves the stored record untouched.
func (s *Service) Update(ctx context.Context, identity auth.Identity, id ulid.ULID, params UpdateParams) (*Task, error) {
	if params.Title != nil {
		if err := ValidateTitle(*params.Title); err != nil {
			return nil, err
		}
	}
	if err := ValidateDescription(params.Description); err != nil {
		return nil, err
	}
	if params.Status != nil && !params.Status.Valid() {
		return nil, oops.Code("TASK_INVALID_STATUS").
			With("status", string(*params.Status)).
			Wrap(ErrInvalidStatus)
	}

	t, err := s.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		t.Title = *params.Title
	}
	if params.Description != nil {
		t.Description = params.Description
	}
	if params.Status != nil {
		t.Status = *params.Status
	}
	t.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("TASK_NOT_FOUND").
				With("task_id", id.String()).
				Wrap(ErrNotFound)
		}
		return nil, oops.Code("TASK_UPDATE_FAILED").
			With("operation", "update task").
			Wrap(err)
	}
	return t, nil
}

// Delete removes one of the caller's tasks. Deleting an absent or
// someone else's task fails with ErrNotFound.
func (s *Service) Delete(ctx context.Context, identity auth.Identity, id ulid.ULID) error {
	err := s.repo.DeleteOwned(ctx, id, identity.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("TASK_NOT_FOUND").
				With("task_id", id.String()).
				Wrap(ErrNotFound)
		}
		return oops.Code("TASK_DELETE_FAILED").
			With("operation", "delete owned task").
			Wrap(err)
	}
	return nil
}
