// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskdeck Contributors

// Package tasktest provides in-memory test doubles for task.
package tasktest

import (
	"context"
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/taskdeck/taskdeck/internal/task"
)

// Repo is an in-memory task.Repository for tests. It mirrors the
// ownership semantics of the PostgreSQL implementation: single-record
// lookups match on both ID and owner.
type Repo struct {
	mu   sync.Mutex
	byID map[ulid.ULID]*task.Task
	Fail error // when set, every call returns this error
}

// NewRepo creates an empty in-memory task repository.
func NewRepo() *Repo {
	return &Repo{byID: make(map[ulid.ULID]*task.Task)}
}

// Create persists a new task.
func (r *Repo) Create(_ context.Context, t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return r.Fail
	}
	clone := *t
	r.byID[t.ID] = &clone
	return nil
}

// GetOwned retrieves a task by ID if it belongs to ownerID.
func (r *Repo) GetOwned(_ context.Context, id, ownerID ulid.ULID) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return nil, r.Fail
	}
	t, ok := r.byID[id]
	if !ok || t.OwnerID != ownerID {
		return nil, task.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

// ListByOwner returns all of ownerID's tasks ordered by ID.
func (r *Repo) ListByOwner(_ context.Context, ownerID ulid.ULID) ([]*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return nil, r.Fail
	}
	tasks := []*task.Task{}
	for _, t := range r.byID {
		if t.OwnerID == ownerID {
			clone := *t
			tasks = append(tasks, &clone)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].ID.Compare(tasks[j].ID) < 0
	})
	return tasks, nil
}

// Update modifies an existing owned task.
func (r *Repo) Update(_ context.Context, t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return r.Fail
	}
	existing, ok := r.byID[t.ID]
	if !ok || existing.OwnerID != t.OwnerID {
		return task.ErrNotFound
	}
	clone := *t
	r.byID[t.ID] = &clone
	return nil
}

// DeleteOwned removes a task by ID if it belongs to ownerID.
func (r *Repo) DeleteOwned(_ context.Context, id, ownerID ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return r.Fail
	}
	t, ok := r.byID[id]
	if !ok || t.OwnerID != ownerID {
		return task.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// Stored returns the currently stored task by ID, bypassing ownership.
// Test-only accessor for asserting that failed writes left state intact.
func (r *Repo) Stored(id ulid.ULID) *task.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil
	}
	clone := *t
	return &clone
}

// Compile-time interface check.
var _ task.Repository = (*Repo)(nil)
