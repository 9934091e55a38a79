// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskdeck Contributors

// Package authtest provides in-memory test doubles for auth.
package authtest

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/taskdeck/taskdeck/internal/auth"
)

// UserRepo is an in-memory auth.UserRepository for tests.
type UserRepo struct {
	mu    sync.Mutex
	byID  map[ulid.ULID]*auth.User
	Fail  error // when set, every call returns this error
	Calls int
}

// NewUserRepo creates an empty in-memory user repository.
func NewUserRepo() *UserRepo {
	return &UserRepo{byID: make(map[ulid.ULID]*auth.User)}
}

// Create stores a user, enforcing email uniqueness like the real store.
func (r *UserRepo) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if r.Fail != nil {
		return r.Fail
	}
	for _, existing := range r.byID {
		if existing.Email == user.Email {
			return auth.ErrDuplicateEmail
		}
	}
	clone := *user
	r.byID[user.ID] = &clone
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(_ context.Context, id ulid.ULID) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if r.Fail != nil {
		return nil, r.Fail
	}
	user, ok := r.byID[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

// GetByEmail retrieves a user by exact email match.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if r.Fail != nil {
		return nil, r.Fail
	}
	for _, user := range r.byID {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, auth.ErrNotFound
}

// Compile-time interface check.
var _ auth.UserRepository = (*UserRepo)(nil)
