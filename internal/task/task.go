// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskdeck Contributors

// Package task provides ownership-scoped task management.
//
// Every operation takes the authenticated caller's identity and is
// constrained to tasks that identity owns. A task belonging to someone
// else is indistinguishable from a task that does not exist.
package task

import (
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
)

// MaxTitleLength bounds task titles.
const MaxTitleLength = 200

// MaxDescriptionLength bounds task descriptions.
const MaxDescriptionLength = 4000

// Status is the task workflow state. Membership in the enum is the only
// constraint; any status may move to any other.
type Status string

// Task workflow states.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the three workflow states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task represents a single tracked task. OwnerID is set at creation and
// never reassigned; Description is nil when absent.
type Task struct {
	ID          ulid.ULID
	Title       string
	Description *string
	Status      Status
	OwnerID     ulid.ULID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidationError represents an input validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateTitle checks that a task title is valid.
// Titles must be non-empty, valid UTF-8, free of control characters,
// and within the length limit.
func ValidateTitle(title string) error {
	if title == "" {
		return &ValidationError{Field: "title", Message: "cannot be empty"}
	}
	if !utf8.ValidString(title) {
		return &ValidationError{Field: "title", Message: "must be valid UTF-8"}
	}
	if len(title) > MaxTitleLength {
		return &ValidationError{Field: "title", Message: fmt.Sprintf("exceeds maximum length of %d", MaxTitleLength)}
	}
	if hasControlChars(title) {
		return &ValidationError{Field: "title", Message: "cannot contain control characters"}
	}
	return nil
}

// ValidateDescription checks that a task description is valid.
// A nil description is valid; it means the field is absent.
func ValidateDescription(description *string) error {
	if description == nil {
		return nil
	}
	if !utf8.ValidString(*description) {
		return &ValidationError{Field: "description", Message: "must be valid UTF-8"}
	}
	if len(*description) > MaxDescriptionLength {
		return &ValidationError{Field: "description", Message: fmt.Sprintf("exceeds maximum length of %d", MaxDescriptionLength)}
	}
	return nil
}

func hasControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
