// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskdeck Contributors

package task

import "errors"

var (
	// ErrNotFound is returned when a task does not exist or is owned by
	// someone else. The two cases are deliberately indistinguishable so
	// task IDs cannot be enumerated across users.
	ErrNotFound = errors.New("task not found")

	// ErrInvalidStatus is returned when a status value is outside the
	// three-state enum.
	ErrInvalidStatus = errors.New("invalid task status")
)
