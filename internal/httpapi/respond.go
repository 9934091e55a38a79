// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskdeck Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/samber/oops"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/task"
	"github.com/taskdeck/taskdeck/pkg/errutil"
)

// errorBody is the JSON shape of every non-2xx response.
type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // the status line is already out, the client may have disconnected
	json.NewEncoder(w).Encode(v)
}

// writeError maps a service error to an HTTP response. Internal failures
// are logged with their full context but surface as an opaque 500; domain
// errors keep their message.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classifyError(err)
	if status == http.StatusInternalServerError {
		logger := a.logger.With("method", r.Method, "path", r.URL.Path)
		errutil.LogError(logger, "request failed", err)
		message = "Internal server error"
	}
	writeJSON(w, status, errorBody{StatusCode: status, Message: message})
}

// classifyError translates domain errors into status codes. Credential
// and ownership failures deliberately carry no detail about which part
// of the check failed.
func classifyError(err error) (int, string) {
	var validationErr *task.ValidationError

	switch {
	case errors.Is(err, auth.ErrDuplicateEmail):
		return http.StatusBadRequest, "Email already registered"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, "Unauthenticated"
	case errors.Is(err, task.ErrNotFound):
		return http.StatusNotFound, "Task not found"
	case errors.Is(err, task.ErrInvalidStatus):
		return http.StatusBadRequest, "Invalid task status"
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	}

	if oopsErr, ok := oops.AsOops(err); ok {
		switch oopsErr.Code() {
		case "AUTH_INVALID_EMAIL", "AUTH_INVALID_PASSWORD":
			return http.StatusBadRequest, oopsErr.Error()
		}
	}

	return http.StatusInternalServerError, ""
}
