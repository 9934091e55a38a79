// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskdeck Contributors

package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/oops"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/observability"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/task"
)

// API holds the handlers for the REST surface. Construct with NewAPI and
// mount the result of Routes on a Server.
type API struct {
	auth    *auth.Service
	tasks   *task.Service
	guard   *auth.Guard
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Config carries the dependencies for NewAPI. Metrics may be nil when
// the observability server is disabled.
type Config struct {
	Auth    *auth.Service
	Tasks   *task.Service
	Guard   *auth.Guard
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// NewAPI creates the API handler set.
func NewAPI(cfg Config) (*API, error) {
	if cfg.Auth == nil {
		return nil, oops.Errorf("auth service is required")
	}
	if cfg.Tasks == nil {
		return nil, oops.Errorf("task service is required")
	}
	if cfg.Guard == nil {
		return nil, oops.Errorf("guard is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		auth:    cfg.Auth,
		tasks:   cfg.Tasks,
		guard:   cfg.Guard,
		logger:  logger,
		metrics: cfg.Metrics,
	}, nil
}

// Routes builds the handler for the full REST surface.
func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /user/register", a.instrument("/user/register", a.handleRegister))
	mux.HandleFunc("POST /auth/login", a.instrument("/auth/login", a.handleLogin))
	mux.HandleFunc("POST /auth/logout", a.instrument("/auth/logout", a.handleLogout))
	mux.HandleFunc("GET /user/profile", a.instrument("/user/profile", a.requireAuth(a.handleProfile)))

	mux.HandleFunc("POST /tasks", a.instrument("/tasks", a.requireAuth(a.handleCreateTask)))
	mux.HandleFunc("GET /tasks", a.instrument("/tasks", a.requireAuth(a.handleListTasks)))
	mux.HandleFunc("GET /tasks/{id}", a.instrument("/tasks/{id}", a.requireAuth(a.handleGetTask)))
	mux.HandleFunc("PATCH /tasks/{id}", a.instrument("/tasks/{id}", a.requireAuth(a.handleUpdateTask)))
	mux.HandleFunc("DELETE /tasks/{id}", a.instrument("/tasks/{id}", a.requireAuth(a.handleDeleteTask)))

	return mux
}

// userResponse is the public view of a user. The password hash never
// leaves the auth package boundary.
type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(u *auth.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// taskResponse is the public view of a task.
type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toTaskResponse(t *task.Task) taskResponse {
	return taskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		OwnerID:     t.OwnerID.String(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	user, err := a.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	token, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if status, _ := classifyError(err); status == http.StatusUnauthorized {
			observability.RecordAuthFailure("invalid_credentials")
		}
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"accessToken": token})
}

// handleLogout is a server-side no-op. Tokens are stateless; the client
// discards its copy and the token simply ages out.
func (a *API) handleLogout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (a *API) handleProfile(w http.ResponseWriter, r *http.Request) {
	identity := mustIdentity(r.Context())

	writeJSON(w, http.StatusOK, map[string]string{
		"id":    identity.UserID.String(),
		"email": identity.Email,
	})
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (a *API) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	identity := mustIdentity(r.Context())

	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	params := task.CreateParams{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := task.Status(*req.Status)
		params.Status = &status
	}

	created, err := a.tasks.Create(r.Context(), identity, params)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskResponse(created))
}

func (a *API) handleListTasks(w http.ResponseWriter, r *http.Request) {
	identity := mustIdentity(r.Context())

	tasks, err := a.tasks.List(r.Context(), identity)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleGetTask(w http.ResponseWriter, r *http.Request) {
	identity := mustIdentity(r.Context())

	id, err := store.ParseULID(r.PathValue("id"))
	if err != nil {
		// A malformed ID is as good as an unknown one.
		a.writeError(w, r, task.ErrNotFound)
		return
	}

	found, err := a.tasks.Get(r.Context(), identity, id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(found))
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (a *API) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	identity := mustIdentity(r.Context())

	id, err := store.ParseULID(r.PathValue("id"))
	if err != nil {
		a.writeError(w, r, task.ErrNotFound)
		return
	}

	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	params := task.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := task.Status(*req.Status)
		params.Status = &status
	}

	updated, err := a.tasks.Update(r.Context(), identity, id, params)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(updated))
}

func (a *API) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	identity := mustIdentity(r.Context())

	id, err := store.ParseULID(r.PathValue("id"))
	if err != nil {
		a.writeError(w, r, task.ErrNotFound)
		return
	}

	if err := a.tasks.Delete(r.Context(), identity, id); err != nil {
		a.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeJSON reads a request body into dst, rejecting unparseable input.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &task.ValidationError{Field: "body", Message: "malformed JSON"}
	}
	return nil
}
