// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskdeck Contributors

package httpapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/auth/authtest"
	"github.com/taskdeck/taskdeck/internal/httpapi"
	"github.com/taskdeck/taskdeck/internal/task"
	"github.com/taskdeck/taskdeck/internal/task/tasktest"
)

var testSignKey = []byte("0123456789abcdef0123456789abcdef")

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	authSvc, err := auth.NewService(auth.ServiceConfig{
		Users:   authtest.NewUserRepo(),
		Hasher:  auth.NewArgon2idHasher(),
		SignKey: testSignKey,
	})
	require.NoError(t, err)

	guard, err := auth.NewGuard(testSignKey)
	require.NoError(t, err)

	taskSvc, err := task.NewService(tasktest.NewRepo())
	require.NoError(t, err)

	api, err := httpapi.NewAPI(httpapi.Config{
		Auth:  authSvc,
		Tasks: taskSvc,
		Guard: guard,
	})
	require.NoError(t, err)

	return api.Routes()
}

// do issues a request against the handler. A non-empty token is sent as
// a bearer credential; a nil body sends no payload.
func do(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func registerAndLogin(t *testing.T, handler http.Handler, email, password string) string {
	t.Helper()

	rec := do(t, handler, http.MethodPost, "/user/register", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, handler, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	token, ok := decodeBody(t, rec)["accessToken"].(string)
	require.True(t, ok, "login response missing accessToken")
	require.NotEmpty(t, token)
	return token
}

func TestRegister(t *testing.T) {
	handler := newTestHandler(t)

	t.Run("creates a user", func(t *testing.T) {
		rec := do(t, handler, http.MethodPost, "/user/register", "", map[string]string{
			"email": "alice@example.com", "password": "secret123",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		body := decodeBody(t, rec)
		assert.Equal(t, "alice@example.com", body["email"])
		assert.NotEmpty(t, body["id"])
		assert.NotContains(t, body, "passwordHash")
		assert.NotContains(t, rec.Body.String(), "secret123")
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		rec := do(t, handler, http.MethodPost, "/user/register", "", map[string]string{
			"email": "alice@example.com", "password": "different9",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Email already registered", decodeBody(t, rec)["message"])
	})

	t.Run("malformed email is rejected", func(t *testing.T) {
		rec := do(t, handler, http.MethodPost, "/user/register", "", map[string]string{
			"email": "not-an-email", "password": "secret123",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		rec := do(t, handler, http.MethodPost, "/user/register", "", map[string]string{
			"email": "bob@example.com", "password": "short",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed JSON is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/user/register", bytes.NewBufferString("{nope"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogin(t *testing.T) {
	handler := newTestHandler(t)
	registerAndLogin(t, handler, "carol@example.com", "secret123")

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		wrongPass := do(t, handler, http.MethodPost, "/auth/login", "", map[string]string{
			"email": "carol@example.com", "password": "wrongwrong",
		})
		unknown := do(t, handler, http.MethodPost, "/auth/login", "", map[string]string{
			"email": "nobody@example.com", "password": "secret123",
		})

		require.Equal(t, http.StatusUnauthorized, wrongPass.Code)
		require.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, wrongPass.Body.String(), unknown.Body.String())
	})
}

func TestLogout(t *testing.T) {
	handler := newTestHandler(t)

	rec := do(t, handler, http.MethodPost, "/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out successfully", decodeBody(t, rec)["message"])
}

func TestProfile(t *testing.T) {
	handler := newTestHandler(t)
	token := registerAndLogin(t, handler, "dave@example.com", "secret123")

	t.Run("returns the caller's identity", func(t *testing.T) {
		rec := do(t, handler, http.MethodGet, "/user/profile", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "dave@example.com", body["email"])
		assert.NotEmpty(t, body["id"])
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		rec := do(t, handler, http.MethodGet, "/user/profile", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		rec := do(t, handler, http.MethodGet, "/user/profile", "not.a.token", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestTaskLifecycle(t *testing.T) {
	handler := newTestHandler(t)
	token := registerAndLogin(t, handler, "a@x.com", "secret123")

	// Create with only a title: status defaults, description stays null.
	rec := do(t, handler, http.MethodPost, "/tasks", token, map[string]any{
		"title": "buy milk", "description": nil,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeBody(t, rec)
	taskID, _ := created["id"].(string)
	require.NotEmpty(t, taskID)
	assert.Equal(t, "pending", created["status"])
	assert.Nil(t, created["description"])

	profile := decodeBody(t, do(t, handler, http.MethodGet, "/user/profile", token, nil))
	assert.Equal(t, profile["id"], created["ownerId"])

	// The list holds exactly the one task.
	rec = do(t, handler, http.MethodGet, "/tasks", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, taskID, list[0]["id"])

	// Fetch it back byte-identical on submitted fields.
	rec = do(t, handler, http.MethodGet, "/tasks/"+taskID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeBody(t, rec)
	assert.Equal(t, "buy milk", fetched["title"])
	assert.Nil(t, fetched["description"])
	assert.Equal(t, "pending", fetched["status"])

	// Partial update.
	rec = do(t, handler, http.MethodPatch, "/tasks/"+taskID, token, map[string]string{
		"status": "in_progress",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "in_progress", decodeBody(t, rec)["status"])
	assert.Equal(t, "buy milk", decodeBody(t, rec)["title"])

	// An out-of-enum status is rejected and changes nothing.
	rec = do(t, handler, http.MethodPatch, "/tasks/"+taskID, token, map[string]string{
		"status": "archived",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid task status", decodeBody(t, rec)["message"])

	rec = do(t, handler, http.MethodGet, "/tasks/"+taskID, token, nil)
	assert.Equal(t, "in_progress", decodeBody(t, rec)["status"])

	// Delete, then the task is gone.
	rec = do(t, handler, http.MethodDelete, "/tasks/"+taskID, token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, handler, http.MethodGet, "/tasks/"+taskID, token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", decodeBody(t, rec)["message"])
}

func TestTaskOwnership(t *testing.T) {
	handler := newTestHandler(t)
	aliceToken := registerAndLogin(t, handler, "alice@x.com", "secret123")
	bobToken := registerAndLogin(t, handler, "bob@x.com", "secret123")

	rec := do(t, handler, http.MethodPost, "/tasks", aliceToken, map[string]string{
		"title": "alice's secret plan",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	taskID, _ := decodeBody(t, rec)["id"].(string)

	notFoundBody := ""
	for _, probe := range []struct {
		method string
		body   any
	}{
		{http.MethodGet, nil},
		{http.MethodPatch, map[string]string{"title": "defaced"}},
		{http.MethodDelete, nil},
	} {
		rec := do(t, handler, probe.method, "/tasks/"+taskID, bobToken, probe.body)
		require.Equal(t, http.StatusNotFound, rec.Code,
			fmt.Sprintf("%s should look absent to a non-owner", probe.method))
		assert.NotContains(t, rec.Body.String(), "secret plan")
		if notFoundBody == "" {
			notFoundBody = rec.Body.String()
		} else {
			assert.Equal(t, notFoundBody, rec.Body.String())
		}
	}

	// Bob's list stays empty and alice's task is untouched.
	var bobList []map[string]any
	rec = do(t, handler, http.MethodGet, "/tasks", bobToken, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bobList))
	assert.Empty(t, bobList)

	rec = do(t, handler, http.MethodGet, "/tasks/"+taskID, aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice's secret plan", decodeBody(t, rec)["title"])
}

func TestTaskOwnerFieldIgnored(t *testing.T) {
	handler := newTestHandler(t)
	token := registerAndLogin(t, handler, "eve@x.com", "secret123")

	// A caller-supplied owner field must not override the token identity.
	rec := do(t, handler, http.MethodPost, "/tasks", token, map[string]string{
		"title":   "mine anyway",
		"ownerId": "01HZZZZZZZZZZZZZZZZZZZZZZZ",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	profile := decodeBody(t, do(t, handler, http.MethodGet, "/user/profile", token, nil))
	assert.Equal(t, profile["id"], decodeBody(t, rec)["ownerId"])
}

func TestTaskMalformedID(t *testing.T) {
	handler := newTestHandler(t)
	token := registerAndLogin(t, handler, "frank@x.com", "secret123")

	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		rec := do(t, handler, method, "/tasks/not-a-ulid", token, map[string]string{"title": "x"})
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
	}
}

func TestTasksRequireAuth(t *testing.T) {
	handler := newTestHandler(t)

	routes := []struct {
		method, path string
	}{
		{http.MethodPost, "/tasks"},
		{http.MethodGet, "/tasks"},
		{http.MethodGet, "/tasks/01HZZZZZZZZZZZZZZZZZZZZZZZ"},
		{http.MethodPatch, "/tasks/01HZZZZZZZZZZZZZZZZZZZZZZZ"},
		{http.MethodDelete, "/tasks/01HZZZZZZZZZZZZZZZZZZZZZZZ"},
	}
	for _, route := range routes {
		rec := do(t, handler, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}
}
