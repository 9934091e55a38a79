// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskdeck Contributors

package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/observability"
)

// identityContextKey keys the authenticated identity in a request context.
type identityContextKey struct{}

// IdentityFromContext returns the identity stored by the auth middleware.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(auth.Identity)
	return identity, ok
}

// mustIdentity returns the identity from the context. Handlers behind
// requireAuth may assume it is present.
func mustIdentity(ctx context.Context) auth.Identity {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		panic("httpapi: handler reached without authentication middleware")
	}
	return identity
}

// requireAuth verifies the bearer token and stores the resolved identity
// in the request context. Requests without a valid token get a 401 and
// never reach the handler.
func (a *API) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			observability.RecordAuthFailure("missing_token")
			a.writeError(w, r, auth.ErrUnauthenticated)
			return
		}

		identity, err := a.guard.Authenticate(raw)
		if err != nil {
			observability.RecordAuthFailure("invalid_token")
			a.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
		next(w, r.WithContext(ctx))
	}
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// instrument records request count and latency under the route pattern.
// A nil metrics set makes it a passthrough.
func (a *API) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.metrics == nil {
			next(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		a.metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		a.metrics.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
