// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskdeck Contributors

package auth

import (
	"time"

	"github.com/samber/oops"
)

// Guard verifies bearer tokens and resolves them to identities. It
// trusts the token's claims and performs no store lookup per request:
// verification is a pure check over the server key.
type Guard struct {
	key []byte
	now func() time.Time
}

// NewGuard creates a Guard for the given signing key.
func NewGuard(key []byte) (*Guard, error) {
	return NewGuardWithClock(key, time.Now)
}

// NewGuardWithClock creates a Guard with an injected clock for
// deterministic expiry testing.
func NewGuardWithClock(key []byte, now func() time.Time) (*Guard, error) {
	if len(key) < MinKeyLength {
		return nil, oops.Code("TOKEN_KEY_TOO_SHORT").
			With("min_bytes", MinKeyLength).
			Errorf("signing key must be at least %d bytes", MinKeyLength)
	}
	if now == nil {
		return nil, oops.Errorf("clock is required")
	}
	return &Guard{key: key, now: now}, nil
}

// Authenticate resolves a raw bearer token to an Identity. Missing,
// malformed, forged, and expired tokens all fail with ErrUnauthenticated.
func (g *Guard) Authenticate(raw string) (Identity, error) {
	return VerifyToken(raw, g.key, g.now())
}
