// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskdeck Contributors

package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/store"
)

var testSignKey = []byte("0123456789abcdef0123456789abcdef")

func TestSignToken_VerifyToken_RoundTrip(t *testing.T) {
	identity := auth.Identity{UserID: store.NewULID(), Email: "a@x.com"}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	token, err := auth.SignToken(identity, testSignKey, time.Hour, now)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := auth.VerifyToken(token, testSignKey, now.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, identity, got)
}

func TestSignToken_IsDeterministic(t *testing.T) {
	identity := auth.Identity{UserID: store.NewULID(), Email: "a@x.com"}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := auth.SignToken(identity, testSignKey, time.Hour, now)
	require.NoError(t, err)
	second, err := auth.SignToken(identity, testSignKey, time.Hour, now)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same inputs must sign identically")
}

func TestSignToken_RejectsWeakKey(t *testing.T) {
	identity := auth.Identity{UserID: store.NewULID(), Email: "a@x.com"}

	_, err := auth.SignToken(identity, []byte("short"), time.Hour, time.Now())
	require.Error(t, err)
}

func TestSignToken_RejectsNonPositiveTTL(t *testing.T) {
	identity := auth.Identity{UserID: store.NewULID(), Email: "a@x.com"}

	_, err := auth.SignToken(identity, testSignKey, 0, time.Now())
	require.Error(t, err)
}

func TestVerifyToken_Failures(t *testing.T) {
	identity := auth.Identity{UserID: store.NewULID(), Email: "a@x.com"}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	token, err := auth.SignToken(identity, testSignKey, time.Hour, now)
	require.NoError(t, err)

	otherKey := []byte("ffffffffffffffffffffffffffffffff")

	tests := []struct {
		name  string
		token string
		key   []byte
		at    time.Time
	}{
		{name: "missing token", token: "", key: testSignKey, at: now},
		{name: "malformed token", token: "not.a.jwt", key: testSignKey, at: now},
		{name: "wrong key", token: token, key: otherKey, at: now},
		{name: "expired", token: token, key: testSignKey, at: now.Add(2 * time.Hour)},
		{name: "tampered payload", token: token[:len(token)-3] + "xxx", key: testSignKey, at: now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.VerifyToken(tt.token, tt.key, tt.at)
			require.ErrorIs(t, err, auth.ErrUnauthenticated,
				"every rejection must collapse into ErrUnauthenticated")
		})
	}
}

func TestVerifyToken_SameInputsVerifyIdentically(t *testing.T) {
	identity := auth.Identity{UserID: store.NewULID(), Email: "a@x.com"}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	token, err := auth.SignToken(identity, testSignKey, time.Hour, now)
	require.NoError(t, err)

	for range 3 {
		got, err := auth.VerifyToken(token, testSignKey, now)
		require.NoError(t, err)
		assert.Equal(t, identity, got)
	}
}
