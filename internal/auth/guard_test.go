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

func TestNewGuard_RejectsWeakKey(t *testing.T) {
	guard, err := auth.NewGuard([]byte("short"))
	require.Error(t, err)
	assert.Nil(t, guard)
}

func TestGuard_Authenticate(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	identity := auth.Identity{UserID: store.NewULID(), Email: "a@x.com"}

	token, err := auth.SignToken(identity, testSignKey, time.Hour, issued)
	require.NoError(t, err)

	t.Run("valid token resolves identity from claims", func(t *testing.T) {
		clock := func() time.Time { return issued.Add(10 * time.Minute) }
		guard, err := auth.NewGuardWithClock(testSignKey, clock)
		require.NoError(t, err)

		got, err := guard.Authenticate(token)
		require.NoError(t, err)
		assert.Equal(t, identity, got)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		clock := func() time.Time { return issued.Add(25 * time.Hour) }
		guard, err := auth.NewGuardWithClock(testSignKey, clock)
		require.NoError(t, err)

		_, err = guard.Authenticate(token)
		require.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("empty token is rejected", func(t *testing.T) {
		guard, err := auth.NewGuard(testSignKey)
		require.NoError(t, err)

		_, err = guard.Authenticate("")
		require.ErrorIs(t, err, auth.ErrUnauthenticated)
	})
}
