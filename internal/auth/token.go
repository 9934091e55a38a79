// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskdeck Contributors

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// DefaultTokenTTL is the session token lifetime used when the
// configuration does not override it.
const DefaultTokenTTL = 24 * time.Hour

// MinKeyLength is the minimum signing key length in bytes. HS256 keys
// shorter than the hash output weaken the MAC.
const MinKeyLength = 32

// Claims is the token payload. The format is an internal contract
// between token issuance and the session guard; nothing else parses it.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SignToken produces a signed HS256 token asserting the identity until
// now+ttl. It is a pure function of its arguments, which keeps token
// issuance deterministic under test.
func SignToken(identity Identity, key []byte, ttl time.Duration, now time.Time) (string, error) {
	if len(key) < MinKeyLength {
		return "", oops.Code("TOKEN_KEY_TOO_SHORT").
			With("min_bytes", MinKeyLength).
			Errorf("signing key must be at least %d bytes", MinKeyLength)
	}
	if ttl <= 0 {
		return "", oops.Code("TOKEN_INVALID_TTL").Errorf("token ttl must be positive")
	}

	claims := Claims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// VerifyToken checks the signature and expiry of a token and returns the
// identity embedded in its claims. All failure modes collapse into
// ErrUnauthenticated so callers cannot distinguish why a token was
// rejected.
func VerifyToken(raw string, key []byte, now time.Time) (Identity, error) {
	if raw == "" {
		return Identity{}, oops.Code("AUTH_UNAUTHENTICATED").
			With("reason", "missing token").
			Wrap(ErrUnauthenticated)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, oops.Errorf("unexpected signing method: %s", t.Method.Alg())
			}
			return key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, oops.Code("AUTH_UNAUTHENTICATED").
			With("reason", "invalid token").
			With("cause", err.Error()).
			Wrap(ErrUnauthenticated)
	}

	if !token.Valid {
		return Identity{}, oops.Code("AUTH_UNAUTHENTICATED").
			With("reason", "invalid token").
			Wrap(ErrUnauthenticated)
	}

	userID, err := ulid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, oops.Code("AUTH_UNAUTHENTICATED").
			With("reason", "malformed subject").
			Wrap(ErrUnauthenticated)
	}

	return Identity{UserID: userID, Email: claims.Email}, nil
}
