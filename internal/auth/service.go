// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskdeck Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/taskdeck/taskdeck/internal/store"
)

// dummyPasswordHash is used when a user doesn't exist to prevent timing attacks.
// We still run password verification to make response time consistent.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Service provides registration and credential verification.
type Service struct {
	users    UserRepository
	hasher   PasswordHasher
	signKey  []byte
	tokenTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// ServiceConfig holds dependencies for Service. SignKey is process-wide
// configuration, loaded once at startup.
type ServiceConfig struct {
	Users    UserRepository
	Hasher   PasswordHasher
	SignKey  []byte
	TokenTTL time.Duration // defaults to DefaultTokenTTL when zero
	Logger   *slog.Logger  // defaults to slog.Default when nil
}

// NewService creates a new Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	if cfg.Hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if len(cfg.SignKey) < MinKeyLength {
		return nil, oops.Code("TOKEN_KEY_TOO_SHORT").
			With("min_bytes", MinKeyLength).
			Errorf("signing key must be at least %d bytes", MinKeyLength)
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	if ttl < 0 {
		return nil, oops.Code("TOKEN_INVALID_TTL").Errorf("token ttl must be positive")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:    cfg.Users,
		hasher:   cfg.Hasher,
		signKey:  cfg.SignKey,
		tokenTTL: ttl,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Register creates a new user account. The plaintext password is hashed
// with argon2id and is never stored or logged. Fails with
// ErrDuplicateEmail if the email is already taken.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	now := s.now()
	user := &User{
		ID:           store.NewULID(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, oops.Code("AUTH_DUPLICATE_EMAIL").
				With("email", email).
				Wrap(ErrDuplicateEmail)
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create user").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID.String())
	return user, nil
}

// ValidateCredentials verifies an email/password pair and returns the
// resolved identity. An unknown email and a wrong password both fail
// with ErrInvalidCredentials; verification always runs against a hash
// (the stored one or a dummy) to keep response time consistent.
func (s *Service) ValidateCredentials(ctx context.Context, email, password string) (Identity, error) {
	user, lookupErr := s.users.GetByEmail(ctx, email)

	targetHash := dummyPasswordHash
	userExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return Identity{}, oops.Code("AUTH_VALIDATE_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		// A verification error against the dummy hash is just an invalid login.
		if !userExists {
			return Identity{}, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
		}
		return Identity{}, oops.Code("AUTH_VALIDATE_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists || !valid {
		return Identity{}, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	return Identity{UserID: user.ID, Email: user.Email}, nil
}

// IssueToken produces a signed session token for an identity, expiring
// a fixed duration after issuance.
func (s *Service) IssueToken(identity Identity) (string, error) {
	return SignToken(identity, s.signKey, s.tokenTTL, s.now())
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	identity, err := s.ValidateCredentials(ctx, email, password)
	if err != nil {
		return "", err
	}

	token, err := s.IssueToken(identity)
	if err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", identity.UserID.String())
	return token, nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, id Identity) (*User, error) {
	user, err := s.users.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("AUTH_USER_NOT_FOUND").
				With("user_id", id.UserID.String()).
				Wrap(ErrNotFound)
		}
		return nil, oops.Code("AUTH_GET_USER_FAILED").
			With("operation", "get user by id").
			Wrap(err)
	}
	return user, nil
}
