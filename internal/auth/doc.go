// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskdeck Contributors

// Package auth provides credential verification and stateless session
// tokens for Taskdeck.
//
// # Domain Types
//
// User accounts are created through Service.Register, which validates the
// email and password and stores only an argon2id hash. Direct struct
// initialization bypasses validation and may create invalid state.
//
// # Tokens
//
// Session tokens are signed JWTs over an explicit key: SignToken and
// VerifyToken are pure functions, and Guard wraps verification for
// request handling. The server keeps no session state; logout is a
// client-side token discard.
package auth
