// Package procure provides the authentication and authorization core of the
// hotel procurement backend: password hashing, JWT issuance and verification,
// and role based permission checks, plus the HTTP endpoints that expose them.
//
// Tokens:
//   - Access and refresh tokens are signed JWTs tagged with a use claim so one
//     class can never stand in for the other. Access tokens expire quickly;
//     refresh tokens may only be exchanged for a new pair.
//
// Authorization:
//   - Every protected request passes through Gate, which re-reads the live
//     user record before any role check. Deactivating an account takes effect
//     on the very next request, valid token or not.
//   - Roles form a closed set with a strict hierarchy; superusers bypass role
//     checks entirely.
//
// Storage:
//   - Users are persisted via Bun. RepositoryManager bundles the repositories
//     with transaction plumbing so commands can run atomically.
package procure
