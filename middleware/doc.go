// Package middleware exposes HTTP adapters for authentication and RBAC
// enforcement built on top of dashAuth.Service.
//
// # Guards
//
//   - [Authenticate] — resolves the bearer token to a Caller and injects it
//     into the request context.
//   - [RequireRole] — 403 unless the caller's role is in the allowed set.
//   - [RequirePermission] / [RequireAnyPermission] / [RequireAllPermissions]
//     — 403 unless the caller's role carries the named grants.
//
// Role and permission guards must run inside [Authenticate]; without a
// resolved caller they answer 401.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Service calls. It does NOT
// implement authentication logic itself — token verification and the fresh
// account load are delegated to Service.Authenticate, and grant checks to
// the permission package.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly.
//   - Touch the account store.
//   - Invent authorization semantics beyond the role/permission tables.
package middleware
