// Package permission implements the closed RBAC model: three fixed roles,
// a fixed permission set, and a static grant table compiled into bitmasks.
//
// # Design
//
// Roles and permissions are enums, not open strings. The grant table is
// authoritative and process-wide; accounts never carry per-account overrides.
// Checks are single AND operations on a uint64 mask, so they are safe on any
// request path without caching.
//
// # What this package must NOT do
//
//   - Perform I/O or depend on any other package in this module.
//   - Allow grant mutation at runtime. The table is frozen at compile time.
package permission
