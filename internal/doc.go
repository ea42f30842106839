// Package internal contains helper utilities that are intentionally private
// to dashAuth: secure random generation for OTP codes and reset tokens, and
// the constant-time secret hashing used to store them.
//
// # What this package must NOT do
//
//   - Export types that appear in the public dashAuth API.
//   - Be imported by any package outside the dashAuth module.
package internal
