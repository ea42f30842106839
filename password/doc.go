// Package password implements password hashing and verification with bcrypt.
//
// # Output format
//
// Digests use bcrypt's modular crypt encoding ($2a$/$2b$...), which embeds
// the salt and cost. [Bcrypt.NeedsUpgrade] reports stored digests produced
// with a lower cost than configured so callers can re-hash on the next
// successful login.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password policy beyond
// byte-length bounds is enforced by the Service. An empty stored digest
// (OAuth-only account) verifies false, never errors.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive
//     digests.
//   - Import any other dashAuth package.
//   - Log plaintext passwords at runtime.
package password
