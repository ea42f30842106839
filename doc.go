// Package dashAuth provides an embeddable authentication and authorization
// engine for dashboard-style applications: email/password login hardened with
// a mandatory email OTP step, JWT access tokens with rotating refresh tokens,
// progressive account lockout, a password-reset lifecycle, OAuth identity
// linking, and enum-based RBAC.
//
// The package is designed for concurrent server workloads: Service methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// dashAuth is the public surface. It exposes [Service], [Builder], [Config],
// the [AccountStore] and [EmailSender] contracts, and value types
// (LoginResult, TokenPair, AccountSummary, etc.). Persistence is always behind
// [AccountStore]; the engine never talks to a database directly. A
// Redis-backed reference store ships in the store subpackage.
//
// # What this package must NOT do
//
//   - Render emails or own SMTP configuration. Delivery is delegated to
//     [EmailSender]; only the plaintext OTP / reset token crosses that boundary.
//   - Run OAuth redirect flows. Callers complete the provider handshake and
//     hand the engine a verified [OAuthProfile].
//   - Leak credential material. [AccountSummary] carries no hashes, OTP state,
//     or token slots, and plaintext secrets are never persisted or logged.
//
// # Failure contract
//
// Expected failures are sentinel errors (ErrInvalidCredentials,
// ErrAccountLocked, ...) matched with errors.Is; transport layers map them to
// status codes. Email delivery failures never abort the operation that issued
// the secret: issuance is persisted first and the send error is only audited.
package dashAuth
