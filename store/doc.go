// Package store provides a Redis-backed reference implementation of the
// dashAuth.AccountStore contract.
//
// # Layout
//
//	da:acct:<id>     JSON account record
//	da:email:<email> id, lowercase email index
//	da:reset:<hash>  id, reset-token index with the token's TTL
//
// Every setter runs as an optimistic WATCH/MULTI transaction on the account
// key, so individual field updates are atomic per row as the AccountStore
// contract requires. Contended transactions retry a bounded number of times.
//
// # What this package must NOT do
//
//   - Implement authentication decisions; it moves account state only.
//   - See plaintext secrets. OTP and reset-token hashes arrive pre-hashed.
package store
