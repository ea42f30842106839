// Package token manages access and refresh JWT issuance and verification
// with separate signing secrets per token class and strict validation
// semantics suitable for request-path authentication.
package token
