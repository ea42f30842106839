package dashAuth

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountNotFound is returned by operations that are allowed to reveal
	// account existence (OTP verification, resend).
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountLocked rejects a login before the password is checked.
	ErrAccountLocked = errors.New("account locked")
	// ErrAccountDisabled rejects deactivated accounts.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrAccountNotVerified signals that a fresh registration OTP was sent.
	ErrAccountNotVerified = errors.New("account not verified")
	// ErrEmailTaken is returned by Register on a duplicate email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrRoleInvalid rejects unknown role names at registration.
	ErrRoleInvalid = errors.New("invalid role")
	// ErrInvalidInput rejects malformed registration input before any store
	// or hashing work happens.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidOTP is the uniform failure for a missing, expired, or
	// mismatched one-time code.
	ErrInvalidOTP = errors.New("invalid or expired otp")
	// ErrTooManyRequests enforces the minimum gap between OTP sends.
	ErrTooManyRequests = errors.New("otp recently sent, retry later")

	// ErrTokenInvalid covers malformed tokens, bad signatures, and presented
	// refresh tokens that no longer match the stored slot.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is distinct from ErrTokenInvalid so clients know to
	// attempt a refresh.
	ErrTokenExpired = errors.New("token expired")
	// ErrResetTokenInvalid is the uniform failure for unknown, expired, or
	// already-consumed password reset tokens.
	ErrResetTokenInvalid = errors.New("invalid or expired reset token")

	// ErrOAuthAccountNoPassword rejects ChangePassword on accounts
	// provisioned through an OAuth provider without a local password.
	ErrOAuthAccountNoPassword = errors.New("account has no local password")
	// ErrOAuthNoEmail rejects provider profiles that carry no email address.
	ErrOAuthNoEmail = errors.New("oauth profile has no email")
	// ErrOAuthProvider covers provider-side callback failures and unknown
	// provider names.
	ErrOAuthProvider = errors.New("oauth provider error")

	// ErrUnauthenticated means no usable access token was presented.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrNoRoleAssigned means the caller resolved without a usable role.
	ErrNoRoleAssigned = errors.New("no role assigned")
	// ErrInsufficientRole means the caller is authenticated but their role is
	// not in the allowed set.
	ErrInsufficientRole = errors.New("insufficient role")
	// ErrInsufficientPermission means the caller's role lacks a required grant.
	ErrInsufficientPermission = errors.New("insufficient permission")

	// ErrServiceNotReady is returned by Builder.Build on missing dependencies.
	ErrServiceNotReady = errors.New("service not fully configured")
	// ErrStoreUnavailable wraps backend failures surfaced by an AccountStore.
	ErrStoreUnavailable = errors.New("account store unavailable")
)
