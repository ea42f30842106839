package dashAuth

import (
	"context"
	"time"

	"github.com/MrEthical07/dashAuth/permission"
)

// Provider identifies an external OAuth identity provider.
type Provider string

const (
	ProviderGoogle    Provider = "google"
	ProviderGitHub    Provider = "github"
	ProviderMicrosoft Provider = "microsoft"
	ProviderApple     Provider = "apple"
)

// Valid reports whether p is one of the supported providers.
func (p Provider) Valid() bool {
	switch p {
	case ProviderGoogle, ProviderGitHub, ProviderMicrosoft, ProviderApple:
		return true
	}
	return false
}

// OTPPurpose distinguishes the two OTP flows. The purpose is never stored;
// it is inferred from the account's verification state.
type OTPPurpose string

const (
	OTPRegistration OTPPurpose = "registration"
	OTPLogin        OTPPurpose = "login"
)

// Account is the engine's persisted view of a principal. Stores own the
// representation; the engine only mutates accounts through the granular
// AccountStore setters so each update stays single-row atomic.
type Account struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string // empty for OAuth-provisioned accounts
	Role         permission.Role
	IsVerified   bool
	IsActive     bool

	// OTP challenge slot. Hash is SHA-256 of the plaintext code; nil when no
	// code is outstanding.
	OTPHash      []byte
	OTPExpiresAt time.Time

	// Lockout state.
	LoginAttempts int
	LockUntil     time.Time

	// Single refresh-token slot. Issuing a new pair overwrites it.
	RefreshToken string

	// Password reset slot. Hash is SHA-256 of the hex token.
	ResetTokenHash []byte
	ResetExpiresAt time.Time

	// External identities, keyed by provider. At most one subject per
	// provider.
	ProviderIDs map[Provider]string

	LastLogin time.Time
	CreatedAt time.Time
}

// Locked reports whether the account is currently locked out. An expired
// lock does not count; it is wiped lazily on the next failed attempt.
func (a *Account) Locked() bool {
	return !a.LockUntil.IsZero() && a.LockUntil.After(time.Now())
}

// AccountStore is the persistence contract the engine is built against.
//
// Error contract: lookups return [ErrAccountNotFound] (possibly wrapped) for
// missing rows, Create returns [ErrEmailTaken] on a duplicate email, and any
// backend failure should wrap [ErrStoreUnavailable]. Email lookups are
// case-insensitive. Each setter must be atomic for its row.
//
// A Redis-backed reference implementation lives in the store subpackage.
type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (Account, error)
	GetByID(ctx context.Context, id string) (Account, error)
	GetByResetTokenHash(ctx context.Context, hash [32]byte) (Account, error)

	Create(ctx context.Context, account Account) error

	SetOTP(ctx context.Context, id string, hash [32]byte, expiresAt time.Time) error
	ClearOTP(ctx context.Context, id string) error
	SetLoginAttempts(ctx context.Context, id string, attempts int, lockUntil time.Time) error
	SetPasswordHash(ctx context.Context, id string, hash string) error
	SetRefreshToken(ctx context.Context, id string, token string) error
	SetResetToken(ctx context.Context, id string, hash [32]byte, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	MarkVerified(ctx context.Context, id string) error
	SetLastLogin(ctx context.Context, id string, at time.Time) error
	LinkProvider(ctx context.Context, id string, provider Provider, subject string) error
}

// EmailSender delivers the engine's outbound mail. Implementations own
// templating and transport; the engine hands over plaintext secrets exactly
// once and never persists them.
//
// Send errors are audited but do not fail the operation that issued the
// secret.
type EmailSender interface {
	SendOTP(ctx context.Context, email string, code string, purpose OTPPurpose) error
	SendWelcome(ctx context.Context, email string, firstName string) error
	SendPasswordReset(ctx context.Context, email string, token string) error
}

// TokenPair is one access/refresh issuance.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AccountSummary is the sanitized account view returned to callers. It never
// carries hashes, OTP state, or token slots.
type AccountSummary struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	IsActive   bool      `json:"is_active"`
	LastLogin  time.Time `json:"last_login,omitzero"`
	CreatedAt  time.Time `json:"created_at"`
}

// LoginResult reports a successful first login phase: the password checked
// out and a login OTP is on its way.
type LoginResult struct {
	AccountID string
	Email     string
	OTPSent   bool
}

// AuthOutcome is the terminal result of an authentication flow (OTP
// verification or OAuth callback). Tokens is nil when the flow completed a
// registration and the caller must log in fresh.
type AuthOutcome struct {
	Account               AccountSummary
	Tokens                *TokenPair
	RegistrationCompleted bool
}

// RegisterInput carries the fields accepted at sign-up. Role is a role name;
// empty selects the configured default.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// Caller is the resolved identity of an authenticated request: fresh account
// state plus its role.
type Caller struct {
	Account AccountSummary
	Role    permission.Role
}

// Can reports whether the caller's role carries the permission.
func (c *Caller) Can(p permission.Permission) bool {
	return c != nil && c.Role.Has(p)
}

// OAuthProfile is the provider-verified identity handed to the engine after
// the caller completes an OAuth handshake.
type OAuthProfile struct {
	Provider  Provider
	Subject   string
	Email     string
	FirstName string
	LastName  string
}

func summarize(a Account) AccountSummary {
	return AccountSummary{
		ID:         a.ID,
		Email:      a.Email,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Role:       a.Role.String(),
		IsVerified: a.IsVerified,
		IsActive:   a.IsActive,
		LastLogin:  a.LastLogin,
		CreatedAt:  a.CreatedAt,
	}
}
