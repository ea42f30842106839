package dashAuth

import (
	"errors"
	"time"

	"github.com/MrEthical07/dashAuth/permission"
)

// TokenConfig configures JWT issuance. Access and refresh secrets must be
// distinct; a token signed with one class's secret never verifies as the
// other.
type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Leeway        time.Duration
}

// PasswordConfig configures the bcrypt work factor.
type PasswordConfig struct {
	Cost int
}

// OTPConfig configures one-time code issuance. ResendGap is the minimum time
// between two sends, enforced through the freshness of the stored expiry
// rather than a separate timestamp.
type OTPConfig struct {
	Digits    int
	TTL       time.Duration
	ResendGap time.Duration
}

// LockoutConfig configures progressive account lockout.
type LockoutConfig struct {
	Threshold    int
	LockDuration time.Duration
}

// ResetConfig configures the password-reset token lifetime.
type ResetConfig struct {
	TTL time.Duration
}

// RegistrationConfig configures account creation. DefaultRole applies when
// RegisterInput carries no role name.
type RegistrationConfig struct {
	DefaultRole string
}

// AuditConfig configures the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig enables the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// Config is the full engine configuration. Obtain a baseline from
// [DefaultConfig], set the token secrets, and pass it to [Builder.WithConfig].
type Config struct {
	Token        TokenConfig
	Password     PasswordConfig
	OTP          OTPConfig
	Lockout      LockoutConfig
	Reset        ResetConfig
	Registration RegistrationConfig
	Audit        AuditConfig
	Metrics      MetricsConfig
}

// DefaultConfig returns the production baseline. Token secrets are left
// empty and must be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:  time.Hour,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Password: PasswordConfig{
			Cost: 12,
		},
		OTP: OTPConfig{
			Digits:    6,
			TTL:       5 * time.Minute,
			ResendGap: time.Minute,
		},
		Lockout: LockoutConfig{
			Threshold:    5,
			LockDuration: 2 * time.Hour,
		},
		Reset: ResetConfig{
			TTL: time.Hour,
		},
		Registration: RegistrationConfig{
			DefaultRole: permission.RoleViewer.String(),
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration invariants Build relies on.
func (c *Config) Validate() error {
	if len(c.Token.AccessSecret) < 32 {
		return errors.New("token access secret must be at least 32 bytes")
	}
	if len(c.Token.RefreshSecret) < 32 {
		return errors.New("token refresh secret must be at least 32 bytes")
	}
	if string(c.Token.AccessSecret) == string(c.Token.RefreshSecret) {
		return errors.New("token access and refresh secrets must differ")
	}
	if c.Token.AccessTTL <= 0 {
		return errors.New("token access TTL must be positive")
	}
	if c.Token.RefreshTTL <= c.Token.AccessTTL {
		return errors.New("token refresh TTL must exceed access TTL")
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("token leeway must be between 0 and 2 minutes")
	}

	if c.Password.Cost < 4 || c.Password.Cost > 31 {
		return errors.New("password cost must be between 4 and 31")
	}

	if c.OTP.Digits < 6 || c.OTP.Digits > 10 {
		return errors.New("otp digits must be between 6 and 10")
	}
	if c.OTP.TTL <= 0 {
		return errors.New("otp TTL must be positive")
	}
	if c.OTP.ResendGap <= 0 || c.OTP.ResendGap >= c.OTP.TTL {
		return errors.New("otp resend gap must be positive and below the TTL")
	}

	if c.Lockout.Threshold <= 0 {
		return errors.New("lockout threshold must be positive")
	}
	if c.Lockout.LockDuration <= 0 {
		return errors.New("lockout duration must be positive")
	}

	if c.Reset.TTL <= 0 {
		return errors.New("reset token TTL must be positive")
	}

	if _, err := permission.ParseRole(c.Registration.DefaultRole); err != nil {
		return errors.New("registration default role is not a known role")
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be positive when audit is enabled")
	}

	return nil
}

// cloneConfig deep-copies the secret slices so a caller mutating its Config
// after Build cannot affect the running service.
func cloneConfig(c Config) Config {
	out := c
	out.Token.AccessSecret = append([]byte(nil), c.Token.AccessSecret...)
	out.Token.RefreshSecret = append([]byte(nil), c.Token.RefreshSecret...)
	return out
}
