package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrExpired reports a structurally valid token past its expiry.
	ErrExpired = errors.New("token expired")
	// ErrInvalid reports any other verification failure: malformed input,
	// bad signature, wrong algorithm, or wrong secret class.
	ErrInvalid = errors.New("token invalid")
)

const maxFutureIAT = 10 * time.Minute

// Config holds the signing material and lifetimes for both token classes.
// Access and refresh tokens are signed HS256 with distinct secrets so one
// class can never be replayed as the other.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Leeway        time.Duration
}

// Claims is the signed claim set carried by both token classes.
type Claims struct {
	AccountID string `json:"uid"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies the access/refresh token pair. Safe for
// concurrent use after construction.
type Manager struct {
	config Config
}

// NewManager validates the configuration and returns a ready Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.AccessSecret) < 32 {
		return nil, errors.New("access secret must be at least 32 bytes")
	}
	if len(cfg.RefreshSecret) < 32 {
		return nil, errors.New("refresh secret must be at least 32 bytes")
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.RefreshTTL <= cfg.AccessTTL {
		return nil, errors.New("refresh TTL must exceed access TTL")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}

	return &Manager{config: cfg}, nil
}

// IssueAccess signs a fresh access token for the principal.
func (m *Manager) IssueAccess(accountID, email, role string) (string, error) {
	return m.sign(accountID, email, role, m.config.AccessSecret, m.config.AccessTTL)
}

// IssueRefresh signs a fresh refresh token for the principal.
func (m *Manager) IssueRefresh(accountID, email, role string) (string, error) {
	return m.sign(accountID, email, role, m.config.RefreshSecret, m.config.RefreshTTL)
}

// ParseAccess verifies an access token and returns its claims. Failures are
// [ErrExpired] or [ErrInvalid], wrapped with the underlying cause.
func (m *Manager) ParseAccess(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, m.config.AccessSecret)
}

// ParseRefresh verifies a refresh token and returns its claims.
func (m *Manager) ParseRefresh(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, m.config.RefreshSecret)
}

func (m *Manager) sign(accountID, email, role string, secret []byte, ttl time.Duration) (string, error) {
	if accountID == "" {
		return "", errors.New("empty account id")
	}

	now := time.Now()
	claims := Claims{
		AccountID: accountID,
		Email:     email,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti makes every issuance distinct even inside the same
			// second; rotation depends on that.
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.config.Issuer,
			Subject:   accountID,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (m *Manager) parse(tokenStr string, secret []byte) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, jwt.ErrTokenInvalidClaims)
	}
	if claims.AccountID == "" {
		return nil, fmt.Errorf("%w: missing account id claim", ErrInvalid)
	}
	if claims.IssuedAt != nil && claims.IssuedAt.Time.After(time.Now().Add(maxFutureIAT)) {
		return nil, fmt.Errorf("%w: iat too far in the future", ErrInvalid)
	}

	return claims, nil
}
