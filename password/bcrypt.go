package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	minCost      = bcrypt.MinCost
	maxCost      = bcrypt.MaxCost
	minPassBytes = 8

	// bcrypt silently truncates beyond 72 bytes; reject instead.
	maxPassBytes = 72
)

// Config carries the bcrypt work factor.
type Config struct {
	Cost int
}

// Bcrypt hashes and verifies passwords with the bcrypt KDF. The digest format
// is bcrypt's own ($2a$/$2b$ modular crypt), so cost upgrades apply to new
// hashes transparently while old digests keep verifying.
type Bcrypt struct {
	config Config
}

// NewBcrypt validates the work factor and returns a ready hasher.
func NewBcrypt(cfg Config) (*Bcrypt, error) {
	if cfg.Cost < minCost || cfg.Cost > maxCost {
		return nil, errors.New("bcrypt cost out of range")
	}
	return &Bcrypt{config: cfg}, nil
}

// Hash derives a salted digest from the plaintext.
//
// Password processing uses raw string bytes exactly as provided (no Unicode
// normalization).
func (b *Bcrypt) Hash(password string) (string, error) {
	if len(password) < minPassBytes {
		return "", errors.New("password must be at least 8 bytes")
	}
	if len(password) > maxPassBytes {
		return "", errors.New("password must be at most 72 bytes")
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), b.config.Cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify compares the plaintext against an encoded digest. An empty digest
// (an account with no local password) verifies false without error; a
// malformed digest is an error.
func (b *Bcrypt) Verify(password string, encodedHash string) (bool, error) {
	if encodedHash == "" {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// NeedsUpgrade reports whether the digest was produced with a lower work
// factor than currently configured.
func (b *Bcrypt) NeedsUpgrade(encodedHash string) (bool, error) {
	cost, err := bcrypt.Cost([]byte(encodedHash))
	if err != nil {
		return false, err
	}
	return cost < b.config.Cost, nil
}
