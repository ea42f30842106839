package internal

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const resetTokenBytes = 32

// NewOTP returns a uniformly random numeric code. Each digit is drawn
// independently so the code has no modulo bias.
func NewOTP(digits int) (string, error) {
	if digits < 6 || digits > 10 {
		return "", errors.New("invalid otp digits")
	}

	var b strings.Builder
	b.Grow(digits)

	max := big.NewInt(10)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}

	otp := b.String()
	if len(otp) != digits {
		return "", fmt.Errorf("invalid otp generation length")
	}
	return otp, nil
}

// NewResetToken returns a fresh 256-bit password-reset token, hex encoded.
func NewResetToken() (string, error) {
	var raw [resetTokenBytes]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw[:]), nil
}

// HashSecret derives the stored representation of a plaintext secret (OTP
// code or reset token). Plaintexts are never persisted.
func HashSecret(secret string) [32]byte {
	return sha256.Sum256([]byte(secret))
}

// SecretEqual compares a candidate plaintext against a stored hash in
// constant time. A nil or short stored hash never matches.
func SecretEqual(candidate string, stored []byte) bool {
	if len(stored) != sha256.Size {
		return false
	}
	computed := HashSecret(candidate)
	return subtle.ConstantTimeCompare(computed[:], stored) == 1
}
