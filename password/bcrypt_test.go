package password

import (
	"strings"
	"testing"
)

func newTestHasher(t *testing.T) *Bcrypt {
	t.Helper()

	// MinCost keeps the suite fast; cost does not change behavior under test.
	h, err := NewBcrypt(Config{Cost: minCost})
	if err != nil {
		t.Fatalf("NewBcrypt: %v", err)
	}
	return h
}

func TestNewBcryptRejectsCostOutOfRange(t *testing.T) {
	if _, err := NewBcrypt(Config{Cost: minCost - 1}); err == nil {
		t.Fatal("expected error for cost below minimum")
	}
	if _, err := NewBcrypt(Config{Cost: maxCost + 1}); err == nil {
		t.Fatal("expected error for cost above maximum")
	}
}

func TestHashAndVerifyRoundTrip(t *testing.T) {
	h := newTestHasher(t)

	digest, err := h.Hash("correct-horse-battery")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(digest, "$2") {
		t.Fatalf("unexpected digest format: %q", digest)
	}

	ok, err := h.Verify("correct-horse-battery", digest)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("expected correct password to verify")
	}

	ok, err = h.Verify("wrong-password-here", digest)
	if err != nil {
		t.Fatalf("Verify wrong password: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password to fail")
	}
}

func TestHashRejectsLengthBounds(t *testing.T) {
	h := newTestHasher(t)

	if _, err := h.Hash("short"); err == nil {
		t.Fatal("expected error for password under 8 bytes")
	}
	if _, err := h.Hash(strings.Repeat("x", maxPassBytes+1)); err == nil {
		t.Fatal("expected error for password over 72 bytes")
	}
}

func TestVerifyEmptyDigestIsFalseNotError(t *testing.T) {
	h := newTestHasher(t)

	ok, err := h.Verify("anything-at-all", "")
	if err != nil {
		t.Fatalf("Verify with empty digest: %v", err)
	}
	if ok {
		t.Fatal("empty digest must never verify")
	}
}

func TestVerifyMalformedDigestErrors(t *testing.T) {
	h := newTestHasher(t)

	if _, err := h.Verify("anything-at-all", "not-a-bcrypt-digest"); err == nil {
		t.Fatal("expected error for malformed digest")
	}
}

func TestNeedsUpgrade(t *testing.T) {
	low, err := NewBcrypt(Config{Cost: minCost})
	if err != nil {
		t.Fatalf("NewBcrypt: %v", err)
	}
	digest, err := low.Hash("correct-horse-battery")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	high, err := NewBcrypt(Config{Cost: minCost + 2})
	if err != nil {
		t.Fatalf("NewBcrypt: %v", err)
	}

	upgrade, err := high.NeedsUpgrade(digest)
	if err != nil {
		t.Fatalf("NeedsUpgrade: %v", err)
	}
	if !upgrade {
		t.Fatal("expected low-cost digest to need upgrade")
	}

	upgrade, err = low.NeedsUpgrade(digest)
	if err != nil {
		t.Fatalf("NeedsUpgrade: %v", err)
	}
	if upgrade {
		t.Fatal("expected same-cost digest to not need upgrade")
	}
}
