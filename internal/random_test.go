package internal

import "testing"

func TestNewOTPLengthAndCharset(t *testing.T) {
	for _, digits := range []int{6, 8, 10} {
		otp, err := NewOTP(digits)
		if err != nil {
			t.Fatalf("NewOTP(%d): %v", digits, err)
		}
		if len(otp) != digits {
			t.Fatalf("NewOTP(%d) length = %d", digits, len(otp))
		}
		for _, c := range otp {
			if c < '0' || c > '9' {
				t.Fatalf("NewOTP(%d) produced non-digit %q in %q", digits, c, otp)
			}
		}
	}
}

func TestNewOTPRejectsInvalidDigits(t *testing.T) {
	for _, digits := range []int{0, 5, 11} {
		if _, err := NewOTP(digits); err == nil {
			t.Fatalf("NewOTP(%d): expected error", digits)
		}
	}
}

func TestNewResetTokenIsHexAndUnique(t *testing.T) {
	a, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	if len(a) != 64 {
		t.Fatalf("token length = %d, want 64 hex chars", len(a))
	}

	b, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	if a == b {
		t.Fatal("two reset tokens collided")
	}
}

func TestSecretEqual(t *testing.T) {
	hash := HashSecret("123456")

	if !SecretEqual("123456", hash[:]) {
		t.Fatal("matching secret rejected")
	}
	if SecretEqual("654321", hash[:]) {
		t.Fatal("mismatched secret accepted")
	}
	if SecretEqual("123456", nil) {
		t.Fatal("nil stored hash accepted")
	}
	if SecretEqual("123456", hash[:16]) {
		t.Fatal("truncated stored hash accepted")
	}
}
