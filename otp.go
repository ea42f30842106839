package dashAuth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/dashAuth/internal"
)

// issueOTP generates a fresh code, persists its hash and expiry, and hands
// the plaintext to the email sender. The code counts as issued once stored;
// a delivery failure is audited but never unwinds the issuance.
func (s *Service) issueOTP(ctx context.Context, acct Account, purpose OTPPurpose) error {
	code, err := internal.NewOTP(s.cfg.OTP.Digits)
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	hash := internal.HashSecret(code)
	expiresAt := time.Now().Add(s.cfg.OTP.TTL)

	if err := s.store.SetOTP(ctx, acct.ID, hash, expiresAt); err != nil {
		return fmt.Errorf("persist otp: %w", err)
	}
	s.metrics.Inc(MetricOTPIssued)

	if err := s.email.SendOTP(ctx, acct.Email, code, purpose); err != nil {
		s.emitAudit(ctx, "otp.delivery", string(purpose), &acct, false, err)
	}

	return nil
}

// verifyStoredOTP checks a candidate code against the account's challenge
// slot. Missing, expired, and mismatched all report plain false.
func verifyStoredOTP(acct Account, candidate string) bool {
	if len(acct.OTPHash) == 0 {
		return false
	}
	if time.Now().After(acct.OTPExpiresAt) {
		return false
	}
	return internal.SecretEqual(candidate, acct.OTPHash)
}

// otpResendBlocked enforces the minimum gap between sends through the
// freshness of the outstanding code: a code whose remaining validity still
// exceeds TTL minus the gap was issued too recently. No outstanding code
// never blocks.
func (s *Service) otpResendBlocked(acct Account) bool {
	if len(acct.OTPHash) == 0 || acct.OTPExpiresAt.IsZero() {
		return false
	}
	remaining := time.Until(acct.OTPExpiresAt)
	return remaining > s.cfg.OTP.TTL-s.cfg.OTP.ResendGap
}

// ResendOTP issues a fresh code for the account, inferring the flow from
// the verification state: unverified accounts get a registration code,
// verified accounts a login code. Returns [ErrAccountNotFound] for an
// unknown email and [ErrTooManyRequests] inside the resend gap.
func (s *Service) ResendOTP(ctx context.Context, email string) error {
	acct, err := s.store.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("load account: %w", err)
	}

	if s.otpResendBlocked(acct) {
		s.metrics.Inc(MetricOTPResendBlocked)
		s.emitAudit(ctx, "otp.resend", "otp", &acct, false, ErrTooManyRequests)
		return ErrTooManyRequests
	}

	purpose := OTPLogin
	if !acct.IsVerified {
		purpose = OTPRegistration
	}

	if err := s.issueOTP(ctx, acct, purpose); err != nil {
		return err
	}
	s.emitAudit(ctx, "otp.resend", string(purpose), &acct, true, nil)
	return nil
}
