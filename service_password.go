package dashAuth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/dashAuth/internal"
)

// ForgotPassword starts the reset lifecycle. The outcome is identical
// whether or not the email is registered (anti-enumeration); internally a
// reset token is created and mailed only for a real account.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	s.metrics.Inc(MetricPasswordResetRequest)

	acct, err := s.store.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			s.emitAudit(ctx, "password.forgot", "", nil, true, nil)
			return nil
		}
		return fmt.Errorf("load account: %w", err)
	}

	tok, err := internal.NewResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	// A new request supersedes any outstanding token.
	hash := internal.HashSecret(tok)
	if err := s.store.SetResetToken(ctx, acct.ID, hash, time.Now().Add(s.cfg.Reset.TTL)); err != nil {
		return fmt.Errorf("persist reset token: %w", err)
	}

	if err := s.email.SendPasswordReset(ctx, acct.Email, tok); err != nil {
		s.emitAudit(ctx, "email.reset", "", &acct, false, err)
	}

	s.emitAudit(ctx, "password.forgot", "", &acct, true, nil)
	return nil
}

// ResetPassword consumes a reset token and installs a new password. Unknown,
// expired, and already-used tokens all fail with the uniform
// [ErrResetTokenInvalid].
func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	hash := internal.HashSecret(resetToken)

	acct, err := s.store.GetByResetTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			s.metrics.Inc(MetricPasswordResetFailure)
			s.emitAudit(ctx, "password.reset", "", nil, false, ErrResetTokenInvalid)
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("load account: %w", err)
	}

	if time.Now().After(acct.ResetExpiresAt) {
		s.metrics.Inc(MetricPasswordResetFailure)
		s.emitAudit(ctx, "password.reset", "", &acct, false, ErrResetTokenInvalid)
		return ErrResetTokenInvalid
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.store.SetPasswordHash(ctx, acct.ID, newHash); err != nil {
		return fmt.Errorf("persist password: %w", err)
	}
	if err := s.store.ClearResetToken(ctx, acct.ID); err != nil {
		return fmt.Errorf("clear reset token: %w", err)
	}

	s.metrics.Inc(MetricPasswordResetSuccess)
	s.emitAudit(ctx, "password.reset", "", &acct, true, nil)
	return nil
}

// ChangePassword overwrites the password for an authenticated account after
// verifying the current one. Accounts provisioned through OAuth carry no
// local password and fail with [ErrOAuthAccountNoPassword] before any
// comparison.
func (s *Service) ChangePassword(ctx context.Context, accountID, current, newPassword string) error {
	acct, err := s.store.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("load account: %w", err)
	}

	if acct.PasswordHash == "" {
		s.metrics.Inc(MetricPasswordChangeFailure)
		s.emitAudit(ctx, "password.change", "", &acct, false, ErrOAuthAccountNoPassword)
		return ErrOAuthAccountNoPassword
	}

	ok, err := s.hasher.Verify(current, acct.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.metrics.Inc(MetricPasswordChangeFailure)
		s.emitAudit(ctx, "password.change", "", &acct, false, ErrInvalidCredentials)
		return ErrInvalidCredentials
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.store.SetPasswordHash(ctx, acct.ID, newHash); err != nil {
		return fmt.Errorf("persist password: %w", err)
	}

	s.metrics.Inc(MetricPasswordChangeSuccess)
	s.emitAudit(ctx, "password.change", "", &acct, true, nil)
	return nil
}
