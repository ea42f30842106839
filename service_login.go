package dashAuth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Login runs the password phase of the two-step login. On success a login
// OTP is issued and the caller must complete [Service.VerifyOTP]; no token
// leaves this method.
//
// Failure order is fixed: unknown email and wrong password both return the
// uniform [ErrInvalidCredentials]; a locked account is rejected with
// [ErrAccountLocked] before the password is checked so the attempt is not
// counted; [ErrAccountDisabled] and [ErrAccountNotVerified] follow. The
// not-verified failure has a side effect: a fresh registration OTP is sent.
func (s *Service) Login(ctx context.Context, email, plaintext string) (*LoginResult, error) {
	acct, err := s.store.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			s.metrics.Inc(MetricLoginFailure)
			s.emitAudit(ctx, "login.password", "password", nil, false, ErrInvalidCredentials)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	if acct.Locked() {
		s.metrics.Inc(MetricLoginLocked)
		s.emitAudit(ctx, "login.password", "password", &acct, false, ErrAccountLocked)
		return nil, ErrAccountLocked
	}

	if !acct.IsActive {
		s.emitAudit(ctx, "login.password", "password", &acct, false, ErrAccountDisabled)
		return nil, ErrAccountDisabled
	}

	ok, err := s.hasher.Verify(plaintext, acct.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		if _, err := s.registerFailedAttempt(ctx, acct); err != nil {
			return nil, fmt.Errorf("record failed attempt: %w", err)
		}
		s.metrics.Inc(MetricLoginFailure)
		s.emitAudit(ctx, "login.password", "password", &acct, false, ErrInvalidCredentials)
		return nil, ErrInvalidCredentials
	}

	if !acct.IsVerified {
		// The password checked out but the email never did. Restart the
		// verification handshake instead of the login one.
		if err := s.issueOTP(ctx, acct, OTPRegistration); err != nil {
			return nil, err
		}
		s.emitAudit(ctx, "login.password", "password", &acct, false, ErrAccountNotVerified)
		return nil, ErrAccountNotVerified
	}

	if err := s.clearFailedAttempts(ctx, acct); err != nil {
		return nil, fmt.Errorf("reset failed attempts: %w", err)
	}

	if err := s.issueOTP(ctx, acct, OTPLogin); err != nil {
		return nil, err
	}
	s.emitAudit(ctx, "login.password", "password", &acct, true, nil)

	return &LoginResult{
		AccountID: acct.ID,
		Email:     acct.Email,
		OTPSent:   true,
	}, nil
}

// VerifyOTP completes either handshake. For an unverified account the code
// proves email ownership: the account is marked verified, a welcome email
// goes out, and no tokens are issued — the caller logs in fresh. For a
// verified account the code completes a login: lastLogin is stamped and a
// token pair is issued.
//
// Wrong, expired, and missing codes all return the uniform [ErrInvalidOTP];
// codes are single-use and cleared on success.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (*AuthOutcome, error) {
	acct, err := s.store.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	if !verifyStoredOTP(acct, code) {
		s.metrics.Inc(MetricOTPVerifyFailure)
		s.emitAudit(ctx, "otp.verify", "otp", &acct, false, ErrInvalidOTP)
		return nil, ErrInvalidOTP
	}

	if err := s.store.ClearOTP(ctx, acct.ID); err != nil {
		return nil, fmt.Errorf("clear otp: %w", err)
	}
	s.metrics.Inc(MetricOTPVerifySuccess)

	if !acct.IsVerified {
		if err := s.store.MarkVerified(ctx, acct.ID); err != nil {
			return nil, fmt.Errorf("mark verified: %w", err)
		}
		acct.IsVerified = true

		if err := s.email.SendWelcome(ctx, acct.Email, acct.FirstName); err != nil {
			s.emitAudit(ctx, "email.welcome", "otp", &acct, false, err)
		}
		s.emitAudit(ctx, "register.verify", "otp", &acct, true, nil)

		return &AuthOutcome{
			Account:               summarize(acct),
			RegistrationCompleted: true,
		}, nil
	}

	if !acct.IsActive {
		s.emitAudit(ctx, "login", "otp", &acct, false, ErrAccountDisabled)
		return nil, ErrAccountDisabled
	}

	now := time.Now()
	if err := s.store.SetLastLogin(ctx, acct.ID, now); err != nil {
		return nil, fmt.Errorf("stamp last login: %w", err)
	}
	acct.LastLogin = now

	pair, err := s.issuePair(ctx, acct)
	if err != nil {
		return nil, err
	}

	s.metrics.Inc(MetricLoginSuccess)
	s.emitAudit(ctx, "login", "otp", &acct, true, nil)

	return &AuthOutcome{
		Account: summarize(acct),
		Tokens:  pair,
	}, nil
}
