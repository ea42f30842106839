package dashAuth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/dashAuth/permission"
	"github.com/google/uuid"
)

// Register creates an unverified password account and issues its
// registration OTP. The caller proves ownership of the email by completing
// [Service.VerifyOTP] before any token is ever issued.
//
// Fails with [ErrInvalidInput] on a malformed email or out-of-range password,
// [ErrEmailTaken] on a duplicate email, and [ErrRoleInvalid] on an unknown
// role name.
func (s *Service) Register(ctx context.Context, input RegisterInput) (AccountSummary, error) {
	email := normalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return AccountSummary{}, fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	if n := len(input.Password); n < 8 || n > 72 {
		return AccountSummary{}, fmt.Errorf("%w: password must be between 8 and 72 bytes", ErrInvalidInput)
	}

	role := s.defaultRole
	if input.Role != "" {
		parsed, err := permission.ParseRole(input.Role)
		if err != nil {
			return AccountSummary{}, ErrRoleInvalid
		}
		role = parsed
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return AccountSummary{}, fmt.Errorf("hash password: %w", err)
	}

	acct := Account{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	if err := s.store.Create(ctx, acct); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			s.metrics.Inc(MetricRegistrationDuplicate)
			s.emitAudit(ctx, "register", "password", &acct, false, ErrEmailTaken)
			return AccountSummary{}, ErrEmailTaken
		}
		return AccountSummary{}, fmt.Errorf("create account: %w", err)
	}

	if err := s.issueOTP(ctx, acct, OTPRegistration); err != nil {
		return AccountSummary{}, err
	}

	s.metrics.Inc(MetricRegistrationSuccess)
	s.emitAudit(ctx, "register", "password", &acct, true, nil)

	return summarize(acct), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
