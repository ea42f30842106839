package dashAuth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HandleOAuthCallback exchanges a provider-verified profile for a token
// pair. The OTP step is skipped entirely: the provider already performed an
// out-of-band verification.
//
// An existing account with the profile's email gets the provider subject
// attached (first match wins, existing links are never overwritten) and is
// marked verified. With no existing account, one is auto-provisioned with
// the VIEWER role and no local password.
//
// A profile without an email hard-fails with [ErrOAuthNoEmail]; an unknown
// provider name fails with [ErrOAuthProvider].
func (s *Service) HandleOAuthCallback(ctx context.Context, profile OAuthProfile) (*AuthOutcome, error) {
	if !profile.Provider.Valid() {
		s.metrics.Inc(MetricOAuthFailure)
		return nil, fmt.Errorf("%w: unknown provider %q", ErrOAuthProvider, profile.Provider)
	}
	if profile.Email == "" {
		s.metrics.Inc(MetricOAuthFailure)
		s.emitAudit(ctx, "oauth.login", string(profile.Provider), nil, false, ErrOAuthNoEmail)
		return nil, ErrOAuthNoEmail
	}
	if profile.Subject == "" {
		s.metrics.Inc(MetricOAuthFailure)
		return nil, fmt.Errorf("%w: profile has no subject id", ErrOAuthProvider)
	}

	email := normalizeEmail(profile.Email)

	acct, err := s.store.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if acct.ProviderIDs[profile.Provider] == "" {
			if err := s.store.LinkProvider(ctx, acct.ID, profile.Provider, profile.Subject); err != nil {
				return nil, fmt.Errorf("link provider: %w", err)
			}
		}
		if !acct.IsVerified {
			if err := s.store.MarkVerified(ctx, acct.ID); err != nil {
				return nil, fmt.Errorf("mark verified: %w", err)
			}
			acct.IsVerified = true
		}

	case errors.Is(err, ErrAccountNotFound):
		acct = Account{
			ID:          uuid.NewString(),
			Email:       email,
			FirstName:   profile.FirstName,
			LastName:    profile.LastName,
			Role:        s.defaultRole,
			IsActive:    true,
			IsVerified:  true,
			ProviderIDs: map[Provider]string{profile.Provider: profile.Subject},
			CreatedAt:   time.Now(),
		}
		if err := s.store.Create(ctx, acct); err != nil {
			return nil, fmt.Errorf("create account: %w", err)
		}

	default:
		return nil, fmt.Errorf("load account: %w", err)
	}

	if !acct.IsActive {
		s.metrics.Inc(MetricOAuthFailure)
		s.emitAudit(ctx, "oauth.login", string(profile.Provider), &acct, false, ErrAccountDisabled)
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

	s.metrics.Inc(MetricOAuthSuccess)
	s.emitAudit(ctx, "oauth.login", string(profile.Provider), &acct, true, nil)

	return &AuthOutcome{
		Account: summarize(acct),
		Tokens:  pair,
	}, nil
}
