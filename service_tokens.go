package dashAuth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/MrEthical07/dashAuth/token"
)

// Refresh rotates a token pair. The presented refresh token must verify
// cryptographically and match the account's stored slot byte for byte; a
// signature-valid token that was rotated away or revoked by logout fails
// with [ErrTokenInvalid].
//
// Two concurrent calls with the same token can both succeed with only one
// result persisted; the loser's next refresh then fails the slot check.
// That race is accepted and self-healing.
func (s *Service) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	claims, err := s.tokens.ParseRefresh(presented)
	if err != nil {
		s.metrics.Inc(MetricRefreshFailure)
		s.emitAudit(ctx, "refresh", "refresh", nil, false, err)
		if errors.Is(err, token.ErrExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	acct, err := s.store.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			s.metrics.Inc(MetricRefreshFailure)
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(acct.RefreshToken), []byte(presented)) != 1 {
		s.metrics.Inc(MetricRefreshFailure)
		s.emitAudit(ctx, "refresh", "refresh", &acct, false, ErrTokenInvalid)
		return nil, ErrTokenInvalid
	}

	if !acct.IsActive {
		s.metrics.Inc(MetricRefreshFailure)
		s.emitAudit(ctx, "refresh", "refresh", &acct, false, ErrAccountDisabled)
		return nil, ErrAccountDisabled
	}

	pair, err := s.issuePair(ctx, acct)
	if err != nil {
		return nil, err
	}

	s.metrics.Inc(MetricRefreshSuccess)
	s.emitAudit(ctx, "refresh", "refresh", &acct, true, nil)

	return pair, nil
}

// Logout revokes the account's refresh token. Access tokens already issued
// stay valid until expiry; revocation bites at the next refresh.
func (s *Service) Logout(ctx context.Context, accountID string) error {
	acct, err := s.store.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("load account: %w", err)
	}

	if err := s.store.SetRefreshToken(ctx, acct.ID, ""); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	s.metrics.Inc(MetricLogout)
	s.emitAudit(ctx, "logout", "", &acct, true, nil)
	return nil
}
