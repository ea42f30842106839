package dashAuth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/dashAuth/password"
	"github.com/MrEthical07/dashAuth/permission"
	"github.com/MrEthical07/dashAuth/token"
)

// Service is the authentication and authorization engine. Construct it with
// [Builder.Build]; all methods are safe for concurrent use afterwards.
type Service struct {
	cfg     Config
	store   AccountStore
	email   EmailSender
	hasher  *password.Bcrypt
	tokens  *token.Manager
	audit   *auditDispatcher
	metrics *Metrics

	defaultRole permission.Role
}

// Close flushes and stops the audit dispatcher. The Service must not be used
// after Close.
func (s *Service) Close() {
	s.audit.Close()
}

// MetricsSnapshot returns a copy of the engine counters.
func (s *Service) MetricsSnapshot() MetricsSnapshot {
	return s.metrics.Snapshot()
}

// AuditDropped reports audit events discarded under backpressure.
func (s *Service) AuditDropped() uint64 {
	return s.audit.Dropped()
}

// Authenticate resolves an access token to a [Caller]. The account is loaded
// fresh from the store so a deactivated, locked, or unverified account is
// rejected even while its token signature is still valid.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*Caller, error) {
	if accessToken == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	acct, err := s.store.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	if !acct.IsActive {
		return nil, ErrAccountDisabled
	}
	if acct.Locked() {
		return nil, ErrAccountLocked
	}
	if !acct.IsVerified {
		return nil, ErrAccountNotVerified
	}
	if !acct.Role.Valid() {
		return nil, ErrNoRoleAssigned
	}

	return &Caller{
		Account: summarize(acct),
		Role:    acct.Role,
	}, nil
}

// CurrentAccount returns the sanitized account behind an access token.
func (s *Service) CurrentAccount(ctx context.Context, accessToken string) (AccountSummary, error) {
	caller, err := s.Authenticate(ctx, accessToken)
	if err != nil {
		return AccountSummary{}, err
	}
	return caller.Account, nil
}

func (s *Service) issuePair(ctx context.Context, acct Account) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(acct.ID, acct.Email, acct.Role.String())
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh(acct.ID, acct.Email, acct.Role.String())
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	// The stored slot is what makes refresh tokens revocable; persist before
	// returning the pair.
	if err := s.store.SetRefreshToken(ctx, acct.ID, refresh); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) emitAudit(ctx context.Context, eventType, method string, acct *Account, success bool, opErr error) {
	if s.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		Method:    method,
		IP:        clientIPFromContext(ctx),
		UserAgent: userAgentFromContext(ctx),
		Success:   success,
	}
	if acct != nil {
		event.AccountID = acct.ID
		event.Email = acct.Email
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}

	s.audit.Emit(ctx, event)
}
