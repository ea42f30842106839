package dashAuth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestForgotPasswordUnknownEmailIndistinguishable(t *testing.T) {
	svc, _, email := newTestService(t, nil)

	if err := svc.ForgotPassword(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if len(email.resets) != 0 {
		t.Fatal("no reset mail may go out for an unknown address")
	}
	if svc.metrics.Value(MetricPasswordResetRequest) != 1 {
		t.Fatal("request not counted")
	}
}

func TestPasswordResetEndToEnd(t *testing.T) {
	svc, store, email := newTestService(t, nil)
	ctx := context.Background()
	acct := seedAccount(t, svc, store, "reset@example.com", "old-password-1")

	if err := svc.ForgotPassword(ctx, "reset@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}

	tok := email.resets["reset@example.com"]
	if len(tok) != 64 {
		t.Fatalf("token length = %d, want 64 hex chars", len(tok))
	}
	// Only the hash is persisted.
	if stored := store.get(acct.ID); string(stored.ResetTokenHash) == tok {
		t.Fatal("reset token stored in plaintext")
	}

	if err := svc.ResetPassword(ctx, tok, "new-password-1"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	// Old password out, new password in.
	if _, err := svc.Login(ctx, "reset@example.com", "old-password-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "reset@example.com", "new-password-1"); err != nil {
		t.Fatalf("new password: %v", err)
	}

	// The token is single-use.
	if err := svc.ResetPassword(ctx, tok, "another-pass-1"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("reused token: err = %v, want ErrResetTokenInvalid", err)
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	svc, store, email := newTestService(t, nil)
	ctx := context.Background()
	acct := seedAccount(t, svc, store, "slow@example.com", "old-password-1")

	if err := svc.ForgotPassword(ctx, "slow@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	expired := store.get(acct.ID)
	expired.ResetExpiresAt = time.Now().Add(-time.Second)
	store.put(expired)

	tok := email.resets["slow@example.com"]
	if err := svc.ResetPassword(ctx, tok, "new-password-1"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("err = %v, want ErrResetTokenInvalid", err)
	}
}

func TestResetPasswordBogusToken(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	err := svc.ResetPassword(context.Background(), "deadbeef", "new-password-1")
	if !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("err = %v, want ErrResetTokenInvalid", err)
	}
}

func TestForgotPasswordSupersedesOutstandingToken(t *testing.T) {
	svc, store, email := newTestService(t, nil)
	ctx := context.Background()
	seedAccount(t, svc, store, "twice@example.com", "old-password-1")

	if err := svc.ForgotPassword(ctx, "twice@example.com"); err != nil {
		t.Fatalf("first ForgotPassword: %v", err)
	}
	first := email.resets["twice@example.com"]

	if err := svc.ForgotPassword(ctx, "twice@example.com"); err != nil {
		t.Fatalf("second ForgotPassword: %v", err)
	}
	second := email.resets["twice@example.com"]
	if first == second {
		t.Fatal("expected a fresh token")
	}

	// The superseded token is dead; the fresh one works.
	if err := svc.ResetPassword(ctx, first, "new-password-1"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("superseded token: err = %v, want ErrResetTokenInvalid", err)
	}
	if err := svc.ResetPassword(ctx, second, "new-password-1"); err != nil {
		t.Fatalf("fresh token: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, store, _ := newTestService(t, nil)
	ctx := context.Background()
	acct := seedAccount(t, svc, store, "change@example.com", "old-password-1")

	if err := svc.ChangePassword(ctx, acct.ID, "wrong-current", "new-password-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong current: err = %v, want ErrInvalidCredentials", err)
	}
	if err := svc.ChangePassword(ctx, acct.ID, "old-password-1", "new-password-1"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := svc.Login(ctx, "change@example.com", "new-password-1"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestChangePasswordOAuthAccount(t *testing.T) {
	svc, store, _ := newTestService(t, nil)

	acct := Account{
		ID:          "oauth-only",
		Email:       "sso@example.com",
		Role:        svc.defaultRole,
		IsVerified:  true,
		IsActive:    true,
		ProviderIDs: map[Provider]string{ProviderGoogle: "sub-1"},
	}
	store.put(acct)

	err := svc.ChangePassword(context.Background(), acct.ID, "anything", "new-password-1")
	if !errors.Is(err, ErrOAuthAccountNoPassword) {
		t.Fatalf("err = %v, want ErrOAuthAccountNoPassword", err)
	}
}

func TestChangePasswordUnknownAccount(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	err := svc.ChangePassword(context.Background(), "missing", "a-password-1", "new-password-1")
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("err = %v, want ErrAccountNotFound", err)
	}
}
