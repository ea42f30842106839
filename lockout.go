package dashAuth

import (
	"context"
	"time"
)

// registerFailedAttempt applies one lockout transition after a wrong
// password. A failure landing on an already-expired lock restarts the
// counter at 1 instead of stacking onto stale history; otherwise the counter
// increments and trips a fresh lock at the threshold.
//
// The write is a single-row update; concurrent failures may undercount,
// which only delays the lock by one attempt.
func (s *Service) registerFailedAttempt(ctx context.Context, acct Account) (locked bool, err error) {
	now := time.Now()

	attempts := acct.LoginAttempts
	lockUntil := acct.LockUntil

	if !lockUntil.IsZero() && !lockUntil.After(now) {
		attempts = 1
		lockUntil = time.Time{}
	} else {
		attempts++
		if attempts >= s.cfg.Lockout.Threshold && !acct.Locked() {
			lockUntil = now.Add(s.cfg.Lockout.LockDuration)
			locked = true
		}
	}

	return locked, s.store.SetLoginAttempts(ctx, acct.ID, attempts, lockUntil)
}

// clearFailedAttempts resets the counter after a correct password. The write
// is skipped when there is nothing to clear.
func (s *Service) clearFailedAttempts(ctx context.Context, acct Account) error {
	if acct.LoginAttempts == 0 && acct.LockUntil.IsZero() {
		return nil
	}
	return s.store.SetLoginAttempts(ctx, acct.ID, 0, time.Time{})
}
