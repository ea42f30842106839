package store

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	dashAuth "github.com/MrEthical07/dashAuth"
	"github.com/MrEthical07/dashAuth/permission"
	"github.com/redis/go-redis/v9"
)

const (
	acctKeyPrefix  = "da:acct:"
	emailKeyPrefix = "da:email:"
	resetKeyPrefix = "da:reset:"

	maxRetries = 16
)

// retryBackoff sleeps briefly before the next optimistic attempt. The jitter
// spreads contending writers of the same key apart so they stop invalidating
// each other's WATCH.
func retryBackoff(ctx context.Context, attempt int) {
	d := time.Duration(attempt+1) * time.Millisecond
	d += rand.N(time.Millisecond)

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// RedisStore implements dashAuth.AccountStore on a go-redis client. Safe
// for concurrent use.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps an initialized client. The store never closes it.
func NewRedisStore(client redis.UniversalClient) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("nil redis client")
	}
	return &RedisStore{client: client}, nil
}

// record is the wire representation of one account.
type record struct {
	ID             string            `json:"id"`
	Email          string            `json:"email"`
	FirstName      string            `json:"first_name,omitempty"`
	LastName       string            `json:"last_name,omitempty"`
	PasswordHash   string            `json:"password_hash,omitempty"`
	Role           string            `json:"role"`
	IsVerified     bool              `json:"is_verified"`
	IsActive       bool              `json:"is_active"`
	OTPHash        []byte            `json:"otp_hash,omitempty"`
	OTPExpiresAt   time.Time         `json:"otp_expires_at,omitzero"`
	LoginAttempts  int               `json:"login_attempts,omitempty"`
	LockUntil      time.Time         `json:"lock_until,omitzero"`
	RefreshToken   string            `json:"refresh_token,omitempty"`
	ResetTokenHash []byte            `json:"reset_token_hash,omitempty"`
	ResetExpiresAt time.Time         `json:"reset_expires_at,omitzero"`
	ProviderIDs    map[string]string `json:"provider_ids,omitempty"`
	LastLogin      time.Time         `json:"last_login,omitzero"`
	CreatedAt      time.Time         `json:"created_at"`
}

func toRecord(a dashAuth.Account) record {
	rec := record{
		ID:             a.ID,
		Email:          a.Email,
		FirstName:      a.FirstName,
		LastName:       a.LastName,
		PasswordHash:   a.PasswordHash,
		Role:           a.Role.String(),
		IsVerified:     a.IsVerified,
		IsActive:       a.IsActive,
		OTPHash:        a.OTPHash,
		OTPExpiresAt:   a.OTPExpiresAt,
		LoginAttempts:  a.LoginAttempts,
		LockUntil:      a.LockUntil,
		RefreshToken:   a.RefreshToken,
		ResetTokenHash: a.ResetTokenHash,
		ResetExpiresAt: a.ResetExpiresAt,
		LastLogin:      a.LastLogin,
		CreatedAt:      a.CreatedAt,
	}
	if len(a.ProviderIDs) > 0 {
		rec.ProviderIDs = make(map[string]string, len(a.ProviderIDs))
		for p, subject := range a.ProviderIDs {
			rec.ProviderIDs[string(p)] = subject
		}
	}
	return rec
}

func fromRecord(rec record) dashAuth.Account {
	role, _ := permission.ParseRole(rec.Role)

	a := dashAuth.Account{
		ID:             rec.ID,
		Email:          rec.Email,
		FirstName:      rec.FirstName,
		LastName:       rec.LastName,
		PasswordHash:   rec.PasswordHash,
		Role:           role,
		IsVerified:     rec.IsVerified,
		IsActive:       rec.IsActive,
		OTPHash:        rec.OTPHash,
		OTPExpiresAt:   rec.OTPExpiresAt,
		LoginAttempts:  rec.LoginAttempts,
		LockUntil:      rec.LockUntil,
		RefreshToken:   rec.RefreshToken,
		ResetTokenHash: rec.ResetTokenHash,
		ResetExpiresAt: rec.ResetExpiresAt,
		LastLogin:      rec.LastLogin,
		CreatedAt:      rec.CreatedAt,
	}
	if len(rec.ProviderIDs) > 0 {
		a.ProviderIDs = make(map[dashAuth.Provider]string, len(rec.ProviderIDs))
		for p, subject := range rec.ProviderIDs {
			a.ProviderIDs[dashAuth.Provider(p)] = subject
		}
	}
	return a
}

func acctKey(id string) string { return acctKeyPrefix + id }

// Email keys are lowercased so lookups are case-insensitive regardless of
// how the caller spells the address.
func emailKey(email string) string { return emailKeyPrefix + strings.ToLower(email) }

func resetKey(hash [32]byte) string { return resetKeyPrefix + hex.EncodeToString(hash[:]) }

func resetKeyBytes(hash []byte) string { return resetKeyPrefix + hex.EncodeToString(hash) }

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", dashAuth.ErrStoreUnavailable, op, err)
}

// Create persists a new account and its email index. The email index write
// is the uniqueness check; a concurrent claim of the same email loses the
// transaction and reports dashAuth.ErrEmailTaken.
func (s *RedisStore) Create(ctx context.Context, account dashAuth.Account) error {
	if account.ID == "" || account.Email == "" {
		return errors.New("account id and email are required")
	}

	data, err := json.Marshal(toRecord(account))
	if err != nil {
		return storeErr("encode account", err)
	}

	eKey := emailKey(account.Email)

	for i := 0; i < maxRetries; i++ {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			_, err := tx.Get(ctx, eKey).Result()
			if err == nil {
				return dashAuth.ErrEmailTaken
			}
			if !errors.Is(err, redis.Nil) {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, acctKey(account.ID), data, 0)
				pipe.Set(ctx, eKey, account.ID, 0)
				return nil
			})
			return err
		}, eKey)

		if errors.Is(err, redis.TxFailedErr) {
			retryBackoff(ctx, i)
			continue
		}
		if errors.Is(err, dashAuth.ErrEmailTaken) {
			return dashAuth.ErrEmailTaken
		}
		if err != nil {
			return storeErr("create account", err)
		}
		return nil
	}

	return storeErr("create account", errors.New("transaction retries exhausted"))
}

// GetByID loads one account.
func (s *RedisStore) GetByID(ctx context.Context, id string) (dashAuth.Account, error) {
	return s.getByKey(ctx, acctKey(id))
}

// GetByEmail resolves the lowercase email index and loads the account.
func (s *RedisStore) GetByEmail(ctx context.Context, email string) (dashAuth.Account, error) {
	id, err := s.client.Get(ctx, emailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return dashAuth.Account{}, dashAuth.ErrAccountNotFound
	}
	if err != nil {
		return dashAuth.Account{}, storeErr("resolve email", err)
	}
	return s.GetByID(ctx, id)
}

// GetByResetTokenHash resolves the reset index and loads the account. The
// stored hash is re-checked so a superseded index entry cannot resolve.
func (s *RedisStore) GetByResetTokenHash(ctx context.Context, hash [32]byte) (dashAuth.Account, error) {
	id, err := s.client.Get(ctx, resetKey(hash)).Result()
	if errors.Is(err, redis.Nil) {
		return dashAuth.Account{}, dashAuth.ErrAccountNotFound
	}
	if err != nil {
		return dashAuth.Account{}, storeErr("resolve reset token", err)
	}

	acct, err := s.GetByID(ctx, id)
	if err != nil {
		return dashAuth.Account{}, err
	}
	if !bytes.Equal(acct.ResetTokenHash, hash[:]) {
		return dashAuth.Account{}, dashAuth.ErrAccountNotFound
	}
	return acct, nil
}

func (s *RedisStore) getByKey(ctx context.Context, key string) (dashAuth.Account, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return dashAuth.Account{}, dashAuth.ErrAccountNotFound
	}
	if err != nil {
		return dashAuth.Account{}, storeErr("load account", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return dashAuth.Account{}, storeErr("decode account", err)
	}
	return fromRecord(rec), nil
}

// update applies one optimistic read-modify-write on an account record.
// extra, when non-nil, queues additional commands inside the same MULTI.
func (s *RedisStore) update(ctx context.Context, id string, mutate func(*record), extra func(redis.Pipeliner, *record)) error {
	key := acctKey(id)

	for i := 0; i < maxRetries; i++ {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				return dashAuth.ErrAccountNotFound
			}
			if err != nil {
				return err
			}

			var rec record
			if err := json.Unmarshal(data, &rec); err != nil {
				return err
			}

			mutate(&rec)

			out, err := json.Marshal(rec)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, out, 0)
				if extra != nil {
					extra(pipe, &rec)
				}
				return nil
			})
			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			retryBackoff(ctx, i)
			continue
		}
		if errors.Is(err, dashAuth.ErrAccountNotFound) {
			return dashAuth.ErrAccountNotFound
		}
		if err != nil {
			return storeErr("update account", err)
		}
		return nil
	}

	return storeErr("update account", errors.New("transaction retries exhausted"))
}

func (s *RedisStore) SetOTP(ctx context.Context, id string, hash [32]byte, expiresAt time.Time) error {
	return s.update(ctx, id, func(rec *record) {
		rec.OTPHash = append([]byte(nil), hash[:]...)
		rec.OTPExpiresAt = expiresAt
	}, nil)
}

func (s *RedisStore) ClearOTP(ctx context.Context, id string) error {
	return s.update(ctx, id, func(rec *record) {
		rec.OTPHash = nil
		rec.OTPExpiresAt = time.Time{}
	}, nil)
}

func (s *RedisStore) SetLoginAttempts(ctx context.Context, id string, attempts int, lockUntil time.Time) error {
	return s.update(ctx, id, func(rec *record) {
		rec.LoginAttempts = attempts
		rec.LockUntil = lockUntil
	}, nil)
}

func (s *RedisStore) SetPasswordHash(ctx context.Context, id string, hash string) error {
	return s.update(ctx, id, func(rec *record) {
		rec.PasswordHash = hash
	}, nil)
}

func (s *RedisStore) SetRefreshToken(ctx context.Context, id string, token string) error {
	return s.update(ctx, id, func(rec *record) {
		rec.RefreshToken = token
	}, nil)
}

// SetResetToken installs a new reset token, dropping the index entry of any
// superseded one. The index key carries the token TTL so stale entries
// expire on their own.
func (s *RedisStore) SetResetToken(ctx context.Context, id string, hash [32]byte, expiresAt time.Time) error {
	var previous []byte

	return s.update(ctx, id, func(rec *record) {
		previous = rec.ResetTokenHash
		rec.ResetTokenHash = append([]byte(nil), hash[:]...)
		rec.ResetExpiresAt = expiresAt
	}, func(pipe redis.Pipeliner, rec *record) {
		if len(previous) > 0 {
			pipe.Del(ctx, resetKeyBytes(previous))
		}
		ttl := time.Until(expiresAt)
		if ttl <= 0 {
			ttl = time.Second
		}
		pipe.Set(ctx, resetKey(hash), id, ttl)
	})
}

func (s *RedisStore) ClearResetToken(ctx context.Context, id string) error {
	var previous []byte

	return s.update(ctx, id, func(rec *record) {
		previous = rec.ResetTokenHash
		rec.ResetTokenHash = nil
		rec.ResetExpiresAt = time.Time{}
	}, func(pipe redis.Pipeliner, rec *record) {
		if len(previous) > 0 {
			pipe.Del(ctx, resetKeyBytes(previous))
		}
	})
}

func (s *RedisStore) MarkVerified(ctx context.Context, id string) error {
	return s.update(ctx, id, func(rec *record) {
		rec.IsVerified = true
	}, nil)
}

func (s *RedisStore) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	return s.update(ctx, id, func(rec *record) {
		rec.LastLogin = at
	}, nil)
}

func (s *RedisStore) LinkProvider(ctx context.Context, id string, provider dashAuth.Provider, subject string) error {
	return s.update(ctx, id, func(rec *record) {
		if rec.ProviderIDs == nil {
			rec.ProviderIDs = make(map[string]string, 1)
		}
		if rec.ProviderIDs[string(provider)] == "" {
			rec.ProviderIDs[string(provider)] = subject
		}
	}, nil)
}
