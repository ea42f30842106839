package dashAuth

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// mockStore is an in-memory AccountStore with per-method call counters and
// injectable failures.
type mockStore struct {
	mu      sync.Mutex
	byID    map[string]Account
	byEmail map[string]string
	calls   map[string]int
	failOn  map[string]error
}

func newMockStore() *mockStore {
	return &mockStore{
		byID:    make(map[string]Account),
		byEmail: make(map[string]string),
		calls:   make(map[string]int),
		failOn:  make(map[string]error),
	}
}

func (m *mockStore) put(a Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[a.ID] = a
	m.byEmail[strings.ToLower(a.Email)] = a.ID
}

func (m *mockStore) get(id string) Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id]
}

func (m *mockStore) callCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *mockStore) enter(method string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[method]++
	return m.failOn[method]
}

func (m *mockStore) GetByEmail(_ context.Context, email string) (Account, error) {
	if err := m.enter("GetByEmail"); err != nil {
		return Account{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return m.byID[id], nil
}

func (m *mockStore) GetByID(_ context.Context, id string) (Account, error) {
	if err := m.enter("GetByID"); err != nil {
		return Account{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return a, nil
}

func (m *mockStore) GetByResetTokenHash(_ context.Context, hash [32]byte) (Account, error) {
	if err := m.enter("GetByResetTokenHash"); err != nil {
		return Account{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if bytes.Equal(a.ResetTokenHash, hash[:]) {
			return a, nil
		}
	}
	return Account{}, ErrAccountNotFound
}

func (m *mockStore) Create(_ context.Context, account Account) error {
	if err := m.enter("Create"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byEmail[strings.ToLower(account.Email)]; exists {
		return ErrEmailTaken
	}
	m.byID[account.ID] = account
	m.byEmail[strings.ToLower(account.Email)] = account.ID
	return nil
}

func (m *mockStore) mutate(method, id string, fn func(*Account)) error {
	if err := m.enter(method); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return ErrAccountNotFound
	}
	fn(&a)
	m.byID[id] = a
	return nil
}

func (m *mockStore) SetOTP(_ context.Context, id string, hash [32]byte, expiresAt time.Time) error {
	return m.mutate("SetOTP", id, func(a *Account) {
		a.OTPHash = append([]byte(nil), hash[:]...)
		a.OTPExpiresAt = expiresAt
	})
}

func (m *mockStore) ClearOTP(_ context.Context, id string) error {
	return m.mutate("ClearOTP", id, func(a *Account) {
		a.OTPHash = nil
		a.OTPExpiresAt = time.Time{}
	})
}

func (m *mockStore) SetLoginAttempts(_ context.Context, id string, attempts int, lockUntil time.Time) error {
	return m.mutate("SetLoginAttempts", id, func(a *Account) {
		a.LoginAttempts = attempts
		a.LockUntil = lockUntil
	})
}

func (m *mockStore) SetPasswordHash(_ context.Context, id string, hash string) error {
	return m.mutate("SetPasswordHash", id, func(a *Account) {
		a.PasswordHash = hash
	})
}

func (m *mockStore) SetRefreshToken(_ context.Context, id string, token string) error {
	return m.mutate("SetRefreshToken", id, func(a *Account) {
		a.RefreshToken = token
	})
}

func (m *mockStore) SetResetToken(_ context.Context, id string, hash [32]byte, expiresAt time.Time) error {
	return m.mutate("SetResetToken", id, func(a *Account) {
		a.ResetTokenHash = append([]byte(nil), hash[:]...)
		a.ResetExpiresAt = expiresAt
	})
}

func (m *mockStore) ClearResetToken(_ context.Context, id string) error {
	return m.mutate("ClearResetToken", id, func(a *Account) {
		a.ResetTokenHash = nil
		a.ResetExpiresAt = time.Time{}
	})
}

func (m *mockStore) MarkVerified(_ context.Context, id string) error {
	return m.mutate("MarkVerified", id, func(a *Account) {
		a.IsVerified = true
	})
}

func (m *mockStore) SetLastLogin(_ context.Context, id string, at time.Time) error {
	return m.mutate("SetLastLogin", id, func(a *Account) {
		a.LastLogin = at
	})
}

func (m *mockStore) LinkProvider(_ context.Context, id string, provider Provider, subject string) error {
	return m.mutate("LinkProvider", id, func(a *Account) {
		if a.ProviderIDs == nil {
			a.ProviderIDs = make(map[Provider]string, 1)
		}
		if a.ProviderIDs[provider] == "" {
			a.ProviderIDs[provider] = subject
		}
	})
}

type sentOTP struct {
	email   string
	code    string
	purpose OTPPurpose
}

// mockEmail records every delivery so tests can replay plaintext secrets.
type mockEmail struct {
	mu         sync.Mutex
	otps       []sentOTP
	welcomes   []string
	resets     map[string]string // email -> last reset token
	failOTP    error
	failReset  error
	failWelcom error
}

func newMockEmail() *mockEmail {
	return &mockEmail{resets: make(map[string]string)}
}

func (m *mockEmail) SendOTP(_ context.Context, email, code string, purpose OTPPurpose) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOTP != nil {
		return m.failOTP
	}
	m.otps = append(m.otps, sentOTP{email: email, code: code, purpose: purpose})
	return nil
}

func (m *mockEmail) SendWelcome(_ context.Context, email, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWelcom != nil {
		return m.failWelcom
	}
	m.welcomes = append(m.welcomes, email)
	return nil
}

func (m *mockEmail) SendPasswordReset(_ context.Context, email, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReset != nil {
		return m.failReset
	}
	m.resets[email] = token
	return nil
}

func (m *mockEmail) lastOTP(t *testing.T, email string) sentOTP {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.otps) - 1; i >= 0; i-- {
		if m.otps[i].email == email {
			return m.otps[i]
		}
	}
	t.Fatalf("no otp sent to %s", email)
	return sentOTP{}
}

func (m *mockEmail) otpCount(email string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, o := range m.otps {
		if o.email == email {
			n++
		}
	}
	return n
}

func testServiceConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.AccessSecret = bytes.Repeat([]byte("a"), 32)
	cfg.Token.RefreshSecret = bytes.Repeat([]byte("r"), 32)
	cfg.Token.Issuer = "dashauth-test"
	// Minimum cost keeps the suite fast.
	cfg.Password.Cost = 4
	return cfg
}

func newTestService(t *testing.T, mutate func(*Config)) (*Service, *mockStore, *mockEmail) {
	t.Helper()

	cfg := testServiceConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	store := newMockStore()
	email := newMockEmail()

	svc, err := New().
		WithConfig(cfg).
		WithStore(store).
		WithEmailSender(email).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(svc.Close)

	return svc, store, email
}

// seedAccount registers a verified active account directly in the store and
// returns it.
func seedAccount(t *testing.T, svc *Service, store *mockStore, email, plaintext string) Account {
	t.Helper()

	hash, err := svc.hasher.Hash(plaintext)
	if err != nil {
		t.Fatalf("hash seed password: %v", err)
	}

	acct := Account{
		ID:           "acct-" + strings.SplitN(email, "@", 2)[0],
		Email:        strings.ToLower(email),
		FirstName:    "Test",
		PasswordHash: hash,
		Role:         svc.defaultRole,
		IsVerified:   true,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	store.put(acct)
	return acct
}
