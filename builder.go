package dashAuth

import (
	"fmt"

	"github.com/MrEthical07/dashAuth/password"
	"github.com/MrEthical07/dashAuth/permission"
	"github.com/MrEthical07/dashAuth/token"
)

// Builder assembles a [Service]. Construction is allocation-only; no I/O
// happens until the Service methods are called.
type Builder struct {
	cfg       *Config
	store     AccountStore
	email     EmailSender
	auditSink AuditSink
}

// New starts a Builder with the [DefaultConfig] baseline.
func New() *Builder {
	return &Builder{}
}

// WithConfig replaces the default configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = &cfg
	return b
}

// WithStore sets the account persistence backend. Required.
func (b *Builder) WithStore(store AccountStore) *Builder {
	b.store = store
	return b
}

// WithEmailSender sets the outbound mail collaborator. Required.
func (b *Builder) WithEmailSender(sender EmailSender) *Builder {
	b.email = sender
	return b
}

// WithAuditSink sets the audit destination. Optional; defaults to NoOpSink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// Build validates the configuration, wires the subsystems, and returns a
// ready Service.
func (b *Builder) Build() (*Service, error) {
	cfg := DefaultConfig()
	if b.cfg != nil {
		cfg = cloneConfig(*b.cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServiceNotReady, err)
	}
	if b.store == nil {
		return nil, fmt.Errorf("%w: account store is required", ErrServiceNotReady)
	}
	if b.email == nil {
		return nil, fmt.Errorf("%w: email sender is required", ErrServiceNotReady)
	}

	defaultRole, err := permission.ParseRole(cfg.Registration.DefaultRole)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServiceNotReady, err)
	}

	hasher, err := password.NewBcrypt(password.Config{Cost: cfg.Password.Cost})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServiceNotReady, err)
	}

	tokens, err := token.NewManager(token.Config{
		AccessSecret:  cfg.Token.AccessSecret,
		RefreshSecret: cfg.Token.RefreshSecret,
		AccessTTL:     cfg.Token.AccessTTL,
		RefreshTTL:    cfg.Token.RefreshTTL,
		Issuer:        cfg.Token.Issuer,
		Leeway:        cfg.Token.Leeway,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServiceNotReady, err)
	}

	return &Service{
		cfg:         cfg,
		store:       b.store,
		email:       b.email,
		hasher:      hasher,
		tokens:      tokens,
		audit:       newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:     NewMetrics(cfg.Metrics),
		defaultRole: defaultRole,
	}, nil
}
