package authcore

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/cmridge/authcore/jwt"
	"github.com/cmridge/authcore/password"
	"github.com/cmridge/authcore/session"
)

// Builder assembles an [Engine]. Construction is allocation-only; no I/O
// happens until the first Engine call.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	users     UserStore
	hasher    Hasher
	signer    TokenSigner
	sessions  SessionStore
	auditSink AuditSink

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis sets the Redis client backing the default session store.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUserStore sets the credential store. Required.
func (b *Builder) WithUserStore(store UserStore) *Builder {
	b.users = store
	return b
}

// WithHasher overrides the default argon2id hasher.
func (b *Builder) WithHasher(h Hasher) *Builder {
	b.hasher = h
	return b
}

// WithTokenSigner overrides the default jwt.Manager signer.
func (b *Builder) WithTokenSigner(s TokenSigner) *Builder {
	b.signer = s
	return b
}

// WithSessionStore overrides the default Redis session store.
func (b *Builder) WithSessionStore(s SessionStore) *Builder {
	b.sessions = s
	return b
}

// WithAuditSink sets the sink receiving audit events when auditing is
// enabled in the config.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// Build validates the configuration, wires defaults for any collaborator
// not explicitly injected, and returns a ready Engine. A Builder builds at
// most once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.users == nil {
		return nil, errors.New("user store is required")
	}
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	hasher := b.hasher
	if hasher == nil {
		h, err := password.NewArgon2(b.config.Password)
		if err != nil {
			return nil, err
		}
		hasher = h
	}

	signer := b.signer
	if signer == nil {
		m, err := jwt.NewManager(jwt.Config{
			SigningMethod: jwt.SigningMethod(b.config.JWT.SigningMethod),
			Secret:        b.config.JWT.Secret,
			PublicKey:     b.config.JWT.PublicKey,
			Issuer:        b.config.JWT.Issuer,
			Audience:      b.config.JWT.Audience,
			AccessTTL:     b.config.JWT.AccessTTL,
			RefreshTTL:    b.config.JWT.RefreshTTL,
			Leeway:        b.config.JWT.Leeway,
		})
		if err != nil {
			return nil, err
		}
		signer = m
	}

	sessions := b.sessions
	if sessions == nil {
		if b.redis == nil {
			return nil, errors.New("redis client or session store is required")
		}
		sessions = session.NewStore(b.redis, b.config.Session.RedisPrefix)
	}

	b.built = true

	return &Engine{
		config:   b.config,
		users:    b.users,
		hasher:   hasher,
		signer:   signer,
		sessions: sessions,
		audit:    newAuditDispatcher(b.config.Audit, b.auditSink),
		metrics:  NewMetrics(b.config.Metrics),
	}, nil
}
