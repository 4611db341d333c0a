package jwt

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid covers every verification failure at this layer:
// malformed token, bad signature, expiry, wrong issuer or audience. The
// engine treats all of them identically, so they are collapsed here.
var ErrTokenInvalid = errors.New("invalid token")

// SigningMethod selects the token signature algorithm.
type SigningMethod string

const (
	// MethodHS256 signs with a shared secret.
	MethodHS256 SigningMethod = "hs256"
	// MethodEd25519 signs with an Ed25519 private key.
	MethodEd25519 SigningMethod = "ed25519"
)

// Config carries the signing parameters shared by access and refresh
// tokens. The two token kinds differ only in TTL and claim content.
type Config struct {
	SigningMethod SigningMethod
	Secret        []byte // HS256 shared secret, or Ed25519 private key bytes
	PublicKey     []byte // Ed25519 only; derived from Secret when empty
	Issuer        string
	Audience      string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Leeway        time.Duration
}

// Claims is the deterministic claim shape embedded in every token signed by
// this package. Email is set on access tokens only; RefreshTokenID (rti) is
// set on refresh tokens only and mirrors the session-store record.
type Claims struct {
	Email          string `json:"email,omitempty"`
	RefreshTokenID string `json:"rti,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and verifies time-bounded tokens. It is immutable after
// construction and safe for concurrent use.
type Manager struct {
	config Config
}

// NewManager validates cfg and returns a [Manager].
func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.Issuer == "" || cfg.Audience == "" {
		return nil, errors.New("issuer and audience are required")
	}
	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.Secret) < 32 {
			return nil, errors.New("hs256 requires a secret of at least 32 bytes")
		}
	case MethodEd25519:
		if len(cfg.Secret) != ed25519.PrivateKeySize {
			return nil, errors.New("invalid ed25519 private key")
		}
		if len(cfg.PublicKey) == 0 {
			cfg.PublicKey = []byte(ed25519.PrivateKey(cfg.Secret).Public().(ed25519.PublicKey))
		}
		if len(cfg.PublicKey) != ed25519.PublicKeySize {
			return nil, errors.New("invalid ed25519 public key")
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return &Manager{config: cfg}, nil
}

// SignAccess produces an access token for subject with the configured
// AccessTTL. Email is embedded so transports can identify the caller
// without a store round-trip.
func (m *Manager) SignAccess(subject, email string) (string, error) {
	return m.sign(Claims{Email: email}, subject, m.config.AccessTTL)
}

// SignRefresh produces a refresh token for subject carrying the session
// identifier tokenID, with the configured RefreshTTL.
func (m *Manager) SignRefresh(subject, tokenID string) (string, error) {
	return m.sign(Claims{RefreshTokenID: tokenID}, subject, m.config.RefreshTTL)
}

func (m *Manager) sign(claims Claims, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    m.config.Issuer,
		Audience:  jwt.ClaimStrings{m.config.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(m.method(), claims)

	key, err := m.signKey()
	if err != nil {
		return "", err
	}
	return token.SignedString(key)
}

// Verify checks signature, issuer, audience, and expiry and returns the
// decoded claims. Any failure is reported as [ErrTokenInvalid].
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.method().Alg()}),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != m.method().Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return m.verifyKey()
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

func (m *Manager) method() jwt.SigningMethod {
	switch m.config.SigningMethod {
	case MethodEd25519:
		return jwt.SigningMethodEdDSA
	default:
		return jwt.SigningMethodHS256
	}
}

func (m *Manager) signKey() (interface{}, error) {
	switch m.config.SigningMethod {
	case MethodEd25519:
		return ed25519.PrivateKey(m.config.Secret), nil
	default:
		return m.config.Secret, nil
	}
}

func (m *Manager) verifyKey() (interface{}, error) {
	switch m.config.SigningMethod {
	case MethodEd25519:
		return ed25519.PublicKey(m.config.PublicKey), nil
	default:
		return m.config.Secret, nil
	}
}
