package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"strings"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		SigningMethod: MethodHS256,
		Secret:        []byte("0123456789abcdef0123456789abcdef"),
		Issuer:        "https://auth.test",
		Audience:      "https://api.test",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}
}

func newTestManager(t *testing.T, cfg Config) *Manager {
	t.Helper()

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestNewManagerRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero access ttl", func(c *Config) { c.AccessTTL = 0 }},
		{"zero refresh ttl", func(c *Config) { c.RefreshTTL = 0 }},
		{"short secret", func(c *Config) { c.Secret = []byte("short") }},
		{"missing issuer", func(c *Config) { c.Issuer = "" }},
		{"missing audience", func(c *Config) { c.Audience = "" }},
		{"unknown method", func(c *Config) { c.SigningMethod = "rs256" }},
		{"excess leeway", func(c *Config) { c.Leeway = time.Hour }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			if _, err := NewManager(cfg); err == nil {
				t.Fatal("expected config rejection")
			}
		})
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager(t, testConfig())

	token, err := m.SignAccess("u1", "a@x.com")
	if err != nil {
		t.Fatalf("SignAccess failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Subject != "u1" {
		t.Fatalf("expected subject u1, got %q", claims.Subject)
	}
	if claims.Email != "a@x.com" {
		t.Fatalf("expected email claim, got %q", claims.Email)
	}
	if claims.RefreshTokenID != "" {
		t.Fatal("access token must not carry a session identifier")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager(t, testConfig())

	token, err := m.SignRefresh("u1", "rti-1")
	if err != nil {
		t.Fatalf("SignRefresh failed: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.RefreshTokenID != "rti-1" {
		t.Fatalf("expected rti-1, got %q", claims.RefreshTokenID)
	}
	if claims.Email != "" {
		t.Fatal("refresh token must not carry an email claim")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	cfg := testConfig()
	cfg.AccessTTL = time.Nanosecond
	m := newTestManager(t, cfg)

	token, err := m.SignAccess("u1", "")
	if err != nil {
		t.Fatalf("SignAccess failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, err := m.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for expired token, got %v", err)
	}
}

func TestVerifyRejectsTampered(t *testing.T) {
	m := newTestManager(t, testConfig())

	token, err := m.SignAccess("u1", "")
	if err != nil {
		t.Fatalf("SignAccess failed: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	if _, err := m.Verify(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for tampered token, got %v", err)
	}
}

func TestVerifyRejectsWrongIssuerAndAudience(t *testing.T) {
	issuerCfg := testConfig()
	issuerCfg.Issuer = "https://other.test"
	audienceCfg := testConfig()
	audienceCfg.Audience = "https://other.test"

	for name, cfg := range map[string]Config{
		"issuer":   issuerCfg,
		"audience": audienceCfg,
	} {
		t.Run(name, func(t *testing.T) {
			foreign := newTestManager(t, cfg)
			token, err := foreign.SignAccess("u1", "")
			if err != nil {
				t.Fatalf("SignAccess failed: %v", err)
			}

			m := newTestManager(t, testConfig())
			if _, err := m.Verify(token); !errors.Is(err, ErrTokenInvalid) {
				t.Fatalf("expected ErrTokenInvalid, got %v", err)
			}
		})
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	foreignCfg := testConfig()
	foreignCfg.Secret = []byte("fedcba9876543210fedcba9876543210")
	foreign := newTestManager(t, foreignCfg)

	token, err := foreign.SignRefresh("u1", "rti-1")
	if err != nil {
		t.Fatalf("SignRefresh failed: %v", err)
	}

	m := newTestManager(t, testConfig())
	if _, err := m.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newTestManager(t, testConfig())

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Verify(token); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid for %q, got %v", token, err)
		}
	}
}

func TestEd25519RoundTrip(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	cfg := testConfig()
	cfg.SigningMethod = MethodEd25519
	cfg.Secret = priv
	m := newTestManager(t, cfg)

	token, err := m.SignAccess("u1", "a@x.com")
	if err != nil {
		t.Fatalf("SignAccess failed: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Subject != "u1" {
		t.Fatalf("expected subject u1, got %q", claims.Subject)
	}
}
