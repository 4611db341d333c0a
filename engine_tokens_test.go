package authcore

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmridge/authcore/jwt"
)

// recordingSigner counts signing operations, optionally failing them.
type recordingSigner struct {
	inner *jwt.Manager

	accessCalls  atomic.Int64
	refreshCalls atomic.Int64

	failAccess  error
	failRefresh error
}

func newRecordingSigner(t *testing.T) *recordingSigner {
	t.Helper()

	cfg := testEngineConfig()
	mgr, err := jwt.NewManager(jwt.Config{
		SigningMethod: jwt.MethodHS256,
		Secret:        cfg.JWT.Secret,
		Issuer:        cfg.JWT.Issuer,
		Audience:      cfg.JWT.Audience,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return &recordingSigner{inner: mgr}
}

func (s *recordingSigner) SignAccess(subject, email string) (string, error) {
	s.accessCalls.Add(1)
	if s.failAccess != nil {
		return "", s.failAccess
	}
	return s.inner.SignAccess(subject, email)
}

func (s *recordingSigner) SignRefresh(subject, tokenID string) (string, error) {
	s.refreshCalls.Add(1)
	if s.failRefresh != nil {
		return "", s.failRefresh
	}
	return s.inner.SignRefresh(subject, tokenID)
}

func (s *recordingSigner) Verify(token string) (*jwt.Claims, error) {
	return s.inner.Verify(token)
}

// recordingSessions is an in-memory SessionStore counting inserts.
type recordingSessions struct {
	mu      sync.Mutex
	records map[string]string
	inserts int
	history []string
}

func newRecordingSessions() *recordingSessions {
	return &recordingSessions{records: map[string]string{}}
}

func (s *recordingSessions) Insert(_ context.Context, userID, tokenID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	s.history = append(s.history, tokenID)
	s.records[userID] = tokenID
	return nil
}

func (s *recordingSessions) Validate(_ context.Context, userID, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.records[userID]
	return ok && stored == tokenID, nil
}

func (s *recordingSessions) Invalidate(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, userID)
	return nil
}

func newCountingEngine(t *testing.T) (*Engine, *recordingSigner, *recordingSessions) {
	t.Helper()

	signer := newRecordingSigner(t)
	sessions := newRecordingSessions()

	engine, err := New().
		WithConfig(testEngineConfig()).
		WithUserStore(newMockUserStore()).
		WithTokenSigner(signer).
		WithSessionStore(sessions).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, signer, sessions
}

// One token pair costs exactly two signings and one session insert.
func TestGenerateTokensCallCounts(t *testing.T) {
	ctx := context.Background()
	engine, signer, sessions := newCountingEngine(t)

	user := &UserIdentity{ID: "7", Email: "a@x.com"}
	if _, err := engine.GenerateTokens(ctx, user); err != nil {
		t.Fatalf("GenerateTokens failed: %v", err)
	}

	if got := signer.accessCalls.Load(); got != 1 {
		t.Fatalf("expected 1 access signing, got %d", got)
	}
	if got := signer.refreshCalls.Load(); got != 1 {
		t.Fatalf("expected 1 refresh signing, got %d", got)
	}
	if sessions.inserts != 1 {
		t.Fatalf("expected 1 session insert, got %d", sessions.inserts)
	}
}

// A signing failure must leave the session store untouched so the user's
// current refresh session stays valid.
func TestGenerateTokensSigningFailureSkipsInsert(t *testing.T) {
	ctx := context.Background()
	engine, signer, sessions := newCountingEngine(t)

	user := &UserIdentity{ID: "7", Email: "a@x.com"}
	if _, err := engine.GenerateTokens(ctx, user); err != nil {
		t.Fatalf("GenerateTokens failed: %v", err)
	}
	current := sessions.history[0]

	signFailed := errors.New("hsm offline")
	signer.failAccess = signFailed

	_, err := engine.GenerateTokens(ctx, user)
	if !errors.Is(err, signFailed) {
		t.Fatalf("expected signing failure to surface, got %v", err)
	}
	if sessions.inserts != 1 {
		t.Fatalf("expected no insert after signing failure, got %d", sessions.inserts)
	}

	ok, err := sessions.Validate(ctx, user.ID, current)
	if err != nil || !ok {
		t.Fatalf("expected prior session to survive a failed issuance, ok=%v err=%v", ok, err)
	}
}

func TestGenerateTokensOverwritesPriorSession(t *testing.T) {
	ctx := context.Background()
	engine, _, sessions := newCountingEngine(t)

	user := &UserIdentity{ID: "7", Email: "a@x.com"}
	for i := 0; i < 2; i++ {
		if _, err := engine.GenerateTokens(ctx, user); err != nil {
			t.Fatalf("GenerateTokens failed: %v", err)
		}
	}

	first, second := sessions.history[0], sessions.history[1]
	if first == second {
		t.Fatal("expected a fresh session identifier per issuance")
	}

	if ok, _ := sessions.Validate(ctx, user.ID, first); ok {
		t.Fatal("expected first session identifier to be superseded")
	}
	if ok, _ := sessions.Validate(ctx, user.ID, second); !ok {
		t.Fatal("expected second session identifier to be current")
	}
}
