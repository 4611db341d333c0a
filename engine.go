package authcore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cmridge/authcore/jwt"
)

// TokenSigner creates and verifies the signed tokens issued by the Engine.
// [jwt.Manager] is the default implementation; the contract exists so tests
// can count and fail signing operations.
type TokenSigner interface {
	SignAccess(subject, email string) (string, error)
	SignRefresh(subject, tokenID string) (string, error)
	Verify(token string) (*jwt.Claims, error)
}

// SessionStore tracks the single currently-valid refresh token identifier
// per user. [session.Store] is the default Redis-backed implementation.
type SessionStore interface {
	Insert(ctx context.Context, userID, tokenID string, ttl time.Duration) error
	Validate(ctx context.Context, userID, tokenID string) (bool, error)
	Invalidate(ctx context.Context, userID string) error
}

// Engine orchestrates sign-up, sign-in, token generation, and token refresh
// over its injected collaborators. Engines are built through [Builder.Build]
// and hold no mutable state of their own; every method is safe for
// concurrent use.
type Engine struct {
	config   Config
	users    UserStore
	hasher   Hasher
	signer   TokenSigner
	sessions SessionStore
	audit    *auditDispatcher
	metrics  *Metrics
}

// Close flushes and stops the audit dispatcher. It does not close the Redis
// client or the user store; the caller owns those.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns the number of audit events dropped because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// SignIn verifies an email/password pair and issues a fresh token pair.
// An unknown email and a wrong password both return [ErrInvalidCredentials];
// the caller cannot tell which. Credential-store failures other than a miss
// propagate unchanged.
func (e *Engine) SignIn(ctx context.Context, email, password string) (*TokenPair, error) {
	if e.users == nil || e.hasher == nil {
		return nil, ErrEngineNotReady
	}
	if email == "" || password == "" {
		e.metricInc(MetricSignInFailure)
		e.emitAudit(ctx, auditEventSignInFailure, false, "", ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"email":  email,
				"reason": "empty_input",
			}
		})
		return nil, ErrInvalidCredentials
	}

	user, err := e.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrStoreUserNotFound) {
			return nil, err
		}
		e.metricInc(MetricSignInFailure)
		e.emitAudit(ctx, auditEventSignInFailure, false, "", ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"email":  email,
				"reason": "user_not_found",
			}
		})
		return nil, ErrInvalidCredentials
	}

	ok, err := e.hasher.Verify(password, user.PasswordHash)
	if err != nil || !ok {
		e.metricInc(MetricSignInFailure)
		e.emitAudit(ctx, auditEventSignInFailure, false, user.ID, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"email":  email,
				"reason": "password_mismatch",
			}
		})
		return nil, ErrInvalidCredentials
	}
	password = ""

	pair, err := e.GenerateTokens(ctx, user)
	if err != nil {
		e.metricInc(MetricSignInFailure)
		e.emitAudit(ctx, auditEventSignInFailure, false, user.ID, err, func() map[string]string {
			return map[string]string{
				"reason": "token_generation_failed",
			}
		})
		return nil, err
	}

	e.metricInc(MetricSignInSuccess)
	e.emitAudit(ctx, auditEventSignInSuccess, true, user.ID, nil, nil)

	return pair, nil
}

// GenerateTokens signs an access token (subject + email) and a refresh token
// (subject + fresh random session identifier) concurrently, then records the
// session identifier as the user's only valid refresh session, overwriting
// any prior record. Exactly two signing operations and one session-store
// insert per call.
func (e *Engine) GenerateTokens(ctx context.Context, user *UserIdentity) (*TokenPair, error) {
	if e.signer == nil || e.sessions == nil {
		return nil, ErrEngineNotReady
	}

	tokenID := uuid.NewString()

	var pair TokenPair
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		access, err := e.signer.SignAccess(user.ID, user.Email)
		if err != nil {
			return err
		}
		pair.AccessToken = access
		return nil
	})
	g.Go(func() error {
		refresh, err := e.signer.SignRefresh(user.ID, tokenID)
		if err != nil {
			return err
		}
		pair.RefreshToken = refresh
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Insert after both signings succeed so a signing failure never
	// invalidates the user's current refresh session.
	if err := e.sessions.Insert(ctx, user.ID, tokenID, e.config.JWT.RefreshTTL); err != nil {
		return nil, err
	}
	e.metricInc(MetricSessionInserted)

	return &pair, nil
}

// Refresh exchanges a refresh token for a new pair, superseding the
// previous refresh session. Every failure mode (malformed or expired token,
// session identifier mismatch after rotation, vanished user, store outage)
// is collapsed to [ErrInvalidCredentials]; the distinct causes are recorded
// on audit events and metrics only.
//
// Two concurrent Refresh calls holding the same superseded token can both
// pass validation before either insert lands; the session store's
// unconditional overwrite is the serialization point and does not close
// that window. See session.Store.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if e.signer == nil || e.sessions == nil || e.users == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.signer.Verify(refreshToken)
	if err != nil {
		return nil, e.refreshFailure(ctx, "", err, "verify_failed")
	}
	if claims.RefreshTokenID == "" {
		// An access token presented as a refresh token.
		return nil, e.refreshFailure(ctx, claims.Subject, jwt.ErrTokenInvalid, "missing_session_id")
	}

	ok, err := e.sessions.Validate(ctx, claims.Subject, claims.RefreshTokenID)
	if err != nil {
		return nil, e.refreshFailure(ctx, claims.Subject, err, "session_store_failed")
	}
	if !ok {
		e.metricInc(MetricRefreshSuperseded)
		return nil, e.refreshFailure(ctx, claims.Subject, ErrInvalidCredentials, "session_superseded")
	}

	user, err := e.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, e.refreshFailure(ctx, claims.Subject, err, "user_lookup_failed")
	}

	pair, err := e.GenerateTokens(ctx, user)
	if err != nil {
		return nil, e.refreshFailure(ctx, user.ID, err, "token_generation_failed")
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefreshSuccess, true, user.ID, nil, nil)

	return pair, nil
}

// refreshFailure records the real cause and returns the opaque error.
func (e *Engine) refreshFailure(ctx context.Context, userID string, cause error, reason string) error {
	e.metricInc(MetricRefreshFailure)
	e.emitAudit(ctx, auditEventRefreshInvalid, false, userID, cause, func() map[string]string {
		return map[string]string{
			"reason": reason,
		}
	})
	return ErrInvalidCredentials
}

// Logout invalidates the user's refresh session. Idempotent: logging out a
// user with no session is a no-op. Outstanding access tokens stay valid
// until they expire.
func (e *Engine) Logout(ctx context.Context, userID string) error {
	if e.sessions == nil {
		return ErrEngineNotReady
	}

	err := e.sessions.Invalidate(ctx, userID)
	if err == nil {
		e.metricInc(MetricSessionInvalidated)
	}
	e.emitAudit(ctx, auditEventLogout, err == nil, userID, err, nil)
	return err
}

// ValidateAccess verifies an access token and returns the authenticated
// subject. Refresh tokens are rejected here: carrying a session identifier
// marks a token as refresh-only.
func (e *Engine) ValidateAccess(tokenStr string) (*AuthResult, error) {
	if e.signer == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.signer.Verify(tokenStr)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if claims.RefreshTokenID != "" {
		return nil, ErrTokenInvalid
	}

	return &AuthResult{
		UserID: claims.Subject,
		Email:  claims.Email,
	}, nil
}
