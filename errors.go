package authcore

import "errors"

var (
	// ErrValidation reports malformed sign-up or sign-in input. It is always
	// wrapped with field-level detail and matched via errors.Is.
	ErrValidation = errors.New("invalid input")
	// ErrInvalidCredentials is the unified opaque authentication failure:
	// unknown email, password mismatch, invalid or rotated refresh token,
	// vanished user. Callers cannot distinguish the underlying cause.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountExists reports a sign-up email collision.
	ErrAccountExists = errors.New("account already exists")
	// ErrTokenInvalid covers every access-token verification failure:
	// malformed, expired, bad signature, wrong issuer or audience.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrEngineNotReady is returned when an Engine is used before Build
	// wired its collaborators.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrStoreDuplicateEmail is the sentinel a UserStore implementation must
	// return (or wrap) on an email uniqueness conflict. The Engine maps it
	// to ErrAccountExists; any other store failure propagates unchanged.
	ErrStoreDuplicateEmail = errors.New("store: duplicate email")
	// ErrStoreUserNotFound is the sentinel a UserStore implementation must
	// return (or wrap) when a lookup matches no user.
	ErrStoreUserNotFound = errors.New("store: user not found")
)
