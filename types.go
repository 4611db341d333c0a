package authcore

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// UserIdentity is the minimal user record this core reads and creates. It is
// owned by the credential store; authcore never mutates it after sign-up.
type UserIdentity struct {
	ID           string
	Email        string
	PasswordHash string
}

// TokenPair is returned by sign-in and refresh. Both tokens are signed JWTs;
// only the refresh token carries a session identifier.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is returned by [Engine.ValidateAccess].
type AuthResult struct {
	UserID string
	Email  string
}

// UserStore is the credential-store contract callers must implement to
// integrate authcore with their user database. Implementations return
// [ErrStoreDuplicateEmail] on an email uniqueness conflict and
// [ErrStoreUserNotFound] on a missing record; every other failure is
// propagated to the caller unchanged.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*UserIdentity, error)
	FindByEmail(ctx context.Context, email string) (*UserIdentity, error)
	FindByID(ctx context.Context, id string) (*UserIdentity, error)
}

// Hasher is the one-way password hashing contract. Verify must run in
// constant time with respect to the hash comparison.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// Credentials is the sign-up / sign-in input pair.
type Credentials struct {
	Email    string
	Password string
}

// Validate enforces the input policy before any engine logic runs:
// syntactically valid non-empty email, password of at least 8 characters.
func (c Credentials) Validate() error {
	c.Email = strings.TrimSpace(c.Email)
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&c.Password, validation.Required, validation.Length(8, 128)),
	)
}
