// Package postgres is a reference UserStore implementation over pgx.
//
// Expected schema:
//
//	CREATE TABLE users (
//	    id            BIGSERIAL PRIMARY KEY,
//	    email         TEXT NOT NULL UNIQUE,
//	    password_hash TEXT NOT NULL
//	);
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cmridge/authcore"
)

// unique_violation, per the Postgres error code table.
const uniqueViolationCode = "23505"

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements authcore.UserStore over a Postgres users table.
type Store struct {
	db DB
}

func NewStore(db DB) *Store {
	return &Store{db: db}
}

// CreateUser inserts a user record. An email uniqueness conflict is mapped
// to authcore.ErrStoreDuplicateEmail; everything else wraps the driver
// error unchanged.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (*authcore.UserIdentity, error) {
	query := `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id::text
	`

	user := &authcore.UserIdentity{
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.db.QueryRow(ctx, query, email, passwordHash).Scan(&user.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, fmt.Errorf("%w: %s", authcore.ErrStoreDuplicateEmail, email)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*authcore.UserIdentity, error) {
	query := `
		SELECT id::text, email, password_hash FROM users
		WHERE email = $1
	`

	user := &authcore.UserIdentity{}
	err := s.db.QueryRow(ctx, query, email).Scan(&user.ID, &user.Email, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, authcore.ErrStoreUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*authcore.UserIdentity, error) {
	query := `
		SELECT id::text, email, password_hash FROM users
		WHERE id = $1::bigint
	`

	user := &authcore.UserIdentity{}
	err := s.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Email, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, authcore.ErrStoreUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
