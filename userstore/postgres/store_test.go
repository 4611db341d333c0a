package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cmridge/authcore"
)

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error {
	return r.scan(dest...)
}

type fakeDB struct {
	lastSQL  string
	lastArgs []any
	row      fakeRow
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.lastSQL = sql
	db.lastArgs = args
	return db.row
}

func rowReturning(values ...string) fakeRow {
	return fakeRow{scan: func(dest ...any) error {
		if len(dest) != len(values) {
			return errors.New("column count mismatch")
		}
		for i, v := range values {
			*(dest[i].(*string)) = v
		}
		return nil
	}}
}

func rowFailing(err error) fakeRow {
	return fakeRow{scan: func(...any) error { return err }}
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	db := &fakeDB{row: rowReturning("42")}
	store := NewStore(db)

	user, err := store.CreateUser(ctx, "a@x.com", "$argon2id$hash")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID != "42" || user.Email != "a@x.com" || user.PasswordHash != "$argon2id$hash" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !strings.Contains(db.lastSQL, "INSERT INTO users") {
		t.Fatalf("unexpected query: %s", db.lastSQL)
	}
	if len(db.lastArgs) != 2 || db.lastArgs[0] != "a@x.com" {
		t.Fatalf("unexpected args: %v", db.lastArgs)
	}
}

func TestCreateUserMapsUniqueViolation(t *testing.T) {
	ctx := context.Background()
	db := &fakeDB{row: rowFailing(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})}
	store := NewStore(db)

	_, err := store.CreateUser(ctx, "a@x.com", "hash")
	if !errors.Is(err, authcore.ErrStoreDuplicateEmail) {
		t.Fatalf("expected ErrStoreDuplicateEmail, got %v", err)
	}
}

func TestCreateUserWrapsDriverError(t *testing.T) {
	ctx := context.Background()
	driverErr := &pgconn.PgError{Code: "57P01"} // admin_shutdown
	db := &fakeDB{row: rowFailing(driverErr)}
	store := NewStore(db)

	_, err := store.CreateUser(ctx, "a@x.com", "hash")
	if !errors.Is(err, driverErr) {
		t.Fatalf("expected wrapped driver error, got %v", err)
	}
	if errors.Is(err, authcore.ErrStoreDuplicateEmail) {
		t.Fatal("non-unique-violation must not map to duplicate email")
	}
}

func TestFindByEmail(t *testing.T) {
	ctx := context.Background()
	db := &fakeDB{row: rowReturning("42", "a@x.com", "$argon2id$hash")}
	store := NewStore(db)

	user, err := store.FindByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if user.ID != "42" || user.PasswordHash != "$argon2id$hash" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestFindByEmailMiss(t *testing.T) {
	ctx := context.Background()
	db := &fakeDB{row: rowFailing(pgx.ErrNoRows)}
	store := NewStore(db)

	_, err := store.FindByEmail(ctx, "nobody@x.com")
	if !errors.Is(err, authcore.ErrStoreUserNotFound) {
		t.Fatalf("expected ErrStoreUserNotFound, got %v", err)
	}
}

func TestFindByID(t *testing.T) {
	ctx := context.Background()
	db := &fakeDB{row: rowReturning("42", "a@x.com", "$argon2id$hash")}
	store := NewStore(db)

	user, err := store.FindByID(ctx, "42")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if user.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !strings.Contains(db.lastSQL, "id = $1::bigint") {
		t.Fatalf("unexpected query: %s", db.lastSQL)
	}
}

func TestFindByIDMiss(t *testing.T) {
	ctx := context.Background()
	db := &fakeDB{row: rowFailing(pgx.ErrNoRows)}
	store := NewStore(db)

	_, err := store.FindByID(ctx, "99")
	if !errors.Is(err, authcore.ErrStoreUserNotFound) {
		t.Fatalf("expected ErrStoreUserNotFound, got %v", err)
	}
}
