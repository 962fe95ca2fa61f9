package database_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"

	"sayabantu/internal/database"
	"sayabantu/internal/database/dbtest"
)

func TestOpenUnknownDriver(t *testing.T) {
	_, err := database.Open(context.TODO(), "invalid", "")
	if err == nil {
		t.Fatal("Open(invalid) => nil, want error")
	}
	if !strings.Contains(err.Error(), "unknown driver") {
		t.Errorf("Open(invalid) => %v, want error containing 'unknown driver'", err)
	}
}

func TestMigrateAndProbe(t *testing.T) {
	is := is.New(t)
	db := dbtest.Open(t)
	ctx := context.TODO()

	is.NoErr(db.Probe(ctx))
	for _, table := range []string{"users", "password_reset_tokens", "logos", "whatsapp_numbers", "services", "emails", "addresses", "social_links"} {
		var n int
		is.NoErr(db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table))
		is.Equal(n, 0)
	}

	// running again is a no-op
	is.NoErr(db.Migrate(ctx))
}

func TestRollback(t *testing.T) {
	is := is.New(t)
	db := dbtest.Open(t)
	ctx := context.TODO()

	is.NoErr(db.Rollback(ctx))
	var n int
	err := db.GetContext(ctx, &n, "SELECT COUNT(*) FROM logos")
	is.True(err != nil) // site content tables dropped

	is.NoErr(db.Migrate(ctx))
	is.NoErr(db.GetContext(ctx, &n, "SELECT COUNT(*) FROM logos"))
}

func TestInsertIDAndDuplicateKey(t *testing.T) {
	is := is.New(t)
	db := dbtest.Open(t)
	ctx := context.TODO()

	const q = "INSERT INTO users (username, email, password, role) VALUES (?, ?, ?, ?)"
	id, err := database.InsertID(ctx, db, q, "admin", "admin@sayabantu.id", "x", "admin")
	is.NoErr(err)
	is.True(id > 0)

	_, err = database.InsertID(ctx, db, q, "admin2", "admin@sayabantu.id", "x", "admin")
	is.True(errors.Is(err, database.ErrDuplicateKey))
}

func TestTransactionRollsBack(t *testing.T) {
	is := is.New(t)
	db := dbtest.Open(t)
	ctx := context.TODO()

	boom := errors.New("boom")
	err := db.TransactionContext(ctx, func(tx *database.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind("INSERT INTO logos (url, is_primary, is_active) VALUES (?, 1, 1)"), "/uploads/a.png"); err != nil {
			return err
		}
		return boom
	})
	is.True(errors.Is(err, boom))

	var n int
	is.NoErr(db.GetContext(ctx, &n, "SELECT COUNT(*) FROM logos"))
	is.Equal(n, 0)
}

func TestWrapErrorPassesThrough(t *testing.T) {
	is := is.New(t)
	other := errors.New("other")
	is.Equal(database.WrapError(other), other)
	is.Equal(database.WrapError(nil), nil)
}

func TestBool(t *testing.T) {
	is := is.New(t)
	is.Equal(database.Bool(true), 1)
	is.Equal(database.Bool(false), 0)
}
