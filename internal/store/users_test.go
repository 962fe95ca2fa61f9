package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"

	"sayabantu/internal/apperr"
	"sayabantu/internal/database"
	"sayabantu/internal/database/dbtest"
	"sayabantu/internal/models"
	"sayabantu/internal/store"
)

func newUser(t *testing.T, db database.Handler, username, email string) int64 {
	t.Helper()
	id, err := store.UserStore{}.CreateUser(context.TODO(), db, username, email, "hash", models.RoleUser)
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return id
}

func TestCreateAndFindUser(t *testing.T) {
	is := is.New(t)
	db := dbtest.Open(t)
	ctx := context.TODO()
	users := store.UserStore{}

	id := newUser(t, db, "budi", "Budi@Example.com")

	u, err := users.FindUserByEmail(ctx, db, "  budi@example.COM ")
	is.NoErr(err)
	is.Equal(u.ID, id)
	is.Equal(u.Username, "budi")
	is.Equal(u.Password, "hash")

	u, err = users.FindUserByID(ctx, db, id)
	is.NoErr(err)
	is.Equal(u.Email, "Budi@Example.com")

	_, err = users.FindUserByEmail(ctx, db, "nobody@example.com")
	is.True(errors.Is(err, apperr.ErrNotFound))
}

func TestCreateUserDuplicate(t *testing.T) {
	is := is.New(t)
	db := dbtest.Open(t)

	newUser(t, db, "budi", "budi@example.com")
	_, err := store.UserStore{}.CreateUser(context.TODO(), db, "budi", "other@example.com", "hash", models.RoleUser)
	is.True(errors.Is(err, apperr.ErrConflict))
}

func TestTaken(t *testing.T) {
	is := is.New(t)
	db := dbtest.Open(t)
	ctx := context.TODO()
	users := store.UserStore{}

	budi := newUser(t, db, "budi", "budi@example.com")
	sari := newUser(t, db, "sari", "sari@example.com")

	taken, err := users.UsernameTaken(ctx, db, "budi", sari)
	is.NoErr(err)
	is.True(taken)

	taken, err = users.UsernameTaken(ctx, db, "budi", budi)
	is.NoErr(err)
	is.True(!taken) // own name does not count

	taken, err = users.EmailTaken(ctx, db, "SARI@example.com", budi)
	is.NoErr(err)
	is.True(taken)
}

func TestUpdateUser(t *testing.T) {
	is := is.New(t)
	db := dbtest.Open(t)
	ctx := context.TODO()
	users := store.UserStore{}

	id := newUser(t, db, "budi", "budi@example.com")
	newUser(t, db, "sari", "sari@example.com")

	name := "budi2"
	is.NoErr(users.UpdateUser(ctx, db, id, store.UserUpdate{Username: &name}))
	u, err := users.FindUserByID(ctx, db, id)
	is.NoErr(err)
	is.Equal(u.Username, "budi2")
	is.Equal(u.Email, "budi@example.com")

	taken := "sari"
	err = users.UpdateUser(ctx, db, id, store.UserUpdate{Username: &taken})
	is.True(errors.Is(err, apperr.ErrConflict))

	err = users.UpdateUser(ctx, db, 999, store.UserUpdate{Username: &name})
	is.True(errors.Is(err, apperr.ErrNotFound))

	is.NoErr(users.UpdateUserPassword(ctx, db, id, "newhash"))
	u, err = users.FindUserByID(ctx, db, id)
	is.NoErr(err)
	is.Equal(u.Password, "newhash")
}

func TestListAndDeleteUsers(t *testing.T) {
	is := is.New(t)
	db := dbtest.Open(t)
	ctx := context.TODO()
	users := store.UserStore{}

	first := newUser(t, db, "budi", "budi@example.com")
	second := newUser(t, db, "sari", "sari@example.com")

	list, err := users.ListUsers(ctx, db)
	is.NoErr(err)
	is.Equal(len(list), 2)
	is.Equal(list[0].ID, second) // newest first

	is.NoErr(db.TransactionContext(ctx, func(tx *database.Tx) error {
		return users.DeleteUser(ctx, tx, first)
	}))
	err = users.DeleteUser(ctx, db, first)
	is.True(errors.Is(err, apperr.ErrNotFound))

	list, err = users.ListUsers(ctx, db)
	is.NoErr(err)
	is.Equal(len(list), 1)
}
