package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"

	"sayabantu/internal/apperr"
	"sayabantu/internal/database"
	"sayabantu/internal/database/dbtest"
	"sayabantu/internal/models"
	"sayabantu/internal/store"
)

func countTokens(t *testing.T, db *database.Database, userID int64) int {
	t.Helper()
	var n int
	err := db.GetContext(context.TODO(), &n, db.Rebind("SELECT COUNT(*) FROM password_reset_tokens WHERE user_id = ?"), userID)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestResetTokenExpiry(t *testing.T) {
	is := is.New(t)
	db := dbtest.Open(t)
	ctx := context.TODO()
	tokens := store.ResetTokenStore{}

	userID := newUser(t, db, "budi", "budi@example.com")
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	_, err := tokens.CreateResetToken(ctx, db, &models.PasswordResetToken{
		UserID:    userID,
		TokenHash: "abc",
		ExpiresAt: now.Add(30 * time.Minute),
		CreatedAt: now,
	})
	is.NoErr(err)

	got, err := tokens.FindValidResetToken(ctx, db, "abc", now.Add(29*time.Minute))
	is.NoErr(err)
	is.Equal(got.UserID, userID)

	_, err = tokens.FindValidResetToken(ctx, db, "abc", now.Add(30*time.Minute))
	is.True(errors.Is(err, apperr.ErrNotFound)) // expiry is exclusive

	_, err = tokens.FindValidResetToken(ctx, db, "other", now)
	is.True(errors.Is(err, apperr.ErrNotFound))
}

func TestDeleteResetTokens(t *testing.T) {
	is := is.New(t)
	db := dbtest.Open(t)
	ctx := context.TODO()
	tokens := store.ResetTokenStore{}

	budi := newUser(t, db, "budi", "budi@example.com")
	sari := newUser(t, db, "sari", "sari@example.com")
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	add := func(userID int64, hash string, ttl time.Duration) {
		_, err := tokens.CreateResetToken(ctx, db, &models.PasswordResetToken{
			UserID: userID, TokenHash: hash, ExpiresAt: now.Add(ttl), CreatedAt: now,
		})
		is.NoErr(err)
	}
	add(budi, "b1", time.Minute)
	add(budi, "b2", -time.Minute)
	add(sari, "s1", -time.Minute)

	n, err := tokens.DeleteExpiredResetTokens(ctx, db, now)
	is.NoErr(err)
	is.Equal(n, int64(2))

	is.Equal(countTokens(t, db, budi), 1)

	add(budi, "b3", time.Hour)
	n, err = tokens.DeleteResetTokensByUser(ctx, db, budi)
	is.NoErr(err)
	is.Equal(n, int64(2))
}

func TestDeleteUserRemovesTokens(t *testing.T) {
	is := is.New(t)
	db := dbtest.Open(t)
	ctx := context.TODO()

	budi := newUser(t, db, "budi", "budi@example.com")
	now := time.Now()
	_, err := store.ResetTokenStore{}.CreateResetToken(ctx, db, &models.PasswordResetToken{
		UserID: budi, TokenHash: "b1", ExpiresAt: now.Add(time.Hour), CreatedAt: now,
	})
	is.NoErr(err)

	is.NoErr(db.TransactionContext(ctx, func(tx *database.Tx) error {
		return store.UserStore{}.DeleteUser(ctx, tx, budi)
	}))
	is.Equal(countTokens(t, db, budi), 0)
}
