package store

import (
	"context"
	"time"

	"sayabantu/internal/database"
	"sayabantu/internal/models"
)

// ResetTokenStore persists password reset tokens. Expiry comparisons are
// done in SQL against the caller's clock, always in UTC.
type ResetTokenStore struct{}

// CreateResetToken inserts t and returns its id.
func (ResetTokenStore) CreateResetToken(ctx context.Context, h database.Handler, t *models.PasswordResetToken) (int64, error) {
	return database.InsertID(ctx, h,
		"INSERT INTO password_reset_tokens (user_id, token_hash, expires_at, created_at) VALUES (?, ?, ?, ?)",
		t.UserID, t.TokenHash, utc(t.ExpiresAt), utc(t.CreatedAt))
}

// FindValidResetToken returns the token with tokenHash that expires after
// now. Unknown and expired tokens both yield apperr.ErrNotFound.
func (ResetTokenStore) FindValidResetToken(ctx context.Context, h database.Handler, tokenHash string, now time.Time) (*models.PasswordResetToken, error) {
	var t models.PasswordResetToken
	query := h.Rebind(`SELECT id, user_id, token_hash, expires_at, created_at
		FROM password_reset_tokens
		WHERE token_hash = ? AND expires_at > ?
		LIMIT 1`)
	if err := h.GetContext(ctx, &t, query, tokenHash, utc(now)); err != nil {
		return nil, notFound(err, "reset token")
	}
	return &t, nil
}

// DeleteResetToken removes token id and reports how many rows went. Zero
// means another request consumed it first.
func (ResetTokenStore) DeleteResetToken(ctx context.Context, h database.Handler, id int64) (int64, error) {
	res, err := h.ExecContext(ctx, h.Rebind("DELETE FROM password_reset_tokens WHERE id = ?"), id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteResetTokensByUser removes every token of userID.
func (ResetTokenStore) DeleteResetTokensByUser(ctx context.Context, h database.Handler, userID int64) (int64, error) {
	res, err := h.ExecContext(ctx, h.Rebind("DELETE FROM password_reset_tokens WHERE user_id = ?"), userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteExpiredResetTokens removes tokens that expired at or before now.
func (ResetTokenStore) DeleteExpiredResetTokens(ctx context.Context, h database.Handler, now time.Time) (int64, error) {
	res, err := h.ExecContext(ctx, h.Rebind("DELETE FROM password_reset_tokens WHERE expires_at <= ?"), utc(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// utc normalises timestamps to whole UTC seconds so every driver compares
// them the same way, including SQLite's text timestamps.
func utc(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
