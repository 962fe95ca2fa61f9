package store

import (
	"context"
	"strings"

	"sayabantu/internal/database"
	"sayabantu/internal/models"
)

// UserStore is the credential store.
type UserStore struct{}

const userColumns = "id, username, email, password, role, created_at"

// CreateUser inserts a user. passwordHash must already be hashed.
func (UserStore) CreateUser(ctx context.Context, h database.Handler, username, email, passwordHash, role string) (int64, error) {
	id, err := database.InsertID(ctx, h,
		"INSERT INTO users (username, email, password, role) VALUES (?, ?, ?, ?)",
		username, email, passwordHash, role)
	if err != nil {
		return 0, conflict(err, "user")
	}
	return id, nil
}

// FindUserByEmail looks up a user by email, ignoring case.
func (UserStore) FindUserByEmail(ctx context.Context, h database.Handler, email string) (*models.User, error) {
	var u models.User
	query := h.Rebind("SELECT " + userColumns + " FROM users WHERE LOWER(email) = ? LIMIT 1")
	if err := h.GetContext(ctx, &u, query, strings.ToLower(strings.TrimSpace(email))); err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

// FindUserByID looks up a user by id.
func (UserStore) FindUserByID(ctx context.Context, h database.Handler, id int64) (*models.User, error) {
	var u models.User
	query := h.Rebind("SELECT " + userColumns + " FROM users WHERE id = ?")
	if err := h.GetContext(ctx, &u, query, id); err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

// ListUsers returns all users, newest first, without password hashes.
func (UserStore) ListUsers(ctx context.Context, h database.Handler) ([]models.UserResponse, error) {
	users := []models.UserResponse{}
	err := h.SelectContext(ctx, &users, "SELECT id, username, email, role FROM users ORDER BY id DESC")
	return users, err
}

// UsernameTaken reports whether another user (not exceptID) has username.
func (UserStore) UsernameTaken(ctx context.Context, h database.Handler, username string, exceptID int64) (bool, error) {
	return exists(ctx, h, "SELECT COUNT(*) FROM users WHERE username = ? AND id <> ?", username, exceptID)
}

// EmailTaken reports whether another user (not exceptID) has email,
// ignoring case.
func (UserStore) EmailTaken(ctx context.Context, h database.Handler, email string, exceptID int64) (bool, error) {
	return exists(ctx, h, "SELECT COUNT(*) FROM users WHERE LOWER(email) = ? AND id <> ?", strings.ToLower(email), exceptID)
}

func exists(ctx context.Context, h database.Handler, query string, args ...interface{}) (bool, error) {
	var n int
	if err := h.GetContext(ctx, &n, h.Rebind(query), args...); err != nil {
		return false, err
	}
	return n > 0, nil
}

// UserUpdate is a partial user update. Nil fields are left alone.
type UserUpdate struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Role         *string
}

// UpdateUser applies upd to user id.
func (UserStore) UpdateUser(ctx context.Context, h database.Handler, id int64, upd UserUpdate) error {
	var sets []string
	var args []interface{}
	add := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+" = ?")
			args = append(args, *v)
		}
	}
	add("username", upd.Username)
	add("email", upd.Email)
	add("password", upd.PasswordHash)
	add("role", upd.Role)
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := h.Rebind("UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ?")
	res, err := h.ExecContext(ctx, query, args...)
	if err != nil {
		return conflict(err, "user")
	}
	return affected(res, "user")
}

// UpdateUserPassword replaces the password hash of user id.
func (UserStore) UpdateUserPassword(ctx context.Context, h database.Handler, id int64, passwordHash string) error {
	res, err := h.ExecContext(ctx, h.Rebind("UPDATE users SET password = ? WHERE id = ?"), passwordHash, id)
	if err != nil {
		return err
	}
	return affected(res, "user")
}

// DeleteUser removes user id and its reset tokens. Run it in a transaction.
func (UserStore) DeleteUser(ctx context.Context, h database.Handler, id int64) error {
	if _, err := (ResetTokenStore{}).DeleteResetTokensByUser(ctx, h, id); err != nil {
		return err
	}
	res, err := h.ExecContext(ctx, h.Rebind("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return affected(res, "user")
}
