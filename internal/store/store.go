// Package store holds the SQL for users, reset tokens and site content.
//
// Every method takes a database.Handler so callers decide whether it runs
// on the pool or inside their transaction. Queries are written with ?
// placeholders and rebound for the active driver.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"sayabantu/internal/apperr"
	"sayabantu/internal/database"
)

// Store groups the table-specific stores.
type Store struct {
	Users       UserStore
	ResetTokens ResetTokenStore
	Content     ContentStore
}

// New returns a Store.
func New() *Store {
	return &Store{}
}

// notFound turns sql.ErrNoRows into apperr.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, apperr.ErrNotFound)
	}
	return err
}

// conflict turns a unique violation into apperr.ErrConflict.
func conflict(err error, what string) error {
	err = database.WrapError(err)
	if errors.Is(err, database.ErrDuplicateKey) {
		return fmt.Errorf("%s already exists: %w", what, apperr.ErrConflict)
	}
	return err
}

// affected returns apperr.ErrNotFound when res touched no rows.
func affected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, apperr.ErrNotFound)
	}
	return nil
}
