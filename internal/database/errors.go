package database

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrDuplicateKey is a unique constraint violation.
var ErrDuplicateKey = errors.New("duplicate key value violates table constraint")

// WrapError unites driver-specific errors into consistent errors.
func WrapError(err error) error {
	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return err
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return ErrDuplicateKey
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateKey
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
			code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return ErrDuplicateKey
		}
	}

	return err
}

// Detail returns a driver message suitable for an API error body: the
// server message without the SQL text or bound values.
func Detail(err error) string {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Message
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Message
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Error()
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
