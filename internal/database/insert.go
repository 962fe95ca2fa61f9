package database

import (
	"context"

	"sayabantu/internal/config"
)

// InsertID executes an INSERT written with ? placeholders and returns the
// new row id. Postgres has no LastInsertId, so RETURNING is used there.
func InsertID(ctx context.Context, h Handler, query string, args ...interface{}) (int64, error) {
	if h.DriverName() == config.DriverPostgres {
		var id int64
		err := h.QueryRowxContext(ctx, h.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, WrapError(err)
	}

	res, err := h.ExecContext(ctx, h.Rebind(query), args...)
	if err != nil {
		return 0, WrapError(err)
	}
	return res.LastInsertId()
}

// Bool converts a flag to the 0/1 stored in the small-integer flag columns.
func Bool(b bool) int {
	if b {
		return 1
	}
	return 0
}
