package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Handler is satisfied by both the pool and a transaction, so stores can
// run either auto-committed or inside a caller's transaction.
type Handler interface {
	Rebind(string) string
	DriverName() string

	SelectContext(context.Context, interface{}, string, ...interface{}) error
	GetContext(context.Context, interface{}, string, ...interface{}) error
	QueryxContext(context.Context, string, ...interface{}) (*sqlx.Rows, error)
	QueryRowxContext(context.Context, string, ...interface{}) *sqlx.Row
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
}
