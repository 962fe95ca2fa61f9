// Package settings resolves the primary row of singleton-like settings
// tables such as the header logo and the WhatsApp contact.
//
// Each table may hold several candidate rows. The current value is the
// newest active row flagged is_primary, falling back to the newest row of
// any kind. Writes target the primary row or insert a new primary one.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"sayabantu/internal/apperr"
	"sayabantu/internal/database"
)

// Column is a fixed column value.
type Column struct {
	Name  string
	Value interface{}
}

// Kind describes one settings table. T is scanned from "id" plus Columns
// and must carry matching db tags.
type Kind[T any] struct {
	Name    string
	Table   string
	Columns []string
	// Scope narrows the primary lookup, e.g. placement = 'header'. It is
	// also written on insert.
	Scope *Column
	// Defaults are written on insert only.
	Defaults []Column
	// Values returns the value columns of v in Columns order.
	Values func(v T) []interface{}
}

func (k Kind[T]) selectColumns() string {
	return "id, " + strings.Join(k.Columns, ", ")
}

func (k Kind[T]) scopeFilter() (string, []interface{}) {
	if k.Scope == nil {
		return "", nil
	}
	return k.Scope.Name + " = ? AND ", []interface{}{k.Scope.Value}
}

// Get returns the current value, or the zero T when the table is empty.
func (k Kind[T]) Get(ctx context.Context, h database.Handler) (T, error) {
	logger := log.FromContext(ctx).WithPrefix("settings")
	var v T

	scope, args := k.scopeFilter()
	preferred := "SELECT " + k.selectColumns() + " FROM " + k.Table +
		" WHERE " + scope + "is_primary = 1 AND is_active = 1 ORDER BY id DESC LIMIT 1"
	err := guarded(ctx, h, func() error {
		return h.GetContext(ctx, &v, h.Rebind(preferred), args...)
	})
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, sql.ErrNoRows):
	default:
		logger.Warn("primary lookup failed, using latest row", "kind", k.Name, "err", err)
	}

	var latest T
	err = h.GetContext(ctx, &latest, "SELECT "+k.selectColumns()+" FROM "+k.Table+" ORDER BY id DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return latest, nil
	}
	return latest, err
}

// Set writes v to the primary row, inserting one when none exists. Pass
// the caller's transaction as h when other settings are written together.
func (k Kind[T]) Set(ctx context.Context, h database.Handler, v T) error {
	values := k.Values(v)

	id, err := k.primaryID(ctx, h)
	switch {
	case err == nil:
		sets := make([]string, 0, len(k.Columns)+1)
		for _, c := range k.Columns {
			sets = append(sets, c+" = ?")
		}
		sets = append(sets, "is_active = 1")
		query := "UPDATE " + k.Table + " SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		_, err = h.ExecContext(ctx, h.Rebind(query), append(values, id)...)
		return err

	case errors.Is(err, sql.ErrNoRows):
		cols := append([]string{}, k.Columns...)
		args := append([]interface{}{}, values...)
		if k.Scope != nil {
			cols = append(cols, k.Scope.Name)
			args = append(args, k.Scope.Value)
		}
		for _, d := range k.Defaults {
			cols = append(cols, d.Name)
			args = append(args, d.Value)
		}
		cols = append(cols, "is_primary", "is_active")
		args = append(args, 1, 1)
		_, err = h.ExecContext(ctx, h.Rebind(insertQuery(k.Table, cols)), args...)
		return err
	}

	log.FromContext(ctx).WithPrefix("settings").
		Warn("primary lookup failed, writing latest row", "kind", k.Name, "err", err)

	id, err = k.latestID(ctx, h)
	switch {
	case err == nil:
		sets := make([]string, 0, len(k.Columns))
		for _, c := range k.Columns {
			sets = append(sets, c+" = ?")
		}
		query := "UPDATE " + k.Table + " SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		_, err = h.ExecContext(ctx, h.Rebind(query), append(values, id)...)
		return err
	case errors.Is(err, sql.ErrNoRows):
		_, err = h.ExecContext(ctx, h.Rebind(insertQuery(k.Table, k.Columns)), values...)
		return err
	default:
		return err
	}
}

// Delete removes the primary row, or the latest row when none is flagged.
func (k Kind[T]) Delete(ctx context.Context, h database.Handler) error {
	id, err := k.primaryID(ctx, h)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.FromContext(ctx).WithPrefix("settings").
				Warn("primary lookup failed, deleting latest row", "kind", k.Name, "err", err)
		}
		id, err = k.latestID(ctx, h)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", k.Name, apperr.ErrNotFound)
		}
		if err != nil {
			return err
		}
	}

	_, err = h.ExecContext(ctx, h.Rebind("DELETE FROM "+k.Table+" WHERE id = ?"), id)
	return err
}

func (k Kind[T]) primaryID(ctx context.Context, h database.Handler) (int64, error) {
	var id int64
	scope, args := k.scopeFilter()
	query := "SELECT id FROM " + k.Table + " WHERE " + scope + "is_primary = 1 ORDER BY id DESC LIMIT 1"
	err := guarded(ctx, h, func() error {
		return h.GetContext(ctx, &id, h.Rebind(query), args...)
	})
	return id, err
}

func (k Kind[T]) latestID(ctx context.Context, h database.Handler) (int64, error) {
	var id int64
	err := h.GetContext(ctx, &id, "SELECT id FROM "+k.Table+" ORDER BY id DESC LIMIT 1")
	return id, err
}

func insertQuery(table string, cols []string) string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return "INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES (" + marks + ")"
}

const savepoint = "settings_lookup"

// guarded runs fn inside a savepoint when h is a transaction, so a failed
// lookup does not abort the enclosing transaction on Postgres.
func guarded(ctx context.Context, h database.Handler, fn func() error) error {
	tx, ok := h.(*database.Tx)
	if !ok {
		return fn()
	}

	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+savepoint); err != nil {
		return err
	}
	ferr := fn()
	if ferr != nil && !errors.Is(ferr, sql.ErrNoRows) {
		if _, err := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepoint); err != nil {
			return fmt.Errorf("%v: rollback to savepoint: %w", ferr, err)
		}
	}
	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepoint); err != nil && ferr == nil {
		return err
	}
	return ferr
}
