package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/runoshun/shopdesk/internal/domain"
)

// Ensure Store implements domain.Store.
var _ domain.Store = (*Store)(nil)

// dbtx is the part of *sqlx.DB and *sqlx.Tx the repositories use.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// Store implements domain.Store on SQLite.
// A Store returned to a WithinTx callback runs every call in that transaction.
type Store struct {
	db   *sqlx.DB
	q    dbtx
	inTx bool
}

// New creates a new Store on db.
func New(db *sqlx.DB) *Store {
	return &Store{db: db, q: db}
}

// WithinTx runs fn in a transaction. Nested calls join the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(tx domain.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(&Store{db: s.db, q: tx, inTx: true}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY conflict.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// wrapMissingTable turns "no such table" into domain.ErrNotInitialized.
func wrapMissingTable(err error) error {
	if err != nil && strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%w: %w", domain.ErrNotInitialized, err)
	}
	return err
}

// get runs a single-row query. A missing row yields found=false.
func (s *Store) get(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	err := s.q.GetContext(ctx, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, wrapMissingTable(err)
	}
	return true, nil
}

func (s *Store) selectAll(ctx context.Context, dest any, query string, args ...any) error {
	return wrapMissingTable(s.q.SelectContext(ctx, dest, query, args...))
}

// execOne runs a statement that must touch exactly one row; notFound is
// returned otherwise.
func (s *Store) execOne(ctx context.Context, notFound error, query string, args ...any) error {
	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapMissingTable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	_, err := s.q.ExecContext(ctx, query, args...)
	return wrapMissingTable(err)
}

// where accumulates AND-ed equality conditions for list queries.
type where struct {
	clauses []string
	args    []any
}

// eq adds "col = v" when v is non-nil.
func eq[T any](w *where, col string, v *T) {
	if v == nil {
		return
	}
	w.clauses = append(w.clauses, col+" = ?")
	w.args = append(w.args, *v)
}

func (w *where) raw(clause string) {
	w.clauses = append(w.clauses, clause)
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// utc normalizes timestamps so stored values sort as text.
func utc(t time.Time) time.Time {
	return t.UTC()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
