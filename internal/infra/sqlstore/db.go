// Package sqlstore provides a SQLite implementation of domain.Store.
package sqlstore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // database/sql driver

	"github.com/runoshun/shopdesk/internal/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Options configures the SQLite connection.
type Options struct {
	Path          string // Database file
	BusyTimeoutMS int    // Wait this long for a locked database (0 = default)
}

// dsn builds the go-sqlite3 connection string. Write transactions take the
// lock up front so concurrent writers queue on the busy timeout instead of
// failing on lock upgrade.
func dsn(opts Options) string {
	timeout := opts.BusyTimeoutMS
	if timeout <= 0 {
		timeout = domain.DefaultBusyTimeoutMS
	}
	q := url.Values{}
	q.Set("_journal_mode", "WAL")
	q.Set("_busy_timeout", strconv.Itoa(timeout))
	q.Set("_foreign_keys", "on")
	q.Set("_txlock", "immediate")
	return "file:" + opts.Path + "?" + q.Encode()
}

// Open opens the database file, creating it if needed.
// The schema is not touched; use Initializer for that.
func Open(opts Options) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", dsn(opts))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open database %s: %w", opts.Path, err)
	}
	return db, nil
}

// Ensure Initializer implements domain.StoreInitializer.
var _ domain.StoreInitializer = (*Initializer)(nil)

// Initializer creates and migrates the schema.
type Initializer struct {
	db *sqlx.DB
}

// NewInitializer creates a new Initializer for db.
func NewInitializer(db *sqlx.DB) *Initializer {
	return &Initializer{db: db}
}

// IsInitialized reports whether the orders table exists.
func (i *Initializer) IsInitialized(ctx context.Context) (bool, error) {
	var n int
	err := i.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'orders'`)
	if err != nil {
		return false, fmt.Errorf("inspect schema: %w", err)
	}
	return n > 0, nil
}

// Initialize applies every pending migration. Running it on an up-to-date
// database is a no-op.
func (i *Initializer) Initialize(_ context.Context) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	drv, err := migratesqlite.WithInstance(i.db.DB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", drv)
	if err != nil {
		return fmt.Errorf("prepare migrations: %w", err)
	}
	// m.Close would close the shared *sql.DB.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
