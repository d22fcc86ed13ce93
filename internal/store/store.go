// Package store is the entity store: it opens the database, applies the
// schema and runs every read and write of an operation inside one
// transaction.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"modernc.org/sqlite"

	"github.com/mickamy/bookstore/internal/model"
	"github.com/mickamy/bookstore/orm"
)

// DefaultDSN is the SQLite database file used when no DSN is configured.
const DefaultDSN = "bookstore.db"

func init() {
	// SQLite's built-in lower() folds ASCII letters only. Searches rely on
	// LOWER() matching MySQL and PostgreSQL, which fold all of Unicode.
	sqlite.MustRegisterDeterministicScalarFunction("lower", 1, foldLower)
}

func foldLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// Config selects the database the store runs against.
type Config struct {
	// Driver is "sqlite", "mysql" or "postgres".
	Driver string
	// DSN is passed to the driver as is. ":memory:" opens a private
	// in-memory SQLite database.
	DSN string
	// DebugSQL logs every statement at debug level.
	DebugSQL bool
}

// Store owns the database handle.
type Store struct {
	raw    *sql.DB
	db     *orm.DB
	logger *slog.Logger
}

// Open connects to the configured database and verifies the connection.
// The schema is not touched; call Migrate for that.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Driver == "" {
		cfg.Driver = "sqlite"
	}
	d, err := orm.DialectFor(cfg.Driver)
	if err != nil {
		return nil, err //nolint:wrapcheck // already prefixed
	}
	if cfg.DSN == "" && d == orm.SQLite {
		cfg.DSN = DefaultDSN
	}

	raw, err := sql.Open(driverName(d), cfg.DSN)
	if err != nil {
		return nil, &model.StoreUnavailableError{Op: "open " + d.Name(), Err: err}
	}
	if d == orm.SQLite {
		// One writer; also keeps a ":memory:" database alive on its
		// single connection.
		raw.SetMaxOpenConns(1)
		raw.SetMaxIdleConns(1)
	}
	if err := raw.PingContext(ctx); err != nil {
		_ = raw.Close()
		return nil, &model.StoreUnavailableError{Op: "ping " + d.Name(), Err: err}
	}
	if d == orm.SQLite {
		if _, err := raw.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
			_ = raw.Close()
			return nil, &model.StoreUnavailableError{Op: "configure sqlite", Err: err}
		}
	}

	logger.DebugContext(ctx, "store opened", "driver", d.Name())
	return New(raw, d, cfg.DebugSQL, logger), nil
}

// New wraps an open *sql.DB.
func New(raw *sql.DB, d orm.Dialect, debugSQL bool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	db := orm.New(raw, d)
	if debugSQL {
		db = db.Debug(orm.SlogLogger{L: logger})
	}
	return &Store{raw: raw, db: db, logger: logger}
}

func driverName(d orm.Dialect) string {
	switch d {
	case orm.PostgreSQL:
		return "pgx"
	case orm.MySQL:
		return "mysql"
	default:
		return "sqlite"
	}
}

// Dialect returns the SQL dialect of the underlying database.
func (s *Store) Dialect() orm.Dialect { return s.db.Dialect() }

// Close releases the database handle.
func (s *Store) Close() error {
	if err := s.raw.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// Tx runs fn inside a transaction. The transaction commits when fn returns
// nil and is rolled back when fn fails or panics, so a failed operation
// leaves no partial writes. Errors returned by fn are passed through
// unchanged; failures to begin or commit are StoreUnavailableErrors.
func (s *Store) Tx(ctx context.Context, fn func(tx *Tx) error) error {
	var fnErr error
	err := s.db.Transaction(ctx, func(otx *orm.Tx) error {
		fnErr = fn(&Tx{q: otx})
		return fnErr
	})
	if err == nil {
		return nil
	}
	if fnErr != nil {
		return fnErr
	}
	s.logger.ErrorContext(ctx, "transaction failed", "error", err)
	return &model.StoreUnavailableError{Op: "transaction", Err: err}
}
