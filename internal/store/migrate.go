package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/mickamy/bookstore/internal/model"
	"github.com/mickamy/bookstore/orm"
)

//go:embed migrations
var migrations embed.FS

func (s *Store) migrationProvider() (*goose.Provider, error) {
	d := s.Dialect()
	fsys, err := fs.Sub(migrations, "migrations/"+d.Name())
	if err != nil {
		return nil, fmt.Errorf("migrations for %s: %w", d.Name(), err)
	}
	var gd goose.Dialect
	switch d {
	case orm.PostgreSQL:
		gd = goose.DialectPostgres
	case orm.MySQL:
		gd = goose.DialectMySQL
	default:
		gd = goose.DialectSQLite3
	}
	p, err := goose.NewProvider(gd, s.raw, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return p, nil
}

// Migrate applies all pending schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	p, err := s.migrationProvider()
	if err != nil {
		return err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return &model.StoreUnavailableError{Op: "migrate", Err: err}
	}
	for _, r := range results {
		s.logger.InfoContext(ctx, "migration applied",
			"version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

// Version returns the current schema version, 0 for an empty database.
func (s *Store) Version(ctx context.Context) (int64, error) {
	p, err := s.migrationProvider()
	if err != nil {
		return 0, err
	}
	v, err := p.GetDBVersion(ctx)
	if err != nil {
		return 0, &model.StoreUnavailableError{Op: "migration version", Err: err}
	}
	return v, nil
}
