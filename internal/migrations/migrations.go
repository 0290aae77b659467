// Package migrations embeds the analyses schema for each supported backend
// and applies it on startup.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/JaimeStill/monitor/pkg/database"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Up applies every pending migration for driver to db.
// It reports the resulting schema version; ErrNoChange is not an error.
// The caller keeps ownership of db.
func Up(ctx context.Context, db *sql.DB, driver string) (uint, error) {
	src, err := iofs.New(files, driver)
	if err != nil {
		return 0, fmt.Errorf("migration source %s: %w", driver, err)
	}

	defer src.Close()

	target, release, err := targetFor(ctx, db, driver)
	if err != nil {
		return 0, err
	}
	defer release()

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return 0, fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema is dirty at version %d", version)
	}

	return version, nil
}

// targetFor builds a migrate database driver over db. The release func frees
// whatever the driver borrowed without closing db itself.
func targetFor(ctx context.Context, db *sql.DB, driver string) (migratedb.Driver, func(), error) {
	switch driver {
	case database.DriverPostgres:
		conn, err := db.Conn(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("acquire migration connection: %w", err)
		}
		target, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
		if err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("postgres migrate driver: %w", err)
		}
		return target, func() { target.Close() }, nil
	case database.DriverSQLite:
		// sqlite's Close would close the shared pool, so nothing is released
		target, err := sqlite.WithInstance(db, &sqlite.Config{})
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite migrate driver: %w", err)
		}
		return target, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", database.ErrUnsupportedDriver, driver)
	}
}
