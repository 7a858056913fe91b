package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate brings the schema of db up to date. It uses its own connection
// because closing the migrator closes the connection it was given.
func Migrate(db *DB) error {
	driverName := "pgx"
	if db.Driver == SQLite {
		driverName = "sqlite"
	}

	conn, err := sql.Open(driverName, db.dsn)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer conn.Close()

	var target migratedb.Driver

	switch db.Driver {
	case Postgres:
		target, err = pgxmigrate.WithInstance(conn, &pgxmigrate.Config{})
	case SQLite:
		target, err = sqlitemigrate.WithInstance(conn, &sqlitemigrate.Config{})
	default:
		return fmt.Errorf("unsupported driver %q", db.Driver)
	}

	if err != nil {
		return fmt.Errorf("create %s migration driver: %w", db.Driver, err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+string(db.Driver))
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(db.Driver), target)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
