package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Driver names the SQL engine behind a DB.
type Driver string

const (
	Postgres Driver = "postgres"
	SQLite   Driver = "sqlite"
)

// DB is a connection pool that remembers which engine it talks to, so
// stores can adapt query placeholders.
type DB struct {
	*sql.DB
	Driver Driver
	dsn    string
}

// New opens and pings a postgres database through the pgx stdlib driver.
func New(connStr string) (*DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &DB{DB: db, Driver: Postgres, dsn: connStr}, nil
}

// NewSQLite opens a sqlite database file. A single connection serialises
// writers the way the file backend's lock does.
func NewSQLite(path string) (*DB, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)

	return &DB{DB: db, Driver: SQLite, dsn: dsn}, nil
}

// Rebind rewrites postgres-style $N placeholders for engines that only
// understand '?'.
func (db *DB) Rebind(query string) string {
	if db.Driver != SQLite {
		return query
	}

	var sb strings.Builder

	sb.Grow(len(query))

	for i := 0; i < len(query); i++ {
		c := query[i]
		if c != '$' || i+1 >= len(query) || query[i+1] < '0' || query[i+1] > '9' {
			sb.WriteByte(c)
			continue
		}

		sb.WriteByte('?')

		for i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
			i++
		}
	}

	return sb.String()
}
