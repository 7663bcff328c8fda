package database

import (
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Driver picks the database/sql driver for a DSN: postgres URLs go to lib/pq,
// everything else is treated as a SQLite file or memory DSN.
func Driver(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	return "sqlite"
}

// Connect opens the database for the provided DSN.
func Connect(dsn string) (*sqlx.DB, error) {
	driver := Driver(dsn)
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// SQLite allows a single writer; an in-memory database only lives as
		// long as its one connection.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}
