// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// SQLite is the default store: a single file next to the binary, or
// ":memory:" in tests. modernc.org/sqlite is a pure Go translation of the C
// library, so no CGo toolchain is needed.
//
// ONE CONNECTION:
// The pool is capped at one open connection. SQLite serializes writers
// anyway, and with ":memory:" every extra connection would see its own empty
// database.
//
// PRAGMAS:
// Pragmas travel in the DSN (_pragma=...), so the driver applies them to
// every connection it opens, including one that replaces a discarded
// connection.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/repository"
)

var _ repository.Store = (*DB)(nil)

// connPragmas are applied by the driver on every new connection.
// foreign_keys is off by default in SQLite; it backs ON DELETE CASCADE and
// the rejection of bookings that point at a missing sponsor.
var connPragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// dsn appends connPragmas to dbPath as driver query parameters.
func dsn(dbPath string) string {
	params := make([]string, 0, len(connPragmas))
	for _, p := range connPragmas {
		params = append(params, "_pragma="+p)
	}
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + strings.Join(params, "&")
}

// DB wraps a sql.DB connection pool and provides repository methods.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath and creates the schema if needed.
//
// dbPath examples:
//   - "data/masjid.db"  → file-based database (persistent)
//   - ":memory:"        → in-memory database (tests)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// journal_mode is stored in the database file, so setting it once is enough.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the three tables. booking_date is stored as ISO-8601 TEXT
// so that range comparisons sort correctly and the driver never converts it
// to a time.Time behind our back.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS sponsors (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			full_name  TEXT NOT NULL CHECK (length(full_name) <= 150),
			phone      TEXT NOT NULL CHECK (length(phone) <= 20),
			email      TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sponsors_phone ON sponsors(phone);
	`)
	if err != nil {
		return fmt.Errorf("creating sponsors table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS bookings (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			sponsor_id   INTEGER NOT NULL REFERENCES sponsors(id) ON DELETE CASCADE,
			booking_date TEXT NOT NULL UNIQUE,
			food_note    TEXT,
			status       TEXT NOT NULL DEFAULT 'booked',
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_bookings_sponsor_id ON bookings(sponsor_id);
	`)
	if err != nil {
		return fmt.Errorf("creating bookings table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS admins (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      TEXT NOT NULL UNIQUE CHECK (length(username) <= 100),
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating admins table: %w", err)
	}

	return nil
}

type constraint int

const (
	constraintNone constraint = iota
	constraintUnique
	constraintForeignKey
)

// violated reports which constraint, if any, err is a violation of.
func violated(err error) constraint {
	var se *sqlitedrv.Error
	if !errors.As(err, &se) {
		return constraintNone
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return constraintUnique
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return constraintForeignKey
	case sqlite3.SQLITE_CONSTRAINT:
		// primary code only, fall back to the message
		msg := se.Error()
		switch {
		case strings.Contains(msg, "UNIQUE"):
			return constraintUnique
		case strings.Contains(msg, "FOREIGN KEY"):
			return constraintForeignKey
		}
	}
	return constraintNone
}
