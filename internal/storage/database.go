package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DB wraps a database handle with the driver it was opened with, so
// repositories can adapt placeholder syntax.
type DB struct {
	*sql.DB
	Driver string
}

// New opens a database connection for the given driver and DSN.
// For SQLite the DSN is a file path and foreign keys are enabled on every
// pooled connection.
func New(driver, dsn string) (*DB, error) {
	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{DB: db, Driver: driver}, nil
}

// sqliteDSN turns a file path into a go-sqlite3 DSN with foreign keys on.
// A PRAGMA on a single connection would not reach the rest of the pool.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + strings.TrimPrefix(path, "file:") + sep + "_foreign_keys=on"
}

// Rebind rewrites '?' placeholders into the driver's native form.
func (db *DB) Rebind(query string) string {
	return rebind(db.Driver, query)
}

func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			wallet_address TEXT,
			email TEXT,
			created_at TIMESTAMP NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS health_records (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			diagnosis TEXT NOT NULL,
			risk_level TEXT NOT NULL,
			summary TEXT,
			ipfs_hash TEXT,
			ipfs_url TEXT,
			tx_hash TEXT,
			tx_simulated INTEGER NOT NULL DEFAULT 0,
			wellness_score INTEGER,
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_health_records_user ON health_records (user_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS health_record_details (
			id TEXT PRIMARY KEY,
			health_record_id TEXT NOT NULL,
			possible_causes TEXT NOT NULL,
			suggestions TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY (health_record_id) REFERENCES health_records(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS iot_data (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			heart_rate INTEGER,
			steps INTEGER,
			temperature REAL,
			sleep_hours REAL,
			blood_oxygen INTEGER,
			created_at TIMESTAMP NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_iot_data_user ON iot_data (user_id, created_at);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
