// Package postgrestest provides PostgreSQL connection factories for tests
// of the event log storage engine.
//
// The factories read the DSN from the TEST_POSTGRES_DSN environment
// variable and skip the calling test when it is unset, so the DB-backed
// tests are opt-in.
package postgrestest

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // driver import for the database/sql and sqlx factories
)

const dsnEnvVar = "TEST_POSTGRES_DSN"

const createEventLogTableDDL = `
CREATE TABLE IF NOT EXISTS rtc_events (
	session_id   uuid    NOT NULL,
	event_type   text    NOT NULL,
	timestamp_us bigint  NOT NULL,
	is_config    boolean NOT NULL,
	payload      jsonb   NOT NULL
)`

// DSN returns the configured test database DSN, skipping the test when the
// environment variable is unset.
func DSN(t *testing.T) string {
	t.Helper()

	dsn := os.Getenv(dsnEnvVar)
	if dsn == "" {
		t.Skipf("skipping: %s is not set", dsnEnvVar)
	}

	return dsn
}

// NewPGXPool creates a pgx pool for the test database and registers its
// cleanup with the test.
func NewPGXPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), DSN(t))
	if err != nil {
		t.Fatalf("failed to create pgx pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if pingErr := pool.Ping(context.Background()); pingErr != nil {
		t.Fatalf("failed to connect to test database: %v", pingErr)
	}

	return pool
}

// NewSQLDB creates a database/sql connection (lib/pq driver) for the test
// database and registers its cleanup with the test.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("postgres", DSN(t))
	if err != nil {
		t.Fatalf("failed to open sql.DB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if pingErr := db.Ping(); pingErr != nil {
		t.Fatalf("failed to connect to test database: %v", pingErr)
	}

	return db
}

// NewSQLXDB creates a sqlx connection (lib/pq driver) for the test
// database and registers its cleanup with the test.
func NewSQLXDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Connect("postgres", DSN(t))
	if err != nil {
		t.Fatalf("failed to connect sqlx.DB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// CreateEventLogTable ensures the event log table exists in the test
// database.
func CreateEventLogTable(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), createEventLogTableDDL); err != nil {
		t.Fatalf("failed to create event log table: %v", err)
	}
}
