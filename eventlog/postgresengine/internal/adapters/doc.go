// Package adapters isolates the event log store from the concrete
// PostgreSQL driver in use. The store only depends on the DBAdapter seam;
// the adapters wrap pgxpool.Pool, database/sql, and sqlx.DB behind it.
package adapters
