// Package postgresengine provides a PostgreSQL-backed storage engine for
// the RTC diagnostics event log.
//
// Encoded events are appended to a single append-only table keyed by a
// session UUID, one row per event, with the payload stored as JSONB. There
// is no optimistic concurrency handling: a diagnostics session has exactly
// one writer, the asynchronous log that owns it.
//
// The engine supports three PostgreSQL database adapters:
//   - pgxpool.Pool via NewEventLogStoreFromPGXPool
//   - database/sql via NewEventLogStoreFromSQLDB
//   - sqlx.DB via NewEventLogStoreFromSQLX
//
// Common usage pattern:
//
//	store, _ := postgresengine.NewEventLogStoreFromPGXPool(pool)
//
//	// as a live sink for the asynchronous log
//	_ = log.StartLogging(store.OutputForSession(sessionID))
//
//	// reading a session back
//	filter := eventlog.BuildEventFilter().
//		Matching().
//		ConfigEventsOnly().
//		Finalize()
//	encodedEvents, _ := store.Query(ctx, sessionID, filter)
package postgresengine
