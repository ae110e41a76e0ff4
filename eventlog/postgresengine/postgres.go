package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/rtcdiag/eventlog-go/eventlog"
	"github.com/rtcdiag/eventlog-go/eventlog/postgresengine/internal/adapters"
)

const (
	defaultEventTableName        = "rtc_events"
	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgBuildInsertQueryFailed = "failed to build insert query"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgDBExecFailed           = "database execution failed during event append"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgBuildEncodedFailed     = "failed to build encoded event from database row"
	logMsgQueryCompleted         = "query completed"
	logMsgEventsAppended         = "events appended"
	logMsgSQLExecuted            = "executed sql for: "
	logMsgOperation              = "eventlog store operation: "
	logAttrError                 = "error"
	logAttrQuery                 = "query"
	logAttrEventType             = "event_type"
	logAttrEventCount            = "event_count"
	logAttrSessionID             = "session_id"
	logAttrDurationMS            = "duration_ms"
	logActionQuery               = "query"
	logActionAppend              = "append"
	colSessionID                 = "session_id"
	colEventType                 = "event_type"
	colTimestampUs               = "timestamp_us"
	colIsConfig                  = "is_config"
	colPayload                   = "payload"
	dialectPostgres              = "postgres"
	castUUID                     = "?::uuid"
	castJsonb                    = "?::jsonb"

	metricAppendDuration = "eventlog.store_append_duration"
	metricQueryDuration  = "eventlog.store_query_duration"
	metricStoreErrors    = "eventlog.store_errors"
)

type sqlQueryString = string

// EventLogStore persists encoded diagnostics events in PostgreSQL and
// queries them back per session. It leverages a database adapter and
// supports customizable logging, metrics, and event table configuration.
type EventLogStore struct {
	db             adapters.DBAdapter
	eventTableName string
	logger         eventlog.Logger
	metrics        eventlog.MetricsCollector
}

// Option defines a functional option for configuring EventLogStore.
type Option func(*EventLogStore) error

// WithTableName sets the table name for the EventLogStore.
func WithTableName(tableName string) Option {
	return func(s *EventLogStore) error {
		if tableName == "" {
			return eventlog.ErrEmptyEventsTableName
		}

		s.eventTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the EventLogStore.
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Event counts and durations (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger eventlog.Logger) Option {
	return func(s *EventLogStore) error {
		s.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the EventLogStore. The
// collector will receive append/query durations and error counts.
func WithMetrics(collector eventlog.MetricsCollector) Option {
	return func(s *EventLogStore) error {
		s.metrics = collector
		return nil
	}
}

// NewEventLogStoreFromPGXPool creates a new EventLogStore using a pgx Pool with optional configuration.
func NewEventLogStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (EventLogStore, error) {
	if db == nil {
		return EventLogStore{}, eventlog.ErrNilDatabaseConnection
	}

	return newEventLogStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventLogStoreFromSQLDB creates a new EventLogStore using a sql.DB with optional configuration.
func NewEventLogStoreFromSQLDB(db *sql.DB, options ...Option) (EventLogStore, error) {
	if db == nil {
		return EventLogStore{}, eventlog.ErrNilDatabaseConnection
	}

	return newEventLogStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventLogStoreFromSQLX creates a new EventLogStore using a sqlx.DB with optional configuration.
func NewEventLogStoreFromSQLX(db *sqlx.DB, options ...Option) (EventLogStore, error) {
	if db == nil {
		return EventLogStore{}, eventlog.ErrNilDatabaseConnection
	}

	return newEventLogStore(adapters.NewSQLXAdapter(db), options...)
}

func newEventLogStore(db adapters.DBAdapter, options ...Option) (EventLogStore, error) {
	s := EventLogStore{
		db:             db,
		eventTableName: defaultEventTableName,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return EventLogStore{}, err
		}
	}

	return s, nil
}

// OutputForSession adapts the store to the eventlog.Output contract for
// one diagnostics session. Every batch written through the returned output
// is appended under the given session ID.
func (s EventLogStore) OutputForSession(sessionID uuid.UUID) eventlog.Output {
	return sessionOutput{store: s, sessionID: sessionID}
}

type sessionOutput struct {
	store     EventLogStore
	sessionID uuid.UUID
}

func (o sessionOutput) Write(ctx context.Context, encodedEvents ...eventlog.EncodedEvent) error {
	return o.store.Append(ctx, o.sessionID, encodedEvents...)
}

// Append appends one or multiple eventlog.EncodedEvent(s) for the given
// session onto the event log table. The table is append-only; there is no
// sequence bookkeeping and no concurrency check.
func (s EventLogStore) Append(ctx context.Context, sessionID uuid.UUID, encodedEvents ...eventlog.EncodedEvent) error {
	if len(encodedEvents) == 0 {
		return nil
	}

	sqlQuery, buildQueryErr := s.buildInsertQuery(sessionID, encodedEvents)
	if buildQueryErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgBuildInsertQueryFailed, logAttrError, buildQueryErr.Error(), logAttrEventCount, len(encodedEvents))
		}
		s.countError(logActionAppend)

		return buildQueryErr
	}

	start := time.Now()
	_, execErr := s.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(sqlQuery, logActionAppend, duration)
	s.recordDuration(metricAppendDuration, duration)

	if execErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgDBExecFailed, logAttrError, execErr.Error(), logAttrQuery, sqlQuery)
		}
		s.countError(logActionAppend)

		return errors.Join(eventlog.ErrAppendingEventsFailed, execErr)
	}

	s.logOperation(
		logMsgEventsAppended,
		logAttrSessionID, sessionID.String(),
		logAttrEventCount, len(encodedEvents),
		logAttrDurationMS, durationToMilliseconds(duration),
	)

	return nil
}

// Query retrieves the events of one session matching the provided
// eventlog.Filter criteria, ordered by capture timestamp.
func (s EventLogStore) Query(ctx context.Context, sessionID uuid.UUID, filter eventlog.Filter) (eventlog.EncodedEvents, error) {
	var empty eventlog.EncodedEvents

	sqlQuery, buildQueryErr := s.buildSelectQuery(sessionID, filter)
	if buildQueryErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgBuildSelectQueryFailed, logAttrError, buildQueryErr.Error())
		}
		s.countError(logActionQuery)

		return empty, buildQueryErr
	}

	start := time.Now()
	rows, queryErr := s.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(sqlQuery, logActionQuery, duration)
	s.recordDuration(metricQueryDuration, duration)

	if queryErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		}
		s.countError(logActionQuery)

		return empty, errors.Join(eventlog.ErrQueryingEventsFailed, queryErr)
	}
	defer s.closeRows(rows)

	encodedEvents, scanErr := s.processQueryResults(rows)
	if scanErr != nil {
		s.countError(logActionQuery)
		return empty, scanErr
	}

	s.logOperation(
		logMsgQueryCompleted,
		logAttrSessionID, sessionID.String(),
		logAttrEventCount, len(encodedEvents),
		logAttrDurationMS, durationToMilliseconds(duration),
	)

	return encodedEvents, nil
}

// closeRows safely closes database rows and logs any errors.
func (s EventLogStore) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if s.logger != nil {
			s.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

// processQueryResults converts database rows back to encoded events.
func (s EventLogStore) processQueryResults(rows adapters.DBRows) (eventlog.EncodedEvents, error) {
	var empty eventlog.EncodedEvents

	var (
		eventType   string
		timestampUs int64
		isConfig    bool
		payload     []byte
	)

	encodedEvents := make(eventlog.EncodedEvents, 0)

	for rows.Next() {
		rowScanErr := rows.Scan(&eventType, &timestampUs, &isConfig, &payload)
		if rowScanErr != nil {
			if s.logger != nil {
				s.logger.Error(logMsgScanRowFailed, logAttrError, rowScanErr.Error())
			}

			return empty, errors.Join(eventlog.ErrScanningDBRowFailed, rowScanErr)
		}

		encodedEvent, buildErr := eventlog.BuildEncodedEvent(eventType, timestampUs, isConfig, payload)
		if buildErr != nil {
			if s.logger != nil {
				s.logger.Error(logMsgBuildEncodedFailed, logAttrError, buildErr.Error(), logAttrEventType, eventType)
			}

			return empty, errors.Join(eventlog.ErrBuildingEncodedEventFailed, buildErr)
		}

		encodedEvents = append(encodedEvents, encodedEvent)
	}

	return encodedEvents, nil
}

func (s EventLogStore) buildInsertQuery(sessionID uuid.UUID, encodedEvents eventlog.EncodedEvents) (sqlQueryString, error) {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(s.eventTableName).
		Cols(colSessionID, colEventType, colTimestampUs, colIsConfig, colPayload)

	for _, encodedEvent := range encodedEvents {
		insertStmt = insertStmt.Vals(goqu.Vals{
			goqu.L(castUUID, sessionID.String()),
			encodedEvent.EventType,
			encodedEvent.TimestampUs,
			encodedEvent.IsConfig,
			goqu.L(castJsonb, string(encodedEvent.PayloadJSON)),
		})
	}

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventlog.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (s EventLogStore) buildSelectQuery(sessionID uuid.UUID, filter eventlog.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.eventTableName).
		Select(colEventType, colTimestampUs, colIsConfig, colPayload).
		Where(goqu.C(colSessionID).Eq(goqu.L(castUUID, sessionID.String()))).
		Order(goqu.I(colTimestampUs).Asc())

	selectStmt = s.addFilterClause(filter, selectStmt)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventlog.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (s EventLogStore) addFilterClause(filter eventlog.Filter, selectStmt *goqu.SelectDataset) *goqu.SelectDataset {
	if eventTypes := filter.EventTypes(); len(eventTypes) > 0 {
		selectStmt = selectStmt.Where(goqu.C(colEventType).In(eventTypes))
	}

	if filter.ConfigOnly() {
		selectStmt = selectStmt.Where(goqu.C(colIsConfig).IsTrue())
	}

	if filter.OccurredFromUs() > 0 {
		selectStmt = selectStmt.Where(goqu.C(colTimestampUs).Gte(filter.OccurredFromUs()))
	}

	if filter.OccurredUntilUs() > 0 {
		selectStmt = selectStmt.Where(goqu.C(colTimestampUs).Lte(filter.OccurredUntilUs()))
	}

	return selectStmt
}

// logQueryWithDuration logs SQL queries with execution time at debug level if the logger is configured.
func (s EventLogStore) logQueryWithDuration(sqlQuery string, action string, duration time.Duration) {
	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, durationToMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (s EventLogStore) logOperation(action string, args ...any) {
	if s.logger != nil {
		s.logger.Info(logMsgOperation+action, args...)
	}
}

func (s EventLogStore) recordDuration(metric string, duration time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordDuration(metric, duration, nil)
	}
}

func (s EventLogStore) countError(action string) {
	if s.metrics != nil {
		s.metrics.IncrementCounter(metricStoreErrors, map[string]string{"action": action})
	}
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
