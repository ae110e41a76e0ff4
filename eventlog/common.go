package eventlog

import (
	"errors"
)

var ErrEmptyEventsTableName = errors.New("empty eventTableName supplied")
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")
var ErrNilOutput = errors.New("output must not be nil")
var ErrAlreadyLogging = errors.New("an output is already attached")
var ErrLogClosed = errors.New("event log is closed")
var ErrBuildingQueryFailed = errors.New("building query failed")
var ErrAppendingEventsFailed = errors.New("appending events failed")
var ErrQueryingEventsFailed = errors.New("querying events failed")
var ErrScanningDBRowFailed = errors.New("scanning database row failed")
var ErrBuildingEncodedEventFailed = errors.New("building encoded event failed")
