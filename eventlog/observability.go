package eventlog

import (
	"time"
)

// Logger interface for operational logging, warnings, and error reporting.
// The method set matches log/slog, so a *slog.Logger satisfies it directly.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsCollector interface for collecting event log performance and
// operational metrics. Implementations map the calls onto their backend's
// instruments (for example Prometheus histograms, counters, and gauges);
// the log itself stays dependency-free. Implementations must be safe for
// concurrent use: drop counts are recorded from producer threads.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}
