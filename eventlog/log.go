package eventlog

import (
	"context"
	"time"

	"github.com/rtcdiag/eventlog-go/events"
)

const (
	defaultQueueCapacity = 512
	defaultHistorySize   = 10000
	defaultBatchSize     = 64
	defaultFlushInterval = 100 * time.Millisecond

	logMsgEncodeEventFailed = "failed to encode event"
	logMsgOutputWriteFailed = "failed to write events to output"
	logMsgLoggingStarted    = "logging started"
	logMsgLoggingStopped    = "logging stopped"
	logAttrError            = "error"
	logAttrEventType        = "event_type"
	logAttrEventCount       = "event_count"

	metricEventsDropped      = "eventlog.events_dropped"
	metricEventsEncoded      = "eventlog.events_encoded"
	metricEncodeFailures     = "eventlog.encode_failures"
	metricOutputWriteFailed  = "eventlog.output_write_failures"
	metricOutputWriteLatency = "eventlog.output_write_duration"
)

// Output is the contract a storage backend satisfies to receive encoded
// events from the asynchronous log.
type Output interface {
	Write(ctx context.Context, encodedEvents ...EncodedEvent) error
}

type ctlKind int

const (
	ctlStartLogging ctlKind = iota
	ctlStopLogging
	ctlClose
)

type ctlMsg struct {
	kind   ctlKind
	output Output
	reply  chan error
}

// Log is the asynchronous collector of the diagnostics log.
//
// Producers call Log from real-time threads; the call hands the event over
// a bounded queue and never blocks - when the queue is full the event is
// dropped and counted. A single dispatch goroutine consumes the queue and
// owns all state below, so the hot path needs no locks.
//
// Configuration events are retained for the lifetime of the Log. Runtime
// events are kept in a bounded ring while no output is attached. When
// StartLogging attaches an output, the retained configuration history is
// replayed first (cloned via Copy so the retained originals stay available
// for any later output), followed by the recent runtime history, followed
// by the live stream.
type Log struct {
	queue chan any
	done  chan struct{}

	queueCapacity int
	historySize   int
	batchSize     int
	flushInterval time.Duration
	logger        Logger
	metrics       MetricsCollector

	// State below is owned by the dispatch goroutine.
	output        Output
	configHistory events.Events
	history       events.Events
	batch         EncodedEvents
}

// Option defines a functional option for configuring a Log.
type Option func(*Log) error

// WithQueueCapacity sets the capacity of the producer-facing queue.
func WithQueueCapacity(capacity int) Option {
	return func(l *Log) error {
		if capacity > 0 {
			l.queueCapacity = capacity
		}
		return nil
	}
}

// WithHistorySize bounds the ring of runtime events retained while no
// output is attached. Configuration events are always retained.
func WithHistorySize(size int) Option {
	return func(l *Log) error {
		if size > 0 {
			l.historySize = size
		}
		return nil
	}
}

// WithBatchSize sets how many encoded events are buffered before a write
// to the output is forced.
func WithBatchSize(size int) Option {
	return func(l *Log) error {
		if size > 0 {
			l.batchSize = size
		}
		return nil
	}
}

// WithFlushInterval sets the interval at which a partially filled batch is
// written to the output.
func WithFlushInterval(interval time.Duration) Option {
	return func(l *Log) error {
		if interval > 0 {
			l.flushInterval = interval
		}
		return nil
	}
}

// WithLogger sets the logger for the Log.
func WithLogger(logger Logger) Option {
	return func(l *Log) error {
		l.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Log. The collector will
// receive drop counts, encode and write failures, and output write
// durations.
func WithMetrics(collector MetricsCollector) Option {
	return func(l *Log) error {
		l.metrics = collector
		return nil
	}
}

// New creates a Log with optional configuration and starts its dispatch
// goroutine. The returned Log must be released with Close.
func New(options ...Option) (*Log, error) {
	l := &Log{
		queueCapacity: defaultQueueCapacity,
		historySize:   defaultHistorySize,
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
	}

	for _, option := range options {
		if err := option(l); err != nil {
			return nil, err
		}
	}

	l.queue = make(chan any, l.queueCapacity)
	l.done = make(chan struct{})

	go l.dispatch()

	return l, nil
}

// Log hands an event to the collector by ownership transfer. The caller
// must not touch the event afterward. The call never blocks: if the queue
// is full or the log is closed, the event is dropped and counted.
func (l *Log) Log(event events.Event) {
	select {
	case <-l.done:
		l.countDrop()
		return
	default:
	}

	select {
	case l.queue <- event:
	default:
		l.countDrop()
	}
}

// StartLogging attaches an output and replays the retained configuration
// history and the recent runtime history into it before live events flow.
// It returns ErrAlreadyLogging if an output is attached and ErrLogClosed
// after Close.
func (l *Log) StartLogging(output Output) error {
	if output == nil {
		return ErrNilOutput
	}

	return l.control(ctlMsg{kind: ctlStartLogging, output: output, reply: make(chan error, 1)})
}

// StopLogging flushes pending events and detaches the output. Subsequent
// events are collected in memory again.
func (l *Log) StopLogging() error {
	return l.control(ctlMsg{kind: ctlStopLogging, reply: make(chan error, 1)})
}

// Close flushes pending events, detaches any output, and stops the
// dispatch goroutine. The Log must not be used afterward.
func (l *Log) Close() error {
	return l.control(ctlMsg{kind: ctlClose, reply: make(chan error, 1)})
}

func (l *Log) control(msg ctlMsg) error {
	select {
	case <-l.done:
		return ErrLogClosed
	case l.queue <- msg:
	}

	select {
	case err := <-msg.reply:
		return err
	case <-l.done:
		// The close message replies before done is closed; any other
		// message racing with Close gets the closed error.
		select {
		case err := <-msg.reply:
			return err
		default:
			return ErrLogClosed
		}
	}
}

// dispatch is the single goroutine consuming the queue. All Log state is
// confined to it.
func (l *Log) dispatch() {
	ticker := time.NewTicker(l.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case item := <-l.queue:
			switch msg := item.(type) {
			case events.Event:
				l.handleEvent(msg)

			case ctlMsg:
				if done := l.handleControl(msg); done {
					return
				}
			}

		case <-ticker.C:
			l.flush()
		}
	}
}

func (l *Log) handleControl(msg ctlMsg) bool {
	switch msg.kind {
	case ctlStartLogging:
		msg.reply <- l.attachOutput(msg.output)

	case ctlStopLogging:
		l.flush()
		l.output = nil
		l.logOperation(logMsgLoggingStopped)
		msg.reply <- nil

	case ctlClose:
		l.flush()
		l.output = nil
		// done must be closed before the reply so that a producer calling
		// Log right after Close returns always observes the closed state.
		close(l.done)
		msg.reply <- nil
		return true
	}

	return false
}

func (l *Log) handleEvent(event events.Event) {
	if event.IsConfigEvent() {
		l.configHistory = append(l.configHistory, event)
	}

	if l.output != nil {
		l.encodeIntoBatch(event)
		return
	}

	if !event.IsConfigEvent() {
		l.history = append(l.history, event)
		if len(l.history) > l.historySize {
			l.history = l.history[1:]
		}
	}
}

// attachOutput activates an output and replays the in-memory state into it.
// Config history events are cloned before encoding: the retained originals
// must survive for any output attached later.
func (l *Log) attachOutput(output Output) error {
	if l.output != nil {
		return ErrAlreadyLogging
	}

	l.output = output

	for _, configEvent := range l.configHistory {
		l.encodeIntoBatch(configEvent.Copy())
	}

	for _, historicEvent := range l.history {
		l.encodeIntoBatch(historicEvent)
	}
	l.history = nil

	l.flush()
	l.logOperation(logMsgLoggingStarted, logAttrEventCount, len(l.configHistory))

	return nil
}

func (l *Log) encodeIntoBatch(event events.Event) {
	encoded, err := EncodeEvent(event)
	if err != nil {
		if l.logger != nil {
			l.logger.Error(logMsgEncodeEventFailed, logAttrError, err.Error(), logAttrEventType, event.GetType().String())
		}
		l.countMetric(metricEncodeFailures)

		return
	}

	l.countMetric(metricEventsEncoded)
	l.batch = append(l.batch, encoded)

	if len(l.batch) >= l.batchSize {
		l.flush()
	}
}

// flush writes the pending batch to the output. Failed batches are dropped
// after logging and counting: retry policy belongs to the Output
// implementation, not the collector.
func (l *Log) flush() {
	if l.output == nil || len(l.batch) == 0 {
		return
	}

	start := time.Now()
	err := l.output.Write(context.Background(), l.batch...)
	duration := time.Since(start)

	if l.metrics != nil {
		l.metrics.RecordDuration(metricOutputWriteLatency, duration, nil)
	}

	if err != nil {
		if l.logger != nil {
			l.logger.Error(logMsgOutputWriteFailed, logAttrError, err.Error(), logAttrEventCount, len(l.batch))
		}
		l.countMetric(metricOutputWriteFailed)
	}

	l.batch = l.batch[:0]
}

func (l *Log) countDrop() {
	l.countMetric(metricEventsDropped)
}

func (l *Log) countMetric(metric string) {
	if l.metrics != nil {
		l.metrics.IncrementCounter(metric, nil)
	}
}

func (l *Log) logOperation(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Info(msg, args...)
	}
}
