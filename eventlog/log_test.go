package eventlog_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtcdiag/eventlog-go/eventlog"
	"github.com/rtcdiag/eventlog-go/events"
)

/***** Test doubles *****/

type outputSpy struct {
	mu      sync.Mutex
	writes  [][]eventlog.EncodedEvent
	failErr error
}

func (o *outputSpy) Write(_ context.Context, encodedEvents ...eventlog.EncodedEvent) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.failErr != nil {
		return o.failErr
	}

	batch := make([]eventlog.EncodedEvent, len(encodedEvents))
	copy(batch, encodedEvents)
	o.writes = append(o.writes, batch)

	return nil
}

func (o *outputSpy) allEvents() []eventlog.EncodedEvent {
	o.mu.Lock()
	defer o.mu.Unlock()

	var all []eventlog.EncodedEvent
	for _, batch := range o.writes {
		all = append(all, batch...)
	}

	return all
}

type loggerSpy struct {
	mu     sync.Mutex
	errors []string
}

func (l *loggerSpy) Debug(string, ...any) {}
func (l *loggerSpy) Info(string, ...any)  {}
func (l *loggerSpy) Warn(string, ...any)  {}

func (l *loggerSpy) Error(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *loggerSpy) errorMessages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.errors...)
}

type metricsSpy struct {
	mu       sync.Mutex
	counters map[string]int
}

func newMetricsSpy() *metricsSpy {
	return &metricsSpy{counters: make(map[string]int)}
}

func (m *metricsSpy) RecordDuration(string, time.Duration, map[string]string) {}
func (m *metricsSpy) RecordValue(string, float64, map[string]string)          {}

func (m *metricsSpy) IncrementCounter(metric string, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[metric]++
}

func (m *metricsSpy) counterValue(metric string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[metric]
}

/***** Event helpers *****/

func audioConfigEvent(t *testing.T, localSSRC uint32, timestampUs int64) events.Event {
	t.Helper()

	event, err := events.BuildAudioSendStreamConfig(
		&events.StreamConfig{
			LocalSSRC: localSSRC,
			Codecs:    []events.Codec{{PayloadName: "opus", PayloadType: 111}},
		},
		timestampUs,
	)
	require.NoError(t, err)

	return event
}

func rtcpEvent(t *testing.T, timestampUs int64) events.Event {
	t.Helper()

	event, err := events.BuildRtcpPacketIncoming([]byte{0x80, 0xc8, 0x00, 0x06}, timestampUs)
	require.NoError(t, err)

	return event
}

/***** Tests *****/

func Test_Log_StartLogging_ReplaysConfigHistoryBeforeRuntimeHistory(t *testing.T) {
	log, err := eventlog.New(eventlog.WithFlushInterval(time.Hour))
	require.NoError(t, err)
	defer func() { _ = log.Close() }()

	log.Log(audioConfigEvent(t, 1001, 100))
	log.Log(rtcpEvent(t, 200))
	log.Log(audioConfigEvent(t, 2002, 300))

	output := &outputSpy{}
	require.NoError(t, log.StartLogging(output))

	all := output.allEvents()
	require.Len(t, all, 3)
	assert.True(t, all[0].IsConfig)
	assert.True(t, all[1].IsConfig)
	assert.False(t, all[2].IsConfig)
	assert.Equal(t, int64(100), all[0].TimestampUs)
	assert.Equal(t, int64(300), all[1].TimestampUs)
	assert.Equal(t, int64(200), all[2].TimestampUs)
}

func Test_Log_ConfigHistory_IsReplayedIntoEveryOutput(t *testing.T) {
	log, err := eventlog.New(eventlog.WithFlushInterval(time.Hour))
	require.NoError(t, err)
	defer func() { _ = log.Close() }()

	log.Log(audioConfigEvent(t, 1001, 5000))

	first := &outputSpy{}
	require.NoError(t, log.StartLogging(first))
	require.NoError(t, log.StopLogging())

	second := &outputSpy{}
	require.NoError(t, log.StartLogging(second))
	require.NoError(t, log.StopLogging())

	require.Len(t, first.allEvents(), 1)
	require.Len(t, second.allEvents(), 1)
	assert.Equal(t, first.allEvents()[0], second.allEvents()[0])
	assert.Equal(t, "AudioSendStreamConfig", second.allEvents()[0].EventType)
}

func Test_Log_LiveEvents_FlowToAttachedOutput(t *testing.T) {
	log, err := eventlog.New(
		eventlog.WithFlushInterval(time.Hour),
		eventlog.WithBatchSize(2),
	)
	require.NoError(t, err)
	defer func() { _ = log.Close() }()

	output := &outputSpy{}
	require.NoError(t, log.StartLogging(output))

	log.Log(rtcpEvent(t, 100))
	log.Log(rtcpEvent(t, 200))
	log.Log(rtcpEvent(t, 300))

	require.NoError(t, log.StopLogging())

	all := output.allEvents()
	require.Len(t, all, 3)
	assert.Equal(t, int64(100), all[0].TimestampUs)
	assert.Equal(t, int64(200), all[1].TimestampUs)
	assert.Equal(t, int64(300), all[2].TimestampUs)
}

func Test_Log_RuntimeHistoryRing_IsBounded(t *testing.T) {
	log, err := eventlog.New(
		eventlog.WithFlushInterval(time.Hour),
		eventlog.WithHistorySize(2),
	)
	require.NoError(t, err)
	defer func() { _ = log.Close() }()

	log.Log(rtcpEvent(t, 100))
	log.Log(rtcpEvent(t, 200))
	log.Log(rtcpEvent(t, 300))

	output := &outputSpy{}
	require.NoError(t, log.StartLogging(output))

	all := output.allEvents()
	require.Len(t, all, 2)
	assert.Equal(t, int64(200), all[0].TimestampUs)
	assert.Equal(t, int64(300), all[1].TimestampUs)
}

func Test_Log_StartLogging_RejectsNilAndDuplicateOutput(t *testing.T) {
	log, err := eventlog.New()
	require.NoError(t, err)
	defer func() { _ = log.Close() }()

	assert.ErrorIs(t, log.StartLogging(nil), eventlog.ErrNilOutput)

	require.NoError(t, log.StartLogging(&outputSpy{}))
	assert.ErrorIs(t, log.StartLogging(&outputSpy{}), eventlog.ErrAlreadyLogging)
}

func Test_Log_AfterClose_EventsAreDroppedAndCounted(t *testing.T) {
	metrics := newMetricsSpy()

	log, err := eventlog.New(eventlog.WithMetrics(metrics))
	require.NoError(t, err)

	require.NoError(t, log.Close())

	log.Log(rtcpEvent(t, 100))

	assert.Equal(t, 1, metrics.counterValue("eventlog.events_dropped"))
	assert.ErrorIs(t, log.StartLogging(&outputSpy{}), eventlog.ErrLogClosed)
	assert.ErrorIs(t, log.Close(), eventlog.ErrLogClosed)
}

func Test_Log_OutputWriteFailure_IsLoggedAndCounted(t *testing.T) {
	logger := &loggerSpy{}
	metrics := newMetricsSpy()

	log, err := eventlog.New(
		eventlog.WithFlushInterval(time.Hour),
		eventlog.WithLogger(logger),
		eventlog.WithMetrics(metrics),
	)
	require.NoError(t, err)
	defer func() { _ = log.Close() }()

	output := &outputSpy{failErr: errors.New("disk full")}
	require.NoError(t, log.StartLogging(output))

	log.Log(rtcpEvent(t, 100))
	require.NoError(t, log.StopLogging())

	assert.Equal(t, 1, metrics.counterValue("eventlog.output_write_failures"))
	assert.Contains(t, logger.errorMessages(), "failed to write events to output")
}
