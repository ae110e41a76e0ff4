package postgresengine_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtcdiag/eventlog-go/eventlog"
	"github.com/rtcdiag/eventlog-go/eventlog/postgresengine"
	"github.com/rtcdiag/eventlog-go/events"
	"github.com/rtcdiag/eventlog-go/testutil/postgrestest"
)

// Requires a PostgreSQL instance, see testutil/postgrestest.
func Test_EventLogStore_AppendAndQuery_RoundTrip(t *testing.T) {
	pool := postgrestest.NewPGXPool(t)
	postgrestest.CreateEventLogTable(t, pool)

	store, err := postgresengine.NewEventLogStoreFromPGXPool(pool)
	require.NoError(t, err)

	sessionID := uuid.New()
	ctx := context.Background()

	configEvent, err := events.BuildAudioSendStreamConfig(
		&events.StreamConfig{
			LocalSSRC: 1001,
			Codecs:    []events.Codec{{PayloadName: "opus", PayloadType: 111}},
		},
		5000,
	)
	require.NoError(t, err)

	rtcpEvent, err := events.BuildRtcpPacketIncoming([]byte{0x80, 0xc8, 0x00, 0x06}, 6000)
	require.NoError(t, err)

	encodedConfig, err := eventlog.EncodeEvent(configEvent)
	require.NoError(t, err)

	encodedRtcp, err := eventlog.EncodeEvent(rtcpEvent)
	require.NoError(t, err)

	require.NoError(t, store.Append(ctx, sessionID, encodedConfig, encodedRtcp))

	allEvents, err := store.Query(ctx, sessionID, eventlog.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, err)
	require.Len(t, allEvents, 2)
	assert.Equal(t, "AudioSendStreamConfig", allEvents[0].EventType)
	assert.Equal(t, "RtcpPacketIncoming", allEvents[1].EventType)

	configOnly, err := store.Query(ctx, sessionID, eventlog.BuildEventFilter().
		Matching().
		ConfigEventsOnly().
		Finalize())
	require.NoError(t, err)
	require.Len(t, configOnly, 1)
	assert.Equal(t, int64(5000), configOnly[0].TimestampUs)

	decoded, err := eventlog.DecodeEvent(configOnly[0])
	require.NoError(t, err)
	assert.Equal(t, uint32(1001), decoded.(*events.AudioSendStreamConfig).Config().LocalSSRC)
}

func Test_EventLogStore_Factories_SupportAllAdapters(t *testing.T) {
	pool := postgrestest.NewPGXPool(t)
	postgrestest.CreateEventLogTable(t, pool)

	sqlDB := postgrestest.NewSQLDB(t)
	sqlxDB := postgrestest.NewSQLXDB(t)

	fromPGX, err := postgresengine.NewEventLogStoreFromPGXPool(pool)
	require.NoError(t, err)

	fromSQL, err := postgresengine.NewEventLogStoreFromSQLDB(sqlDB)
	require.NoError(t, err)

	fromSQLX, err := postgresengine.NewEventLogStoreFromSQLX(sqlxDB)
	require.NoError(t, err)

	sessionID := uuid.New()
	ctx := context.Background()

	encodedEvent, err := eventlog.BuildEncodedEvent("RtcpPacketIncoming", 100, false, []byte(`{"packet": "gMgABg=="}`))
	require.NoError(t, err)

	for _, store := range []postgresengine.EventLogStore{fromPGX, fromSQL, fromSQLX} {
		require.NoError(t, store.Append(ctx, sessionID, encodedEvent))
	}

	allEvents, err := fromPGX.Query(ctx, sessionID, eventlog.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, err)
	assert.Len(t, allEvents, 3)
}
