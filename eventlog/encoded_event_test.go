package eventlog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtcdiag/eventlog-go/eventlog"
	"github.com/rtcdiag/eventlog-go/events"
)

func Test_BuildEncodedEvent_ErrorCases(t *testing.T) {
	tests := []struct {
		name        string
		payloadJSON []byte
		expectedErr error
	}{
		{
			name:        "invalid payload JSON",
			payloadJSON: []byte(`{"invalid": json}`),
			expectedErr: eventlog.ErrInvalidPayloadJSON,
		},
		{
			name:        "empty payload JSON",
			payloadJSON: []byte(``),
			expectedErr: eventlog.ErrInvalidPayloadJSON,
		},
		{
			name:        "nil payload JSON",
			payloadJSON: nil,
			expectedErr: eventlog.ErrInvalidPayloadJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eventlog.BuildEncodedEvent("AudioSendStreamConfig", 1000, true, tt.payloadJSON)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func Test_BuildEncodedEvent_Success(t *testing.T) {
	payloadJSON := []byte(`{"local_ssrc": 1001}`)

	encoded, err := eventlog.BuildEncodedEvent("AudioSendStreamConfig", 5000, true, payloadJSON)
	assert.NoError(t, err)
	assert.Equal(t, "AudioSendStreamConfig", encoded.EventType)
	assert.Equal(t, int64(5000), encoded.TimestampUs)
	assert.True(t, encoded.IsConfig)
	assert.Equal(t, payloadJSON, encoded.PayloadJSON)
}

func Test_EncodeEvent_DecodeEvent_RoundTrip(t *testing.T) {
	config := &events.StreamConfig{
		LocalSSRC: 1001,
		Codecs: []events.Codec{
			{PayloadName: "opus", PayloadType: 111},
		},
	}

	event, err := events.BuildAudioSendStreamConfig(config, 5000)
	require.NoError(t, err)

	encoded, err := eventlog.EncodeEvent(event)
	require.NoError(t, err)

	assert.Equal(t, "AudioSendStreamConfig", encoded.EventType)
	assert.Equal(t, int64(5000), encoded.TimestampUs)
	assert.True(t, encoded.IsConfig)

	decoded, err := eventlog.DecodeEvent(encoded)
	require.NoError(t, err)

	assert.Equal(t, event.GetType(), decoded.GetType())
	assert.Equal(t, event.GetTimestampUs(), decoded.GetTimestampUs())
	assert.Equal(t, config, decoded.(*events.AudioSendStreamConfig).Config())
}

func Test_DecodeEvent_RejectsUnknownEventType(t *testing.T) {
	encoded := eventlog.EncodedEvent{
		EventType:   "NotAnEventKind",
		PayloadJSON: []byte(`{}`),
	}

	_, err := eventlog.DecodeEvent(encoded)
	assert.ErrorIs(t, err, events.ErrUnknownEventType)
}
