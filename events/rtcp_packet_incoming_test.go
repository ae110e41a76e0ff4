package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_BuildRtcpPacketIncoming_CopiesCallerBuffer(t *testing.T) {
	buffer := []byte{0x81, 0xc9, 0x00, 0x07, 0x12, 0x34}

	event, err := BuildRtcpPacketIncoming(buffer, 2500)
	require.NoError(t, err)

	buffer[0] = 0x00
	buffer[1] = 0x00

	assert.Equal(t, []byte{0x81, 0xc9, 0x00, 0x07, 0x12, 0x34}, event.Packet())
	assert.Equal(t, int64(2500), event.GetTimestampUs())
	assert.False(t, event.IsConfigEvent())
}

func Test_BuildRtcpPacketIncoming_RejectsEmptyPacket(t *testing.T) {
	tests := []struct {
		name   string
		packet []byte
	}{
		{name: "nil packet", packet: nil},
		{name: "zero length packet", packet: []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := BuildRtcpPacketIncoming(tt.packet, NowUs())
			assert.ErrorIs(t, err, ErrEmptyRtcpPacket)
			assert.Nil(t, event)
		})
	}
}

func Test_RtcpPacketIncoming_Copy_DuplicatesBuffer(t *testing.T) {
	event, err := BuildRtcpPacketIncoming([]byte{0x80, 0xc8, 0x00, 0x06}, 9000)
	require.NoError(t, err)

	clone := event.Copy().(*RtcpPacketIncoming)

	event.packet[0] = 0xff

	assert.Equal(t, []byte{0x80, 0xc8, 0x00, 0x06}, clone.Packet())
	assert.Equal(t, event.GetType(), clone.GetType())
	assert.Equal(t, int64(9000), clone.GetTimestampUs())
	assert.False(t, clone.IsConfigEvent())
}

func Test_RtcpPacketIncoming_PayloadRoundTrip(t *testing.T) {
	original, err := BuildRtcpPacketIncoming([]byte{0x80, 0xc8, 0x00, 0x06, 0xde, 0xad}, 100)
	require.NoError(t, err)

	payload, err := original.PayloadToJSON()
	require.NoError(t, err)

	decoded, err := EventFromJSON(EventTypeRtcpPacketIncoming, 100, payload)
	require.NoError(t, err)

	assert.Equal(t, original.Packet(), decoded.(*RtcpPacketIncoming).Packet())
}
