package events

import (
	jsoniter "github.com/json-iterator/go"
)

// RtcpPacketIncoming is the runtime event recorded when an RTCP packet is
// received on the transport. It owns its own copy of the packet bytes, so
// the producer's buffer can be reused immediately after the factory
// returns.
type RtcpPacketIncoming struct {
	timestampUs int64
	packet      []byte
}

type rtcpPacketPayload struct {
	Packet []byte `json:"packet"`
}

// BuildRtcpPacketIncoming records an incoming RTCP packet captured at the
// given monotonic timestamp. The packet bytes are copied. An empty packet
// is rejected.
func BuildRtcpPacketIncoming(packet []byte, timestampUs int64) (*RtcpPacketIncoming, error) {
	if len(packet) == 0 {
		return nil, ErrEmptyRtcpPacket
	}

	owned := make([]byte, len(packet))
	copy(owned, packet)

	return &RtcpPacketIncoming{
		timestampUs: timestampUs,
		packet:      owned,
	}, nil
}

func (e *RtcpPacketIncoming) GetType() EventType {
	return EventTypeRtcpPacketIncoming
}

// IsConfigEvent always reports false for this kind.
func (e *RtcpPacketIncoming) IsConfigEvent() bool {
	return false
}

func (e *RtcpPacketIncoming) GetTimestampUs() int64 {
	return e.timestampUs
}

// Packet returns the owned packet bytes for serialization, read-only.
func (e *RtcpPacketIncoming) Packet() []byte {
	return e.packet
}

// Copy returns an independently owned clone with its own copy of the
// packet bytes.
func (e *RtcpPacketIncoming) Copy() Event {
	packetCopy := make([]byte, len(e.packet))
	copy(packetCopy, e.packet)

	return &RtcpPacketIncoming{
		timestampUs: e.timestampUs,
		packet:      packetCopy,
	}
}

func (e *RtcpPacketIncoming) PayloadToJSON() ([]byte, error) {
	return jsoniter.ConfigFastest.Marshal(rtcpPacketPayload{Packet: e.packet})
}
