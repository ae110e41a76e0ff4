package events

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNilStreamConfig is returned when a configuration event is built without a snapshot.
	ErrNilStreamConfig = errors.New("stream config must not be nil")

	// ErrEmptyRtcpPacket is returned when an RTCP packet event is built from an empty buffer.
	ErrEmptyRtcpPacket = errors.New("rtcp packet must not be empty")

	// ErrUnknownEventType is returned when a type tag does not name a known event kind.
	ErrUnknownEventType = errors.New("unknown event type")
)

// Events is an alias type for a slice of Event.
type Events = []Event

// Event is the contract every record in the diagnostics log satisfies.
//
// Implementations are immutable after construction. The type discriminant
// and the config classification are fixed for the lifetime of an instance
// and are preserved by Copy.
type Event interface {
	// GetType returns the fixed discriminant for this event kind.
	GetType() EventType

	// IsConfigEvent reports whether this event carries persistent
	// configuration state that must be replayed before runtime events
	// for the same stream can be interpreted.
	IsConfigEvent() bool

	// GetTimestampUs returns the capture timestamp in monotonic
	// microseconds. It is set once at construction and never re-sampled.
	GetTimestampUs() int64

	// Copy returns a new, independently owned event whose observable
	// state equals this one's. The owned payload is deep-copied; the two
	// instances share no mutable state.
	Copy() Event

	// PayloadToJSON serializes the kind-specific payload. It exists so
	// the logging sink can encode events polymorphically without knowing
	// concrete kinds.
	PayloadToJSON() ([]byte, error)
}

// EventType identifies one concrete event kind.
type EventType int

const (
	EventTypeUnknown EventType = iota
	EventTypeAudioSendStreamConfig
	EventTypeAudioRecvStreamConfig
	EventTypeVideoSendStreamConfig
	EventTypeVideoRecvStreamConfig
	EventTypeRtcpPacketIncoming
)

const (
	eventTypeNameAudioSendStreamConfig = "AudioSendStreamConfig"
	eventTypeNameAudioRecvStreamConfig = "AudioRecvStreamConfig"
	eventTypeNameVideoSendStreamConfig = "VideoSendStreamConfig"
	eventTypeNameVideoRecvStreamConfig = "VideoRecvStreamConfig"
	eventTypeNameRtcpPacketIncoming    = "RtcpPacketIncoming"
)

// String returns the stable name of the event type, as stored by the log.
func (t EventType) String() string {
	switch t {
	case EventTypeAudioSendStreamConfig:
		return eventTypeNameAudioSendStreamConfig
	case EventTypeAudioRecvStreamConfig:
		return eventTypeNameAudioRecvStreamConfig
	case EventTypeVideoSendStreamConfig:
		return eventTypeNameVideoSendStreamConfig
	case EventTypeVideoRecvStreamConfig:
		return eventTypeNameVideoRecvStreamConfig
	case EventTypeRtcpPacketIncoming:
		return eventTypeNameRtcpPacketIncoming
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// EventTypeFromString maps a stored type name back to its EventType.
func EventTypeFromString(name string) (EventType, error) {
	switch name {
	case eventTypeNameAudioSendStreamConfig:
		return EventTypeAudioSendStreamConfig, nil
	case eventTypeNameAudioRecvStreamConfig:
		return EventTypeAudioRecvStreamConfig, nil
	case eventTypeNameVideoSendStreamConfig:
		return EventTypeVideoSendStreamConfig, nil
	case eventTypeNameVideoRecvStreamConfig:
		return EventTypeVideoRecvStreamConfig, nil
	case eventTypeNameRtcpPacketIncoming:
		return EventTypeRtcpPacketIncoming, nil
	default:
		return EventTypeUnknown, fmt.Errorf("%w: %q", ErrUnknownEventType, name)
	}
}

var processStart = time.Now()

// NowUs returns the current capture timestamp in microseconds, measured on
// the monotonic clock relative to process start. Producers pass this to the
// Build factories; clones keep the original value.
func NowUs() int64 {
	return time.Since(processStart).Microseconds()
}
