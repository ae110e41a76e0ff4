package eventlog

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/rtcdiag/eventlog-go/events"
)

var ErrInvalidPayloadJSON = errors.New("payload json is not valid")
var ErrEncodingEventFailed = errors.New("encoding event failed")

// EncodedEvents is an alias type for a slice of EncodedEvent.
type EncodedEvents = []EncodedEvent

// EncodedEvent is a DTO (data transfer object) used between the
// asynchronous log and its storage backends.
//
// It is built on scalars so backends stay agnostic of the concrete event
// kinds. While its properties are exported, it should only be constructed
// with the supplied factory methods:
//   - BuildEncodedEvent
//   - EncodeEvent
type EncodedEvent struct {
	EventType   string
	TimestampUs int64
	IsConfig    bool
	PayloadJSON []byte
}

// BuildEncodedEvent is a factory method for EncodedEvent.
//
// It populates the EncodedEvent with the given scalar input.
// Returns an error if payloadJSON is not valid JSON.
func BuildEncodedEvent(eventType string, timestampUs int64, isConfig bool, payloadJSON []byte) (EncodedEvent, error) {
	if !jsoniter.ConfigFastest.Valid(payloadJSON) {
		return EncodedEvent{}, ErrInvalidPayloadJSON
	}

	return EncodedEvent{
		EventType:   eventType,
		TimestampUs: timestampUs,
		IsConfig:    isConfig,
		PayloadJSON: payloadJSON,
	}, nil
}

// EncodeEvent serializes an event into its EncodedEvent form through the
// polymorphic Event contract. It never inspects concrete kinds.
func EncodeEvent(event events.Event) (EncodedEvent, error) {
	payloadJSON, err := event.PayloadToJSON()
	if err != nil {
		return EncodedEvent{}, errors.Join(ErrEncodingEventFailed, err)
	}

	return BuildEncodedEvent(event.GetType().String(), event.GetTimestampUs(), event.IsConfigEvent(), payloadJSON)
}

// DecodeEvent reconstructs the typed event from its encoded form. It is
// the read-path counterpart of EncodeEvent.
func DecodeEvent(encoded EncodedEvent) (events.Event, error) {
	eventType, err := events.EventTypeFromString(encoded.EventType)
	if err != nil {
		return nil, err
	}

	return events.EventFromJSON(eventType, encoded.TimestampUs, encoded.PayloadJSON)
}
