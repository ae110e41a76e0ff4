package events

import (
	jsoniter "github.com/json-iterator/go"
)

// AudioSendStreamConfig is the configuration event for one audio send
// stream. It takes exclusive ownership of the StreamConfig snapshot passed
// to its factory; the producer must not retain or mutate the snapshot
// afterward.
type AudioSendStreamConfig struct {
	timestampUs int64
	config      *StreamConfig
}

// BuildAudioSendStreamConfig wraps a snapshot into an audio send config
// event captured at the given monotonic timestamp. A nil snapshot is a
// contract violation by the producer and is rejected.
func BuildAudioSendStreamConfig(config *StreamConfig, timestampUs int64) (*AudioSendStreamConfig, error) {
	if config == nil {
		return nil, ErrNilStreamConfig
	}

	return &AudioSendStreamConfig{
		timestampUs: timestampUs,
		config:      config,
	}, nil
}

// GetType returns the fixed discriminant for this event kind.
func (e *AudioSendStreamConfig) GetType() EventType {
	return EventTypeAudioSendStreamConfig
}

// IsConfigEvent always reports true for this kind.
func (e *AudioSendStreamConfig) IsConfigEvent() bool {
	return true
}

// GetTimestampUs returns the capture timestamp in monotonic microseconds.
func (e *AudioSendStreamConfig) GetTimestampUs() int64 {
	return e.timestampUs
}

// Config returns the owned snapshot for serialization. Callers must treat
// it as read-only.
func (e *AudioSendStreamConfig) Config() *StreamConfig {
	return e.config
}

// Copy returns an independently owned clone built from a deep copy of the
// snapshot, preserving the original capture timestamp.
func (e *AudioSendStreamConfig) Copy() Event {
	return &AudioSendStreamConfig{
		timestampUs: e.timestampUs,
		config:      e.config.Clone(),
	}
}

// PayloadToJSON serializes the owned snapshot.
func (e *AudioSendStreamConfig) PayloadToJSON() ([]byte, error) {
	return jsoniter.ConfigFastest.Marshal(e.config)
}
