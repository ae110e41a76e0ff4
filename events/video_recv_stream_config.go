package events

import (
	jsoniter "github.com/json-iterator/go"
)

// VideoRecvStreamConfig is the configuration event for one video receive
// stream.
type VideoRecvStreamConfig struct {
	timestampUs int64
	config      *StreamConfig
}

// BuildVideoRecvStreamConfig wraps a snapshot into a video receive config
// event. A nil snapshot is rejected.
func BuildVideoRecvStreamConfig(config *StreamConfig, timestampUs int64) (*VideoRecvStreamConfig, error) {
	if config == nil {
		return nil, ErrNilStreamConfig
	}

	return &VideoRecvStreamConfig{
		timestampUs: timestampUs,
		config:      config,
	}, nil
}

func (e *VideoRecvStreamConfig) GetType() EventType {
	return EventTypeVideoRecvStreamConfig
}

func (e *VideoRecvStreamConfig) IsConfigEvent() bool {
	return true
}

func (e *VideoRecvStreamConfig) GetTimestampUs() int64 {
	return e.timestampUs
}

// Config returns the owned snapshot for serialization, read-only.
func (e *VideoRecvStreamConfig) Config() *StreamConfig {
	return e.config
}

func (e *VideoRecvStreamConfig) Copy() Event {
	return &VideoRecvStreamConfig{
		timestampUs: e.timestampUs,
		config:      e.config.Clone(),
	}
}

func (e *VideoRecvStreamConfig) PayloadToJSON() ([]byte, error) {
	return jsoniter.ConfigFastest.Marshal(e.config)
}
