package events

import (
	jsoniter "github.com/json-iterator/go"
)

// VideoSendStreamConfig is the configuration event for one video send
// stream.
type VideoSendStreamConfig struct {
	timestampUs int64
	config      *StreamConfig
}

// BuildVideoSendStreamConfig wraps a snapshot into a video send config
// event. A nil snapshot is rejected.
func BuildVideoSendStreamConfig(config *StreamConfig, timestampUs int64) (*VideoSendStreamConfig, error) {
	if config == nil {
		return nil, ErrNilStreamConfig
	}

	return &VideoSendStreamConfig{
		timestampUs: timestampUs,
		config:      config,
	}, nil
}

func (e *VideoSendStreamConfig) GetType() EventType {
	return EventTypeVideoSendStreamConfig
}

func (e *VideoSendStreamConfig) IsConfigEvent() bool {
	return true
}

func (e *VideoSendStreamConfig) GetTimestampUs() int64 {
	return e.timestampUs
}

// Config returns the owned snapshot for serialization, read-only.
func (e *VideoSendStreamConfig) Config() *StreamConfig {
	return e.config
}

func (e *VideoSendStreamConfig) Copy() Event {
	return &VideoSendStreamConfig{
		timestampUs: e.timestampUs,
		config:      e.config.Clone(),
	}
}

func (e *VideoSendStreamConfig) PayloadToJSON() ([]byte, error) {
	return jsoniter.ConfigFastest.Marshal(e.config)
}
