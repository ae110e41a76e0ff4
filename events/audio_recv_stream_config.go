package events

import (
	jsoniter "github.com/json-iterator/go"
)

// AudioRecvStreamConfig is the configuration event for one audio receive
// stream.
type AudioRecvStreamConfig struct {
	timestampUs int64
	config      *StreamConfig
}

// BuildAudioRecvStreamConfig wraps a snapshot into an audio receive config
// event. A nil snapshot is rejected.
func BuildAudioRecvStreamConfig(config *StreamConfig, timestampUs int64) (*AudioRecvStreamConfig, error) {
	if config == nil {
		return nil, ErrNilStreamConfig
	}

	return &AudioRecvStreamConfig{
		timestampUs: timestampUs,
		config:      config,
	}, nil
}

func (e *AudioRecvStreamConfig) GetType() EventType {
	return EventTypeAudioRecvStreamConfig
}

func (e *AudioRecvStreamConfig) IsConfigEvent() bool {
	return true
}

func (e *AudioRecvStreamConfig) GetTimestampUs() int64 {
	return e.timestampUs
}

// Config returns the owned snapshot for serialization, read-only.
func (e *AudioRecvStreamConfig) Config() *StreamConfig {
	return e.config
}

func (e *AudioRecvStreamConfig) Copy() Event {
	return &AudioRecvStreamConfig{
		timestampUs: e.timestampUs,
		config:      e.config.Clone(),
	}
}

func (e *AudioRecvStreamConfig) PayloadToJSON() ([]byte, error) {
	return jsoniter.ConfigFastest.Marshal(e.config)
}
