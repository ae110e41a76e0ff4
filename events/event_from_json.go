package events

import (
	"errors"

	jsoniter "github.com/json-iterator/go"
)

// ErrUnmarshallingEventFailed is returned when a stored payload cannot be
// decoded into its event kind.
var ErrUnmarshallingEventFailed = errors.New("unmarshalling event from json failed")

// EventFromJSON reconstructs an event from its stored type tag, capture
// timestamp, and serialized payload. It is the read-path counterpart of
// PayloadToJSON, used when querying events back out of the log.
func EventFromJSON(eventType EventType, timestampUs int64, payload []byte) (Event, error) {
	switch eventType {
	case EventTypeAudioSendStreamConfig:
		config, err := streamConfigFromJSON(payload)
		if err != nil {
			return nil, err
		}

		return BuildAudioSendStreamConfig(config, timestampUs)

	case EventTypeAudioRecvStreamConfig:
		config, err := streamConfigFromJSON(payload)
		if err != nil {
			return nil, err
		}

		return BuildAudioRecvStreamConfig(config, timestampUs)

	case EventTypeVideoSendStreamConfig:
		config, err := streamConfigFromJSON(payload)
		if err != nil {
			return nil, err
		}

		return BuildVideoSendStreamConfig(config, timestampUs)

	case EventTypeVideoRecvStreamConfig:
		config, err := streamConfigFromJSON(payload)
		if err != nil {
			return nil, err
		}

		return BuildVideoRecvStreamConfig(config, timestampUs)

	case EventTypeRtcpPacketIncoming:
		decoded := new(rtcpPacketPayload)
		if err := jsoniter.ConfigFastest.Unmarshal(payload, decoded); err != nil {
			return nil, errors.Join(ErrUnmarshallingEventFailed, err)
		}

		return BuildRtcpPacketIncoming(decoded.Packet, timestampUs)

	default:
		return nil, ErrUnknownEventType
	}
}

func streamConfigFromJSON(payload []byte) (*StreamConfig, error) {
	config := new(StreamConfig)
	if err := jsoniter.ConfigFastest.Unmarshal(payload, config); err != nil {
		return nil, errors.Join(ErrUnmarshallingEventFailed, err)
	}

	return config, nil
}
