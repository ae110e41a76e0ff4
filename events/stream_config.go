package events

// Codec describes one negotiated codec of a stream, including the payload
// type of its RTX stream if retransmission is configured.
type Codec struct {
	PayloadName    string `json:"payload_name"`
	PayloadType    int    `json:"payload_type"`
	RtxPayloadType int    `json:"rtx_payload_type"`
}

// RtpExtension describes one negotiated RTP header extension.
type RtpExtension struct {
	URI string `json:"uri"`
	ID  int    `json:"id"`
}

// StreamConfig is a value snapshot of the configuration of one media stream
// at the moment of capture.
//
// A StreamConfig is immutable by convention once it has been handed to an
// event: a change in live configuration produces a new snapshot and a new
// event, never an in-place edit of a logged one.
type StreamConfig struct {
	LocalSSRC     uint32         `json:"local_ssrc"`
	RemoteSSRC    uint32         `json:"remote_ssrc"`
	RtxSSRC       uint32         `json:"rtx_ssrc"`
	RSID          string         `json:"rsid"`
	Remb          bool           `json:"remb"`
	RtpExtensions []RtpExtension `json:"rtp_extensions"`
	Codecs        []Codec        `json:"codecs"`
}

// Clone returns a deep copy of the snapshot. The codec and extension
// sequences are duplicated element by element so the copy shares no state
// with the original. It is invoked only from the Copy path of events, never
// by producers.
func (c *StreamConfig) Clone() *StreamConfig {
	clone := *c

	if c.RtpExtensions != nil {
		clone.RtpExtensions = make([]RtpExtension, len(c.RtpExtensions))
		copy(clone.RtpExtensions, c.RtpExtensions)
	}

	if c.Codecs != nil {
		clone.Codecs = make([]Codec, len(c.Codecs))
		copy(clone.Codecs, c.Codecs)
	}

	return &clone
}
