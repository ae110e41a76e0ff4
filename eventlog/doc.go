// Package eventlog provides the asynchronous sink side of the RTC
// diagnostics log.
//
// Producers on real-time media threads hand events to Log by ownership
// transfer; Log never blocks them. A single dispatch goroutine owns all
// mutable state: it retains configuration events for the lifetime of the
// log, keeps a bounded ring of recent runtime events while no output is
// attached, and batches encoded events into an Output once logging has
// started. When an output is attached, the retained configuration history
// is replayed first (via Event.Copy, so the retained originals survive for
// later outputs), then the recent history, then the live stream.
//
// Key types:
//   - EncodedEvent: the scalar DTO handed to storage backends
//   - Filter: criteria for querying events back out of a backend
//   - Log: the non-blocking asynchronous collector
//   - Output: the contract a storage backend must satisfy
//
// Common usage pattern:
//
//	log, _ := eventlog.New(eventlog.WithLogger(logger))
//	defer log.Close()
//
//	_ = log.StartLogging(store.OutputForSession(sessionID))
//
//	event, _ := events.BuildAudioSendStreamConfig(config, events.NowUs())
//	log.Log(event)
package eventlog
