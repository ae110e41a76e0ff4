// Package events defines the typed event taxonomy of the RTC diagnostics log.
//
// Every record in the log implements the Event interface: a fixed type
// discriminant, a config-vs-runtime classification, a capture timestamp in
// monotonic microseconds, and a deep-copying Copy operation. Events are
// immutable once constructed and are handed to the logging pipeline by
// ownership transfer - a producer must not touch an event after passing it
// to the log.
//
// Configuration-kind events own a StreamConfig snapshot describing the full
// setup of one media stream at the moment of capture. Runtime-kind events
// describe a single occurrence, such as an incoming RTCP packet.
//
// New event kinds are added by introducing a new type that implements Event,
// a Build factory, and a case in EventFromJSON. No other code needs to
// change.
package events
