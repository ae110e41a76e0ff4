package eventlog

import (
	"slices"

	"github.com/rtcdiag/eventlog-go/events"
)

/***** Filter *****/

// Filter defines criteria for querying events back out of a storage
// backend: a set of event type names, an optional config-events-only
// restriction, and an optional capture-timestamp range in microseconds.
type Filter struct {
	eventTypes      []string
	configOnly      bool
	occurredFromUs  int64
	occurredUntilUs int64
}

func (f Filter) EventTypes() []string {
	return f.eventTypes
}

func (f Filter) ConfigOnly() bool {
	return f.configOnly
}

// OccurredFromUs returns the inclusive lower timestamp bound, 0 meaning unbounded.
func (f Filter) OccurredFromUs() int64 {
	return f.occurredFromUs
}

// OccurredUntilUs returns the inclusive upper timestamp bound, 0 meaning unbounded.
func (f Filter) OccurredUntilUs() int64 {
	return f.occurredUntilUs
}

/***** FilterBuilder *****/

// FilterBuilder builds a generic event filter to be used by storage-specific
// backends to build queries for their query language.
type FilterBuilder interface {
	// Matching starts building the filter criteria.
	Matching() FilterCriteriaBuilder

	// MatchingAnyEvent directly creates an empty Filter.
	MatchingAnyEvent() Filter
}

// FilterCriteriaBuilder collects criteria and must eventually be finalized
// with Finalize().
type FilterCriteriaBuilder interface {
	// AnyEventTypeOf restricts the filter to the given event kinds.
	//
	// It sanitizes the input:
	//   - removing unknown event types
	//   - sorting the type names
	//   - removing duplicates
	AnyEventTypeOf(eventType events.EventType, eventTypes ...events.EventType) FilterCriteriaBuilder

	// ConfigEventsOnly restricts the filter to configuration-kind events.
	ConfigEventsOnly() FilterCriteriaBuilder

	// OccurredFromUs sets the inclusive lower capture-timestamp bound.
	OccurredFromUs(timestampUs int64) FilterCriteriaBuilder

	// OccurredUntilUs sets the inclusive upper capture-timestamp bound.
	OccurredUntilUs(timestampUs int64) FilterCriteriaBuilder

	// Finalize returns the built Filter.
	Finalize() Filter
}

// filterBuilder implements all the interfaces of FilterBuilder.
type filterBuilder struct {
	filter Filter
}

// BuildEventFilter creates a FilterBuilder which must eventually be
// finalized with Finalize() or MatchingAnyEvent().
func BuildEventFilter() FilterBuilder {
	return filterBuilder{}
}

func (fb filterBuilder) Matching() FilterCriteriaBuilder {
	return fb
}

// MatchingAnyEvent directly creates an empty filter.
func (fb filterBuilder) MatchingAnyEvent() Filter {
	return fb.filter
}

func (fb filterBuilder) AnyEventTypeOf(
	eventType events.EventType,
	eventTypes ...events.EventType,
) FilterCriteriaBuilder {

	fb.filter.eventTypes = append(
		fb.filter.eventTypes,
		fb.sanitizeEventTypes(eventType, eventTypes...)...,
	)

	return fb
}

func (fb filterBuilder) sanitizeEventTypes(
	eventType events.EventType,
	eventTypes ...events.EventType,
) []string {

	allEventTypes := append([]events.EventType{eventType}, eventTypes...)

	names := make([]string, 0, len(allEventTypes))
	for _, et := range allEventTypes {
		if _, err := events.EventTypeFromString(et.String()); err != nil {
			continue
		}

		names = append(names, et.String())
	}

	slices.Sort(names)
	names = slices.Compact(names)
	names = slices.Clip(names)

	return names
}

func (fb filterBuilder) ConfigEventsOnly() FilterCriteriaBuilder {
	fb.filter.configOnly = true

	return fb
}

func (fb filterBuilder) OccurredFromUs(timestampUs int64) FilterCriteriaBuilder {
	fb.filter.occurredFromUs = timestampUs

	return fb
}

func (fb filterBuilder) OccurredUntilUs(timestampUs int64) FilterCriteriaBuilder {
	fb.filter.occurredUntilUs = timestampUs

	return fb
}

// Finalize returns the Filter with all collected criteria.
func (fb filterBuilder) Finalize() Filter {
	return fb.filter
}
