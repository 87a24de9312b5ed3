package cache

import (
	"fmt"
	"time"
)

// Cache keys and TTLs for the ticketing service.
// Pattern: boxoffice:{concern}:{identifier}:{params}

const keyPrefix = "boxoffice"

const (
	// TTLSeatAvailability keeps live seat counts very fresh; writes also
	// invalidate eagerly, the TTL is a backstop.
	TTLSeatAvailability = 30 * time.Second

	// TTLEventDetail covers the event summary, which changes on every hold,
	// reservation and reclaim.
	TTLEventDetail = 2 * time.Minute
)

// AvailabilityKey caches the available-seat count for one level of an event;
// levelID 0 is the all-levels count.
func AvailabilityKey(eventID, levelID int) string {
	return fmt.Sprintf("%s:availability:event:%d:level:%d", keyPrefix, eventID, levelID)
}

// AvailabilityPattern matches every availability key of an event, for
// invalidation after a seat-state transition.
func AvailabilityPattern(eventID int) string {
	return fmt.Sprintf("%s:availability:event:%d:*", keyPrefix, eventID)
}

// EventDetailKey caches the event summary response.
func EventDetailKey(eventID int) string {
	return fmt.Sprintf("%s:events:detail:%d", keyPrefix, eventID)
}
