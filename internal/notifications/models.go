package notifications

import (
	"time"

	"github.com/google/uuid"
)

// LifecycleType identifies which booking transition a message describes.
type LifecycleType string

const (
	HoldCreated        LifecycleType = "HOLD_CREATED"
	HoldExpired        LifecycleType = "HOLD_EXPIRED"
	ReservationCreated LifecycleType = "RESERVATION_CREATED"
)

// LifecycleEvent is the message published for every hold/reservation
// transition. Downstream consumers (confirmation email, analytics) key off
// Type; EventID is the partition key so one event's messages stay ordered.
type LifecycleEvent struct {
	ID            uuid.UUID     `json:"id"`
	Type          LifecycleType `json:"type"`
	EventID       int           `json:"event_id"`
	HoldID        int           `json:"hold_id"`
	ReservationID string        `json:"reservation_id,omitempty"`
	Email         string        `json:"email"`
	SeatCount     int           `json:"seat_count"`
	OccurredAt    time.Time     `json:"occurred_at"`
}
