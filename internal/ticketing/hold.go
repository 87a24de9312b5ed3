package ticketing

import (
	"time"

	"github.com/google/uuid"
)

// SeatHold is a temporary claim on a block of seats, alive until it is
// reserved or its expiration reclaims the seats. It is a fact record, not a
// versioned object.
type SeatHold struct {
	ID        int       `json:"id"`
	EventID   int       `json:"event_id"`
	Email     string    `json:"email"`
	SeatIDs   []SeatID  `json:"seat_ids"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SeatReservation is the permanent record of a confirmed booking. Created
// exactly once per successful reservation.
type SeatReservation struct {
	ID        uuid.UUID `json:"id"`
	EventID   int       `json:"event_id"`
	Email     string    `json:"email"`
	SeatIDs   []SeatID  `json:"seat_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// scheduledHold pairs a live hold with the expiration task that will reclaim
// it. Registry entries are removed when the hold resolves either way.
type scheduledHold struct {
	hold *SeatHold
	task *ScheduledTask
}

// heldSeats rebuilds the Seat values a hold placed OnHold, in the shape
// Transition expects as its precondition.
func heldSeats(ids []SeatID) []Seat {
	seats := make([]Seat, len(ids))
	for i, id := range ids {
		seats[i] = Seat{ID: id, State: SeatOnHold}
	}
	return seats
}
