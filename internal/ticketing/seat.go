package ticketing

import "fmt"

// SeatState tracks where a seat is in the hold/booking lifecycle
type SeatState string

const (
	SeatAvailable SeatState = "AVAILABLE"
	SeatOnHold    SeatState = "ON_HOLD"
	SeatBooked    SeatState = "BOOKED"
)

func (s SeatState) IsValid() bool {
	switch s {
	case SeatAvailable, SeatOnHold, SeatBooked:
		return true
	}
	return false
}

func (s SeatState) String() string {
	return string(s)
}

// SeatID uniquely identifies a seat within an event. Its ordering doubles as
// the seat-quality ranking: lower level beats higher level, then lower row,
// then lower seat number. Center seats being better than aisle seats is real
// life but out of scope here.
type SeatID struct {
	Level int `json:"level"`
	Row   int `json:"row"`
	Seat  int `json:"seat"`
}

// Compare orders seat identifiers best-to-worst. Negative means id is the
// better seat.
func (id SeatID) Compare(other SeatID) int {
	if id.Level != other.Level {
		return id.Level - other.Level
	}
	if id.Row != other.Row {
		return id.Row - other.Row
	}
	return id.Seat - other.Seat
}

func (id SeatID) Less(other SeatID) bool {
	return id.Compare(other) < 0
}

func (id SeatID) String() string {
	return fmt.Sprintf("L%d-R%d-S%d", id.Level, id.Row, id.Seat)
}

// Seat pairs a seat identity with its current state. Seats are immutable
// values: a state change produces a new Seat. Two seats with the same ID are
// the same seat regardless of state.
type Seat struct {
	ID    SeatID    `json:"id"`
	State SeatState `json:"state"`
}

func (s Seat) Available() bool {
	return s.State == SeatAvailable
}

// WithState returns a copy of the seat in the given state.
func (s Seat) WithState(state SeatState) Seat {
	return Seat{ID: s.ID, State: state}
}
