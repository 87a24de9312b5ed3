package ticketing

import (
	"errors"
	"testing"
	"time"
)

func sid(level, row, seat int) SeatID {
	return SeatID{Level: level, Row: row, Seat: seat}
}

func newTestEvent(t *testing.T, levels []SeatLevel) *Event {
	t.Helper()
	event, err := NewEvent(1, "concert", time.Now().Add(24*time.Hour), 2*time.Hour, levels, 10*time.Second)
	if err != nil {
		t.Fatalf("NewEvent: %v", err)
	}
	return event
}

func twoByTwo(t *testing.T) *Event {
	return newTestEvent(t, []SeatLevel{
		{ID: 1, Name: "Orchestra", Price: 100, Rows: 2, SeatsPerRow: 2},
	})
}

func TestNewEvent_MaterializesAllSeats(t *testing.T) {
	event := newTestEvent(t, []SeatLevel{
		{ID: 1, Name: "Orchestra", Price: 100, Rows: 2, SeatsPerRow: 3},
		{ID: 2, Name: "Balcony", Price: 50, Rows: 4, SeatsPerRow: 5},
	})

	if got := event.TotalSeatCount(0); got != 26 {
		t.Fatalf("total seats = %d, want 26", got)
	}
	if got := event.AvailableSeatCount(0); got != 26 {
		t.Fatalf("available seats = %d, want 26", got)
	}
	if got := event.TotalSeatCount(1); got != 6 {
		t.Fatalf("level 1 seats = %d, want 6", got)
	}
	if got := event.TotalSeatCount(2); got != 20 {
		t.Fatalf("level 2 seats = %d, want 20", got)
	}
	if event.BestLevel() != 1 || event.WorstLevel() != 2 {
		t.Fatalf("level bounds = [%d, %d], want [1, 2]", event.BestLevel(), event.WorstLevel())
	}

	seat, ok := event.Seat(sid(2, 4, 5))
	if !ok {
		t.Fatal("expected seat L2-R4-S5 to exist")
	}
	if !seat.Available() {
		t.Fatalf("fresh seat state = %s, want %s", seat.State, SeatAvailable)
	}
}

func TestNewEvent_Validation(t *testing.T) {
	start := time.Now()
	level := SeatLevel{ID: 1, Name: "Main", Price: 10, Rows: 1, SeatsPerRow: 1}

	tests := []struct {
		name  string
		build func() (*Event, error)
	}{
		{"empty name", func() (*Event, error) {
			return NewEvent(1, "", start, time.Hour, []SeatLevel{level}, time.Second)
		}},
		{"no levels", func() (*Event, error) {
			return NewEvent(1, "x", start, time.Hour, nil, time.Second)
		}},
		{"zero hold expiration", func() (*Event, error) {
			return NewEvent(1, "x", start, time.Hour, []SeatLevel{level}, 0)
		}},
		{"zero rows", func() (*Event, error) {
			bad := level
			bad.Rows = 0
			return NewEvent(1, "x", start, time.Hour, []SeatLevel{bad}, time.Second)
		}},
		{"descending level ids", func() (*Event, error) {
			return NewEvent(1, "x", start, time.Hour, []SeatLevel{
				{ID: 2, Name: "a", Price: 1, Rows: 1, SeatsPerRow: 1},
				{ID: 1, Name: "b", Price: 1, Rows: 1, SeatsPerRow: 1},
			}, time.Second)
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.build(); !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestBestAvailableSeats_Ordering(t *testing.T) {
	event := newTestEvent(t, []SeatLevel{
		{ID: 1, Name: "Orchestra", Price: 100, Rows: 2, SeatsPerRow: 2},
		{ID: 2, Name: "Balcony", Price: 50, Rows: 1, SeatsPerRow: 2},
	})

	got := event.BestAvailableSeats(0, 0, 3)
	want := []SeatID{sid(1, 1, 1), sid(1, 1, 2), sid(1, 2, 1)}
	if len(got) != len(want) {
		t.Fatalf("got %d seats, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("seat[%d] = %s, want %s", i, got[i].ID, want[i])
		}
	}
}

func TestBestAvailableSeats_LevelRange(t *testing.T) {
	event := newTestEvent(t, []SeatLevel{
		{ID: 1, Name: "Orchestra", Price: 100, Rows: 1, SeatsPerRow: 2},
		{ID: 2, Name: "Mezzanine", Price: 70, Rows: 1, SeatsPerRow: 2},
		{ID: 3, Name: "Balcony", Price: 50, Rows: 1, SeatsPerRow: 2},
	})

	got := event.BestAvailableSeats(2, 2, 10)
	if len(got) != 2 {
		t.Fatalf("got %d seats, want 2", len(got))
	}
	for _, seat := range got {
		if seat.ID.Level != 2 {
			t.Fatalf("seat %s outside level range [2, 2]", seat.ID)
		}
	}
}

func TestBestAvailableSeats_ShortfallIsNotAnError(t *testing.T) {
	event := twoByTwo(t)
	got := event.BestAvailableSeats(0, 0, 99)
	if len(got) != 4 {
		t.Fatalf("got %d seats, want all 4", len(got))
	}
}

func TestTransition_MovesSeatsAndRebuildsIndex(t *testing.T) {
	event := twoByTwo(t)
	held := event.BestAvailableSeats(0, 0, 2)

	next, err := event.Transition(map[SeatState][]Seat{SeatOnHold: held})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}

	if got := next.AvailableSeatCount(0); got != 2 {
		t.Fatalf("available after hold = %d, want 2", got)
	}
	if got := next.TotalSeatCount(0); got != 4 {
		t.Fatalf("total after hold = %d, want 4", got)
	}
	for _, seat := range held {
		current, _ := next.Seat(seat.ID)
		if current.State != SeatOnHold {
			t.Fatalf("seat %s state = %s, want %s", seat.ID, current.State, SeatOnHold)
		}
	}

	// prior snapshot is untouched
	if got := event.AvailableSeatCount(0); got != 4 {
		t.Fatalf("prior snapshot available = %d, want 4", got)
	}

	// the index skips held seats
	best := next.BestAvailableSeats(0, 0, 4)
	if len(best) != 2 {
		t.Fatalf("best available after hold = %d seats, want 2", len(best))
	}
	if best[0].ID != sid(1, 2, 1) || best[1].ID != sid(1, 2, 2) {
		t.Fatalf("best after hold = %s, %s; want L1-R2-S1, L1-R2-S2", best[0].ID, best[1].ID)
	}
}

func TestTransition_StaleStateIsConflict(t *testing.T) {
	event := twoByTwo(t)
	held := event.BestAvailableSeats(0, 0, 2)

	next, err := event.Transition(map[SeatState][]Seat{SeatOnHold: held})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}

	// replay the same transition against the new snapshot: the seats are no
	// longer Available, which is exactly the stale-read signal
	if _, err := next.Transition(map[SeatState][]Seat{SeatOnHold: held}); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("err = %v, want ErrStateConflict", err)
	}
}

func TestTransition_OverlappingBucketsRejected(t *testing.T) {
	event := twoByTwo(t)
	seat, _ := event.Seat(sid(1, 1, 1))

	_, err := event.Transition(map[SeatState][]Seat{
		SeatOnHold: {seat},
		SeatBooked: {seat},
	})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestTransition_UnknownSeatRejected(t *testing.T) {
	event := twoByTwo(t)
	ghost := Seat{ID: sid(9, 9, 9), State: SeatAvailable}

	if _, err := event.Transition(map[SeatState][]Seat{SeatOnHold: {ghost}}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestConservation_AcrossTransitions(t *testing.T) {
	event := newTestEvent(t, []SeatLevel{
		{ID: 1, Name: "Orchestra", Price: 100, Rows: 3, SeatsPerRow: 4},
	})
	total := event.TotalSeatCount(0)

	held := event.BestAvailableSeats(0, 0, 5)
	afterHold, err := event.Transition(map[SeatState][]Seat{SeatOnHold: held})
	if err != nil {
		t.Fatalf("hold transition: %v", err)
	}

	booked := heldSeats([]SeatID{held[0].ID, held[1].ID})
	afterBook, err := afterHold.Transition(map[SeatState][]Seat{SeatBooked: booked})
	if err != nil {
		t.Fatalf("book transition: %v", err)
	}

	for _, snapshot := range []*Event{event, afterHold, afterBook} {
		counts := snapshot.StateCounts(0)
		sum := counts[SeatAvailable] + counts[SeatOnHold] + counts[SeatBooked]
		if sum != total {
			t.Fatalf("conservation violated: %d+%d+%d != %d",
				counts[SeatAvailable], counts[SeatOnHold], counts[SeatBooked], total)
		}
		if snapshot.TotalSeatCount(0) != total {
			t.Fatalf("seat map size changed: %d != %d", snapshot.TotalSeatCount(0), total)
		}
	}

	counts := afterBook.StateCounts(0)
	if counts[SeatAvailable] != 7 || counts[SeatOnHold] != 3 || counts[SeatBooked] != 2 {
		t.Fatalf("counts = %v, want 7 available / 3 on hold / 2 booked", counts)
	}
}

func TestSeatIDOrdering(t *testing.T) {
	tests := []struct {
		a, b SeatID
		less bool
	}{
		{sid(1, 1, 1), sid(1, 1, 2), true},
		{sid(1, 2, 1), sid(1, 1, 9), false},
		{sid(1, 9, 9), sid(2, 1, 1), true},
		{sid(2, 1, 1), sid(1, 9, 9), false},
		{sid(1, 1, 1), sid(1, 1, 1), false},
	}
	for _, tc := range tests {
		if got := tc.a.Less(tc.b); got != tc.less {
			t.Fatalf("%s < %s = %v, want %v", tc.a, tc.b, got, tc.less)
		}
	}
}
