package ticketing

import (
	"fmt"
	"sort"
	"time"
)

// Event is one immutable snapshot of a venue event's seat inventory. A state
// change never mutates a snapshot; it builds a successor via Transition and
// the store installs it as current. Readers holding an old snapshot keep
// seeing a complete, consistent seat map.
type Event struct {
	ID             int
	Name           string
	StartTime      time.Time
	Duration       time.Duration
	HoldExpiration time.Duration
	CreatedAt      time.Time

	seats map[SeatID]Seat
	// best holds the Available seats in ascending SeatID order, so the
	// best-seat query is a filtered prefix walk instead of a full map scan.
	best       []Seat
	bestLevel  int
	worstLevel int
}

// NewEvent materializes a fresh event: every (level, row, seat) triple from
// the supplied levels becomes an Available seat. Levels must be listed best
// to worst, which NewEvent checks as strictly ascending level IDs.
func NewEvent(id int, name string, startTime time.Time, duration time.Duration, levels []SeatLevel, holdExpiration time.Duration) (*Event, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: event name is required", ErrInvalidArgument)
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: at least one seat level is required", ErrInvalidArgument)
	}
	if holdExpiration <= 0 {
		return nil, fmt.Errorf("%w: hold expiration must be positive, got %s", ErrInvalidArgument, holdExpiration)
	}

	e := &Event{
		ID:             id,
		Name:           name,
		StartTime:      startTime,
		Duration:       duration,
		HoldExpiration: holdExpiration,
		CreatedAt:      time.Now(),
		seats:          make(map[SeatID]Seat),
	}

	prevLevel := 0
	for _, level := range levels {
		if level.ID <= prevLevel {
			return nil, fmt.Errorf("%w: seat levels must be ordered best to worst with ascending ids, got %d after %d", ErrInvalidArgument, level.ID, prevLevel)
		}
		if level.Rows < 1 || level.SeatsPerRow < 1 {
			return nil, fmt.Errorf("%w: level %q needs at least one row and one seat per row", ErrInvalidArgument, level.Name)
		}
		prevLevel = level.ID

		for row := 1; row <= level.Rows; row++ {
			for num := 1; num <= level.SeatsPerRow; num++ {
				seat := Seat{ID: SeatID{Level: level.ID, Row: row, Seat: num}, State: SeatAvailable}
				e.seats[seat.ID] = seat
				// ascending level/row/seat iteration keeps best sorted
				e.best = append(e.best, seat)
			}
		}
	}

	e.bestLevel = levels[0].ID
	e.worstLevel = levels[len(levels)-1].ID
	return e, nil
}

// Transition builds the successor snapshot. Each bucket maps a target state
// to the seats moving into it; every listed seat must still be in the state
// the caller captured it in, otherwise the caller raced another writer and
// gets ErrStateConflict. A seat listed in more than one bucket of the same
// call is rejected outright rather than resolved by map iteration order.
func (e *Event) Transition(updates map[SeatState][]Seat) (*Event, error) {
	next := &Event{
		ID:             e.ID,
		Name:           e.Name,
		StartTime:      e.StartTime,
		Duration:       e.Duration,
		HoldExpiration: e.HoldExpiration,
		CreatedAt:      time.Now(),
		seats:          make(map[SeatID]Seat, len(e.seats)),
	}

	seen := make(map[SeatID]struct{})
	for newState, seats := range updates {
		if !newState.IsValid() {
			return nil, fmt.Errorf("%w: unknown seat state %q", ErrInvalidArgument, newState)
		}
		for _, update := range seats {
			if _, dup := seen[update.ID]; dup {
				return nil, fmt.Errorf("%w: seat %s appears in more than one transition bucket", ErrInvalidArgument, update.ID)
			}
			seen[update.ID] = struct{}{}

			current, ok := e.seats[update.ID]
			if !ok {
				return nil, fmt.Errorf("%w: seat %s does not exist in event %d", ErrInvalidArgument, update.ID, e.ID)
			}
			if current.State != update.State {
				return nil, fmt.Errorf("%w: seat %s is %s, caller expected %s", ErrStateConflict, update.ID, current.State, update.State)
			}
			next.seats[update.ID] = update.WithState(newState)
		}
	}

	// carry over everything not transitioned; seats are immutable values so
	// sharing them across snapshots is safe
	bestLevel, worstLevel := 0, 0
	for id, seat := range e.seats {
		if _, updated := seen[id]; !updated {
			next.seats[id] = seat
		}
		if bestLevel == 0 || id.Level < bestLevel {
			bestLevel = id.Level
		}
		if id.Level > worstLevel {
			worstLevel = id.Level
		}
	}
	next.bestLevel = bestLevel
	next.worstLevel = worstLevel

	next.best = make([]Seat, 0, len(e.best))
	for _, seat := range next.seats {
		if seat.Available() {
			next.best = append(next.best, seat)
		}
	}
	sort.Slice(next.best, func(i, j int) bool {
		return next.best[i].ID.Less(next.best[j].ID)
	})
	return next, nil
}

// BestAvailableSeats returns up to count Available seats in best-first order,
// restricted to levels in [minLevel, maxLevel]. Zero for either bound means
// "no bound on that side". A short result is not an error; the caller decides
// whether a shortfall is fatal.
func (e *Event) BestAvailableSeats(minLevel, maxLevel, count int) []Seat {
	if count < 1 {
		return nil
	}
	if minLevel == 0 {
		minLevel = e.bestLevel
	}
	if maxLevel == 0 {
		maxLevel = e.worstLevel
	}

	matched := make([]Seat, 0, count)
	for _, seat := range e.best {
		if seat.ID.Level < minLevel || seat.ID.Level > maxLevel {
			continue
		}
		matched = append(matched, seat)
		if len(matched) == count {
			break
		}
	}
	return matched
}

// AvailableSeatCount counts Available seats, in one level or overall when
// levelID is zero.
func (e *Event) AvailableSeatCount(levelID int) int {
	return e.countSeats(levelID, func(s Seat) bool { return s.Available() })
}

// TotalSeatCount counts every seat regardless of state. Constant across the
// lifetime of the event id.
func (e *Event) TotalSeatCount(levelID int) int {
	return e.countSeats(levelID, func(s Seat) bool { return true })
}

// StateCounts tallies seats per state, in one level or overall when levelID
// is zero.
func (e *Event) StateCounts(levelID int) map[SeatState]int {
	counts := make(map[SeatState]int, 3)
	for id, seat := range e.seats {
		if levelID != 0 && id.Level != levelID {
			continue
		}
		counts[seat.State]++
	}
	return counts
}

func (e *Event) countSeats(levelID int, match func(Seat) bool) int {
	n := 0
	for id, seat := range e.seats {
		if levelID != 0 && id.Level != levelID {
			continue
		}
		if match(seat) {
			n++
		}
	}
	return n
}

// Seat reports the current state of one seat.
func (e *Event) Seat(id SeatID) (Seat, bool) {
	seat, ok := e.seats[id]
	return seat, ok
}

func (e *Event) BestLevel() int {
	return e.bestLevel
}

func (e *Event) WorstLevel() int {
	return e.worstLevel
}

func (e *Event) String() string {
	return fmt.Sprintf("Event[id=%d name=%q seats=%d available=%d]", e.ID, e.Name, len(e.seats), len(e.best))
}
