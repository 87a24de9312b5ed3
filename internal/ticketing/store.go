package ticketing

import (
	"fmt"
	"sort"
	"sync"
)

// eventCell pairs one event's current snapshot with the lock that guards it.
// The lock lives with the cell, not the snapshot, so replacing the snapshot
// never replaces the lock writers are queued on.
type eventCell struct {
	mu       sync.RWMutex
	snapshot *Event
}

// EventStore owns the current-snapshot pointer for every event. Locking is
// per event: readers of one event never contend with writers of another.
type EventStore struct {
	mu    sync.RWMutex
	cells map[int]*eventCell
}

func NewEventStore() *EventStore {
	return &EventStore{cells: make(map[int]*eventCell)}
}

// Add registers a freshly created event and its lock.
func (s *EventStore) Add(event *Event) error {
	if event == nil {
		return fmt.Errorf("%w: nil event", ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.cells[event.ID]; exists {
		return fmt.Errorf("%w: event %d already registered", ErrInvalidArgument, event.ID)
	}
	s.cells[event.ID] = &eventCell{snapshot: event}
	return nil
}

// Get returns the current snapshot under the event's read lock. The returned
// snapshot is immutable and safe to use after the lock is released, but it
// may be superseded at any moment; anything acting on it must re-validate
// under Update.
func (s *EventStore) Get(eventID int) (*Event, error) {
	cell, err := s.cell(eventID)
	if err != nil {
		return nil, err
	}
	cell.mu.RLock()
	defer cell.mu.RUnlock()
	return cell.snapshot, nil
}

// First returns the snapshot of the venue's current event, resolved as the
// lowest registered event id so the answer is deterministic.
func (s *EventStore) First() (*Event, error) {
	s.mu.RLock()
	firstID := 0
	for id := range s.cells {
		if firstID == 0 || id < firstID {
			firstID = id
		}
	}
	s.mu.RUnlock()

	if firstID == 0 {
		return nil, fmt.Errorf("%w: no events registered", ErrNotFound)
	}
	return s.Get(firstID)
}

// Update runs fn under the event's write lock and installs its result as the
// current snapshot. fn receives the snapshot that is current at lock
// acquisition, which is how the read-then-revalidate upgrade protocol gets
// its mandatory recomputation: whatever a caller computed under a read lock
// is stale by definition once the write lock is held. Any side effects fn
// performs (hold registration, expiry scheduling) commit atomically with the
// snapshot swap. If fn errors, no snapshot is installed.
func (s *EventStore) Update(eventID int, fn func(current *Event) (*Event, error)) (*Event, error) {
	cell, err := s.cell(eventID)
	if err != nil {
		return nil, err
	}
	cell.mu.Lock()
	defer cell.mu.Unlock()

	next, err := fn(cell.snapshot)
	if err != nil {
		return nil, err
	}
	cell.snapshot = next
	return next, nil
}

// EventIDs lists the registered event ids in ascending order.
func (s *EventStore) EventIDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int, 0, len(s.cells))
	for id := range s.cells {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (s *EventStore) cell(eventID int) (*eventCell, error) {
	s.mu.RLock()
	cell, ok := s.cells[eventID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: event %d", ErrNotFound, eventID)
	}
	return cell, nil
}
