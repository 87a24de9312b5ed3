package ticketing

import "sync/atomic"

// IDGenerator issues unique ids. The service takes its event and hold
// generators as constructor arguments instead of hiding static counters, so
// tests can pin the sequences they expect.
type IDGenerator interface {
	Next() int
}

type sequence struct {
	next int64
}

// NewSequence returns a concurrency-safe generator counting up from start.
func NewSequence(start int) IDGenerator {
	return &sequence{next: int64(start)}
}

func (s *sequence) Next() int {
	return int(atomic.AddInt64(&s.next, 1) - 1)
}
