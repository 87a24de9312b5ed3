package ticketing

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestScheduler(t *testing.T, workers int) *Scheduler {
	t.Helper()
	s, err := NewScheduler(workers)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	t.Cleanup(s.Stop)
	return s
}

func TestNewScheduler_RejectsEmptyPool(t *testing.T) {
	if _, err := NewScheduler(0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestScheduler_RunsCallback(t *testing.T) {
	s := newTestScheduler(t, 2)

	done := make(chan struct{})
	s.Schedule(10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("callback never ran")
	}
}

func TestScheduler_CancelBeforeFire(t *testing.T) {
	s := newTestScheduler(t, 2)

	var ran atomic.Bool
	task := s.Schedule(time.Hour, func() { ran.Store(true) })

	if !task.Cancel() {
		t.Fatal("Cancel before fire = false, want true")
	}
	// cancelled means never: a second Cancel is also a no-op false
	if task.Cancel() {
		t.Fatal("second Cancel = true, want false")
	}
	time.Sleep(50 * time.Millisecond)
	if ran.Load() {
		t.Fatal("cancelled callback ran")
	}
}

func TestScheduler_CancelAfterRunReportsFalse(t *testing.T) {
	s := newTestScheduler(t, 2)

	done := make(chan struct{})
	task := s.Schedule(5*time.Millisecond, func() { close(done) })

	<-done
	if task.Cancel() {
		t.Fatal("Cancel after completion = true, want false")
	}
}

// The contract the reserve/expire race rests on: whichever of Cancel and the
// callback wins, never both. Either Cancel reports true and the callback
// never runs, or Cancel reports false and the callback runs exactly once.
func TestScheduler_CancelRace(t *testing.T) {
	s := newTestScheduler(t, 4)

	const rounds = 200
	for i := 0; i < rounds; i++ {
		var ran atomic.Int32
		executed := make(chan struct{})
		task := s.Schedule(time.Millisecond, func() {
			ran.Add(1)
			close(executed)
		})

		time.Sleep(time.Millisecond) // land Cancel right around the deadline
		cancelled := task.Cancel()

		if cancelled {
			time.Sleep(5 * time.Millisecond)
			if ran.Load() != 0 {
				t.Fatalf("round %d: Cancel succeeded but callback ran", i)
			}
		} else {
			select {
			case <-executed:
			case <-time.After(2 * time.Second):
				t.Fatalf("round %d: Cancel failed but callback never ran", i)
			}
			if got := ran.Load(); got != 1 {
				t.Fatalf("round %d: callback ran %d times, want 1", i, got)
			}
		}
	}
}

func TestScheduler_BoundedPoolRunsAllTasks(t *testing.T) {
	s := newTestScheduler(t, 2)

	const tasks = 20
	var wg sync.WaitGroup
	wg.Add(tasks)
	var ran atomic.Int32
	for i := 0; i < tasks; i++ {
		s.Schedule(time.Millisecond, func() {
			ran.Add(1)
			wg.Done()
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("only %d of %d tasks ran", ran.Load(), tasks)
	}
}

func TestScheduler_StopIsIdempotentAndStopsExecution(t *testing.T) {
	s, err := NewScheduler(1)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	s.Stop()
	s.Stop()
	if !s.Stopped() {
		t.Fatal("Stopped = false after Stop")
	}

	var ran atomic.Bool
	s.Schedule(time.Millisecond, func() { ran.Store(true) })
	time.Sleep(50 * time.Millisecond)
	if ran.Load() {
		t.Fatal("task scheduled after Stop ran")
	}
}
