package ticketing

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Task lifecycle. pending -> cancelled is the only transition Cancel may
// claim; pending -> fired -> running -> done is the execution path. The
// atomic word is the single source of truth for the reserve/expire race:
// there is no separate "already resolved" flag to drift out of sync.
const (
	taskPending int32 = iota
	taskFired
	taskRunning
	taskDone
	taskCancelled
)

// ScheduledTask is the cancellable handle for one scheduled callback.
type ScheduledTask struct {
	state atomic.Int32
	timer *time.Timer
	fn    func()
}

// Cancel reports true only when the callback can no longer begin executing.
// A false return is authoritative: the callback fired, is firing, or already
// finished, and the caller must treat the deadline as passed even if the
// callback's own work has not committed yet.
func (t *ScheduledTask) Cancel() bool {
	if t.state.CompareAndSwap(taskPending, taskCancelled) {
		t.timer.Stop()
		return true
	}
	return false
}

func (t *ScheduledTask) run() {
	if !t.state.CompareAndSwap(taskFired, taskRunning) {
		return
	}
	t.fn()
	t.state.Store(taskDone)
}

// Scheduler runs one-shot expiration callbacks on a bounded worker pool.
// Callbacks execute on the pool's goroutines, decoupled from whoever
// scheduled them, and must acquire whatever locks they need themselves. The
// scheduler never holds its own bookkeeping lock while waiting on a worker,
// so a callback blocked on an application lock cannot deadlock Schedule or
// Cancel.
type Scheduler struct {
	tasks chan *ScheduledTask
	done  chan struct{}
	wg    sync.WaitGroup

	mu      sync.Mutex
	stopped bool
}

// NewScheduler starts workers goroutines draining the expiration queue.
func NewScheduler(workers int) (*Scheduler, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: scheduler needs at least one worker, got %d", ErrInvalidArgument, workers)
	}
	s := &Scheduler{
		tasks: make(chan *ScheduledTask, 64),
		done:  make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	return s, nil
}

// Schedule arranges for fn to run once after delay, unless the returned task
// is cancelled first. Tasks scheduled after Stop never execute.
func (s *Scheduler) Schedule(delay time.Duration, fn func()) *ScheduledTask {
	t := &ScheduledTask{fn: fn}
	t.timer = time.AfterFunc(delay, func() {
		s.enqueue(t)
	})
	return t
}

// Stopped reports whether Stop has been called.
func (s *Scheduler) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Stop shuts the pool down and waits for in-flight callbacks to finish.
// Queued tasks that no worker picked up are dropped.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.done)
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) enqueue(t *ScheduledTask) {
	// losing this CAS means Cancel won; the callback must never run
	if !t.state.CompareAndSwap(taskPending, taskFired) {
		return
	}
	select {
	case s.tasks <- t:
	case <-s.done:
	}
}

func (s *Scheduler) worker() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case t := <-s.tasks:
			t.run()
		}
	}
}
