package ticketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"boxoffice/internal/notifications"
	"boxoffice/pkg/cache"
	"boxoffice/pkg/logger"

	"github.com/google/uuid"
)

// Service is the booking orchestrator: it coordinates the event store and the
// hold scheduler through the find -> hold -> reserve/expire state machine.
// A hold is Pending from the moment it is granted and resolves to exactly one
// of Reserved or Expired; which one wins is decided solely by whether the
// hold's expiration task could be cancelled.
type Service interface {
	SetCacheService(cacheService cache.Service)
	SetPublisher(publisher notifications.Publisher)

	CreateEvent(req CreateEventRequest) (*EventSummary, error)
	GetEvent(eventID int) (*EventSummary, error)
	NumSeatsAvailable(levelID int) (int, error)
	FindAndHoldSeats(count, minLevel, maxLevel int, email string) (*SeatHold, error)
	ReserveSeats(holdID int, email string) (string, error)
}

type service struct {
	store     *EventStore
	scheduler *Scheduler
	eventIDs  IDGenerator
	holdIDs   IDGenerator

	cacheService cache.Service
	publisher    notifications.Publisher
	log          *logger.Logger

	mu           sync.Mutex
	holds        map[int]*scheduledHold
	reservations map[uuid.UUID]*SeatReservation
	levels       map[int][]SeatLevel
}

// NewService wires the orchestrator. The scheduler must be live; a stopped
// scheduler would grant holds that can never expire.
func NewService(store *EventStore, scheduler *Scheduler, eventIDs, holdIDs IDGenerator) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: event store is required", ErrInvalidArgument)
	}
	if scheduler == nil || scheduler.Stopped() {
		return nil, fmt.Errorf("%w: a running hold scheduler is required", ErrInvalidArgument)
	}
	if eventIDs == nil || holdIDs == nil {
		return nil, fmt.Errorf("%w: id generators are required", ErrInvalidArgument)
	}
	return &service{
		store:        store,
		scheduler:    scheduler,
		eventIDs:     eventIDs,
		holdIDs:      holdIDs,
		publisher:    notifications.NewNoopPublisher(),
		log:          logger.GetDefault(),
		holds:        make(map[int]*scheduledHold),
		reservations: make(map[uuid.UUID]*SeatReservation),
		levels:       make(map[int][]SeatLevel),
	}, nil
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) SetPublisher(publisher notifications.Publisher) {
	if publisher != nil {
		s.publisher = publisher
	}
}

// CreateEvent materializes a new event from the request. Level ids are
// assigned 1..n in the order supplied, which is the best-to-worst order the
// seat ranking relies on.
func (s *service) CreateEvent(req CreateEventRequest) (*EventSummary, error) {
	levels := make([]SeatLevel, 0, len(req.Levels))
	for i, level := range req.Levels {
		levels = append(levels, SeatLevel{
			ID:          i + 1,
			Name:        level.Name,
			Price:       level.Price,
			Rows:        level.Rows,
			SeatsPerRow: level.SeatsPerRow,
		})
	}

	event, err := NewEvent(
		s.eventIDs.Next(),
		req.Name,
		req.StartTime,
		time.Duration(req.DurationMinutes)*time.Minute,
		levels,
		time.Duration(req.HoldExpirationSeconds)*time.Second,
	)
	if err != nil {
		return nil, err
	}
	if err := s.store.Add(event); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.levels[event.ID] = levels
	s.mu.Unlock()

	s.log.Info("event created",
		slog.Int("event_id", event.ID),
		slog.String("name", event.Name),
		slog.Int("total_seats", event.TotalSeatCount(0)),
		slog.Duration("hold_expiration", event.HoldExpiration),
	)
	return s.summarize(event), nil
}

func (s *service) GetEvent(eventID int) (*EventSummary, error) {
	if s.cacheService != nil {
		var summary EventSummary
		err := s.cached(cache.EventDetailKey(eventID), cache.TTLEventDetail, &summary, func() (interface{}, error) {
			event, err := s.store.Get(eventID)
			if err != nil {
				return nil, err
			}
			return s.summarize(event), nil
		})
		if err == nil {
			return &summary, nil
		}
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.log.Warn("event cache unavailable, serving from store", slog.Any("error", err))
	}

	event, err := s.store.Get(eventID)
	if err != nil {
		return nil, err
	}
	return s.summarize(event), nil
}

// NumSeatsAvailable reports Available seats on the venue's current event,
// for one level or overall when levelID is zero. Live seat counts use a very
// short cache TTL and are invalidated on every hold, reservation and reclaim.
func (s *service) NumSeatsAvailable(levelID int) (int, error) {
	event, err := s.store.First()
	if err != nil {
		return 0, err
	}
	if s.cacheService != nil {
		var count int
		err := s.cached(cache.AvailabilityKey(event.ID, levelID), cache.TTLSeatAvailability, &count, func() (interface{}, error) {
			return event.AvailableSeatCount(levelID), nil
		})
		if err == nil {
			return count, nil
		}
		s.log.Warn("availability cache unavailable, serving from snapshot", slog.Any("error", err))
	}
	return event.AvailableSeatCount(levelID), nil
}

// FindAndHoldSeats grants a time-limited hold on the best available block of
// seats in the requested level range on the venue's current event.
//
// The probe under the read lock is only a cheap rejection; the decision is
// remade from scratch against whatever snapshot is current once the write
// lock is held. Skipping that recomputation reintroduces the lost-update race
// this whole design exists to prevent.
func (s *service) FindAndHoldSeats(count, minLevel, maxLevel int, email string) (*SeatHold, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: seat count must be at least 1, got %d", ErrInvalidArgument, count)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: customer email is required", ErrInvalidArgument)
	}
	if minLevel < 0 || maxLevel < 0 || (minLevel != 0 && maxLevel != 0 && maxLevel < minLevel) {
		return nil, fmt.Errorf("%w: invalid level range [%d, %d]", ErrInvalidArgument, minLevel, maxLevel)
	}

	event, err := s.store.First()
	if err != nil {
		return nil, err
	}
	if found := event.BestAvailableSeats(minLevel, maxLevel, count); len(found) < count {
		return nil, fmt.Errorf("%w: %d seats requested in level range [%d, %d], %d available",
			ErrInsufficientSeats, count, minLevel, maxLevel, len(found))
	}

	var hold *SeatHold
	_, err = s.store.Update(event.ID, func(current *Event) (*Event, error) {
		// a competing hold may have landed between the read and the write
		// lock; recompute against the now-current snapshot
		found := current.BestAvailableSeats(minLevel, maxLevel, count)
		if len(found) < count {
			return nil, fmt.Errorf("%w: %d seats requested in level range [%d, %d], %d available",
				ErrInsufficientSeats, count, minLevel, maxLevel, len(found))
		}

		next, err := current.Transition(map[SeatState][]Seat{SeatOnHold: found})
		if err != nil {
			return nil, err
		}

		seatIDs := make([]SeatID, len(found))
		for i, seat := range found {
			seatIDs[i] = seat.ID
		}
		holdID := s.holdIDs.Next()
		hold = &SeatHold{
			ID:        holdID,
			EventID:   current.ID,
			Email:     email,
			SeatIDs:   seatIDs,
			ExpiresAt: time.Now().Add(current.HoldExpiration),
		}
		task := s.scheduler.Schedule(current.HoldExpiration, func() {
			s.reclaimHold(current.ID, holdID)
		})

		s.mu.Lock()
		s.holds[holdID] = &scheduledHold{hold: hold, task: task}
		s.mu.Unlock()
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateAvailability(hold.EventID)
	s.publishLifecycle(notifications.HoldCreated, hold.EventID, hold.ID, "", email, len(hold.SeatIDs))
	s.log.Info("seat hold created",
		slog.Int("hold_id", hold.ID),
		slog.Int("event_id", hold.EventID),
		slog.Int("seats", len(hold.SeatIDs)),
		slog.Time("expires_at", hold.ExpiresAt),
	)
	return hold, nil
}

// ReserveSeats converts a live hold into a permanent reservation. An email
// that does not match the hold reads as not-found on purpose: a distinct
// authorization error would confirm the hold id exists.
func (s *service) ReserveSeats(holdID int, email string) (string, error) {
	s.mu.Lock()
	scheduled, ok := s.holds[holdID]
	s.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("%w: hold %d", ErrNotFound, holdID)
	}
	if scheduled.hold.Email != email {
		return "", fmt.Errorf("%w: hold %d", ErrNotFound, holdID)
	}

	var reservation *SeatReservation
	_, err := s.store.Update(scheduled.hold.EventID, func(current *Event) (*Event, error) {
		// the cancellation outcome is the single source of truth for the
		// race with expiration: failure means the reclaim callback fired,
		// is firing, or finished, and this hold is spent either way
		if !scheduled.task.Cancel() {
			return nil, fmt.Errorf("%w: hold %d already expired", ErrReservationFailed, holdID)
		}

		next, err := current.Transition(map[SeatState][]Seat{SeatBooked: heldSeats(scheduled.hold.SeatIDs)})
		if err != nil {
			return nil, err
		}

		reservation = &SeatReservation{
			ID:        uuid.New(),
			EventID:   scheduled.hold.EventID,
			Email:     email,
			SeatIDs:   scheduled.hold.SeatIDs,
			CreatedAt: time.Now(),
		}
		s.mu.Lock()
		delete(s.holds, holdID)
		s.reservations[reservation.ID] = reservation
		s.mu.Unlock()
		return next, nil
	})
	if err != nil {
		return "", err
	}

	s.invalidateAvailability(reservation.EventID)
	s.publishLifecycle(notifications.ReservationCreated, reservation.EventID, holdID, reservation.ID.String(), email, len(reservation.SeatIDs))
	s.log.Info("reservation complete",
		slog.String("reservation_id", reservation.ID.String()),
		slog.Int("hold_id", holdID),
		slog.Int("event_id", reservation.EventID),
		slog.Int("seats", len(reservation.SeatIDs)),
	)
	return reservation.ID.String(), nil
}

// reclaimHold is the scheduled expiration callback. It runs on a scheduler
// worker and takes the event write lock itself. No caller is waiting on it,
// so it logs instead of returning errors. If the hold is already gone the
// reservation won and there is nothing to do; the scheduler's cancellation
// contract guarantees this callback never runs at all when Cancel succeeded.
func (s *service) reclaimHold(eventID, holdID int) {
	s.mu.Lock()
	scheduled, ok := s.holds[holdID]
	s.mu.Unlock()
	if !ok {
		return
	}

	_, err := s.store.Update(eventID, func(current *Event) (*Event, error) {
		return current.Transition(map[SeatState][]Seat{SeatAvailable: heldSeats(scheduled.hold.SeatIDs)})
	})
	if err != nil {
		s.log.Error("failed to reclaim expired hold",
			slog.Int("hold_id", holdID),
			slog.Int("event_id", eventID),
			slog.Any("error", err),
		)
		return
	}

	s.mu.Lock()
	delete(s.holds, holdID)
	s.mu.Unlock()

	s.invalidateAvailability(eventID)
	s.publishLifecycle(notifications.HoldExpired, eventID, holdID, "", scheduled.hold.Email, len(scheduled.hold.SeatIDs))
	s.log.Info("hold expired, seats reclaimed",
		slog.Int("hold_id", holdID),
		slog.Int("event_id", eventID),
		slog.Int("seats", len(scheduled.hold.SeatIDs)),
	)
}

func (s *service) summarize(event *Event) *EventSummary {
	s.mu.Lock()
	levels := s.levels[event.ID]
	s.mu.Unlock()

	summary := &EventSummary{
		ID:                    event.ID,
		Name:                  event.Name,
		StartTime:             event.StartTime,
		DurationMinutes:       int(event.Duration / time.Minute),
		HoldExpirationSeconds: int(event.HoldExpiration / time.Second),
		CreatedAt:             event.CreatedAt,
		Seats: SeatTotals{
			Total:     event.TotalSeatCount(0),
			Available: event.AvailableSeatCount(0),
			OnHold:    event.StateCounts(0)[SeatOnHold],
			Booked:    event.StateCounts(0)[SeatBooked],
		},
	}
	for _, level := range levels {
		summary.Levels = append(summary.Levels, LevelSummary{
			ID:          level.ID,
			Name:        level.Name,
			Price:       level.Price,
			Rows:        level.Rows,
			SeatsPerRow: level.SeatsPerRow,
			Total:       level.TotalSeats(),
			Available:   event.AvailableSeatCount(level.ID),
		})
	}
	return summary
}

func (s *service) cached(key string, ttl time.Duration, dest interface{}, fetch func() (interface{}, error)) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.cacheService.GetOrSet(ctx, key, ttl, fetch, dest)
}

func (s *service) invalidateAvailability(eventID int) {
	if s.cacheService == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.cacheService.DeletePattern(ctx, cache.AvailabilityPattern(eventID)); err != nil {
		s.log.Warn("availability cache invalidation failed", slog.Int("event_id", eventID), slog.Any("error", err))
	}
	if err := s.cacheService.Delete(ctx, cache.EventDetailKey(eventID)); err != nil {
		s.log.Warn("event cache invalidation failed", slog.Int("event_id", eventID), slog.Any("error", err))
	}
}

func (s *service) publishLifecycle(kind notifications.LifecycleType, eventID, holdID int, reservationID, email string, seatCount int) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	notification := &notifications.LifecycleEvent{
		ID:            uuid.New(),
		Type:          kind,
		EventID:       eventID,
		HoldID:        holdID,
		ReservationID: reservationID,
		Email:         email,
		SeatCount:     seatCount,
		OccurredAt:    time.Now(),
	}
	if err := s.publisher.PublishLifecycleEvent(ctx, notification); err != nil {
		s.log.Warn("lifecycle publish failed", slog.String("type", string(kind)), slog.Any("error", err))
	}
}
