package ticketing

import "time"

type EventSummary struct {
	ID                    int            `json:"id"`
	Name                  string         `json:"name"`
	StartTime             time.Time      `json:"start_time"`
	DurationMinutes       int            `json:"duration_minutes"`
	HoldExpirationSeconds int            `json:"hold_expiration_seconds"`
	CreatedAt             time.Time      `json:"created_at"`
	Seats                 SeatTotals     `json:"seats"`
	Levels                []LevelSummary `json:"levels,omitempty"`
}

type SeatTotals struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	OnHold    int `json:"on_hold"`
	Booked    int `json:"booked"`
}

type LevelSummary struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Rows        int     `json:"rows"`
	SeatsPerRow int     `json:"seats_per_row"`
	Total       int     `json:"total"`
	Available   int     `json:"available"`
}

type HoldResponse struct {
	HoldID    int       `json:"hold_id"`
	EventID   int       `json:"event_id"`
	Email     string    `json:"email"`
	Seats     []string  `json:"seats"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ReservationResponse struct {
	ReservationID string `json:"reservation_id"`
	HoldID        int    `json:"hold_id"`
}

type AvailabilityResponse struct {
	LevelID   int `json:"level_id,omitempty"`
	Available int `json:"available"`
}

func newHoldResponse(hold *SeatHold) *HoldResponse {
	seats := make([]string, len(hold.SeatIDs))
	for i, id := range hold.SeatIDs {
		seats[i] = id.String()
	}
	return &HoldResponse{
		HoldID:    hold.ID,
		EventID:   hold.EventID,
		Email:     hold.Email,
		Seats:     seats,
		ExpiresAt: hold.ExpiresAt,
	}
}
