package ticketing

import "time"

type CreateEventRequest struct {
	Name                  string               `json:"name" binding:"required,min=1,max=255"`
	StartTime             time.Time            `json:"start_time" binding:"required"`
	DurationMinutes       int                  `json:"duration_minutes" binding:"required,min=1"`
	HoldExpirationSeconds int                  `json:"hold_expiration_seconds" binding:"required,min=1"`
	Levels                []CreateLevelRequest `json:"levels" binding:"required,min=1,dive"`
}

// CreateLevelRequest describes one seat level; levels must be listed best to
// worst, the order level ids are assigned in.
type CreateLevelRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=100"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Rows        int     `json:"rows" binding:"required,min=1"`
	SeatsPerRow int     `json:"seats_per_row" binding:"required,min=1"`
}

// HoldSeatsRequest asks for the best available block of seats. Level bounds
// are optional; zero means unbounded on that side.
type HoldSeatsRequest struct {
	Count    int    `json:"count" binding:"required,min=1"`
	MinLevel int    `json:"min_level" binding:"omitempty,min=1"`
	MaxLevel int    `json:"max_level" binding:"omitempty,min=1,gtefield=MinLevel"`
	Email    string `json:"email" binding:"required,email"`
}

type ReserveSeatsRequest struct {
	HoldID int    `json:"hold_id" binding:"required,min=1"`
	Email  string `json:"email" binding:"required,email"`
}
