package ticketing

// SeatLevel describes one pricing tier of the venue and how many seats it
// materializes at event creation. Levels are ordered best to worst by
// ascending ID; event creation assigns IDs in the order levels were supplied.
type SeatLevel struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Rows        int     `json:"rows"`
	SeatsPerRow int     `json:"seats_per_row"`
}

// TotalSeats is the number of seats this level contributes to the seat map.
func (l SeatLevel) TotalSeats() int {
	return l.Rows * l.SeatsPerRow
}
