package ticketing

import "errors"

// Error kinds returned by the ticketing core. Callers branch with errors.Is;
// every error from this package wraps exactly one of these.
var (
	// ErrNotFound covers unknown event ids, unknown hold ids, and hold/email
	// mismatches. The mismatch case deliberately reads the same as an unknown
	// hold so callers cannot probe for existing hold ids.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument covers malformed requests and malformed construction
	// input (seat count < 1, empty level list, dead scheduler).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientSeats means fewer seats matched the requested level range
	// than were asked for. No state was changed; retry with other parameters.
	ErrInsufficientSeats = errors.New("insufficient seats")

	// ErrReservationFailed means the hold's expiration could not be cancelled,
	// i.e. the hold already expired or is expiring right now. The hold is
	// gone; the caller needs a new one.
	ErrReservationFailed = errors.New("reservation failed")

	// ErrStateConflict means a snapshot transition found a seat in a state
	// other than the one the caller captured. The write-lock re-validation is
	// designed to keep this internal; a caller observing it is a bug.
	ErrStateConflict = errors.New("seat state conflict")
)
