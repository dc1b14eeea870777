package matches

import "errors"

var (
	ErrVenueNotFound   = errors.New("venue not found")
	ErrMatchNotFound   = errors.New("match not found")
	ErrMatchFrozen     = errors.New("cannot modify completed or past matches")
	ErrHasReservations = errors.New("cannot change venue of a match with reservations")
	ErrInvalid         = errors.New("invalid match")
)
