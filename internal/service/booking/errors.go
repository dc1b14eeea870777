package booking

import "errors"

var (
	ErrNoSeatsSelected     = errors.New("no seats selected")
	ErrTooManySeats        = errors.New("too many seats requested")
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchNotBookable    = errors.New("cannot book seats for completed or past matches")
	ErrSeatsNotFound       = errors.New("some seats not found")
	ErrSeatsUnavailable    = errors.New("some seats are already reserved")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrForbidden           = errors.New("reservation belongs to another user")
	ErrMatchStarted        = errors.New("match already started")
	ErrRateLimited         = errors.New("rate limited")
	ErrBookingConflict     = errors.New("booking conflicted with concurrent requests")
)
