package repository

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrSeatsNotFound    = errors.New("some seats not found")
	ErrSeatsUnavailable = errors.New("some seats are already reserved")
	ErrForbidden        = errors.New("forbidden")
	ErrMatchNotBookable = errors.New("match is not bookable")
	ErrMatchStarted     = errors.New("match already started")
	ErrHasReservations  = errors.New("match already has reservations")
)
