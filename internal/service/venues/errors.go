package venues

import "errors"

var (
	ErrVenueNotFound = errors.New("venue not found")
	ErrNameTaken     = errors.New("venue with this name already exists")
	ErrVenueInUse    = errors.New("venue is referenced by matches")
	ErrInvalid       = errors.New("invalid venue")
)
