package query

import "errors"

var ErrMatchNotFound = errors.New("match not found")
