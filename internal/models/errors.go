package models

import "errors"

// Custom errors
var (
	ErrUnknownSport      = errors.New("unknown sport")
	ErrInvalidResult     = errors.New("invalid result")
	ErrMissingCompetitor = errors.New("competitor name is required")
	ErrNotFound          = errors.New("record not found")
	ErrInvalidRating     = errors.New("rating must be a finite positive number")
)
