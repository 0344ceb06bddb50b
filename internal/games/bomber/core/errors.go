package core

import "errors"

var (
	// ErrOutOfBounds is returned by tile queries outside the grid.
	// A validated map never produces it during play.
	ErrOutOfBounds = errors.New("bomber: position out of bounds")

	// ErrInvalidMap is returned when map data breaks a structural invariant.
	ErrInvalidMap = errors.New("bomber: invalid map")

	// ErrInvalidSave is returned when saved player fields cannot be restored.
	ErrInvalidSave = errors.New("bomber: invalid save data")
)
