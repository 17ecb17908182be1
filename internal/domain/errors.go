package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNoColumns   = errors.New("level has no columns")
	ErrEmptyColumn = errors.New("column has no options")
	ErrNoLevels    = errors.New("story has no levels")
	ErrInterrupted = errors.New("speech interrupted")
)
