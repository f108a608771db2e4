package quiz

import "errors"

var (
	// ErrFinished is returned when answering a session that already has a result.
	ErrFinished = errors.New("quiz already finished")
	// ErrAtStart is returned by Back on the first step.
	ErrAtStart = errors.New("quiz is at the first step")
	// ErrInvalidTable wraps decision table problems found by Validate.
	ErrInvalidTable = errors.New("invalid decision table")
)
