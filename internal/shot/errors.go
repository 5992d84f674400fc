package shot

import "errors"

var (
	// ErrInsufficientInput is returned for gestures with fewer than two points.
	ErrInsufficientInput = errors.New("swipe needs at least two points")

	// ErrTooManyPoints is returned for gestures longer than MaxSwipePoints.
	ErrTooManyPoints = errors.New("swipe has too many points")

	// ErrInvalidShot is returned when the swipe classified as INVALID. Nothing is launched.
	ErrInvalidShot = errors.New("swipe does not describe a shot")

	// ErrShotInProgress is returned when a gesture arrives while a shot is not yet settled.
	ErrShotInProgress = errors.New("a shot is already in progress")

	// ErrInvalidFlightTime is returned by the solver for non-positive flight times.
	ErrInvalidFlightTime = errors.New("flight time must be positive")
)
