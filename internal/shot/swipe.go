package shot

import (
	"math"

	"github.com/swipekick/backend/internal/geom"
)

// MaxSwipePoints bounds the samples accepted in one gesture.
const MaxSwipePoints = 512

// NormalizeSwipe maps a raw gesture into a rotation and scale invariant frame.
// The start point becomes the origin and the end point becomes (1, 0).
// A swipe that ends where it started is valid and normalizes to all zeros.
func NormalizeSwipe(swipe SwipeData) (NormalizedSwipeData, error) {
	if len(swipe.Points) < 2 {
		return NormalizedSwipeData{}, ErrInsufficientInput
	}
	if len(swipe.Points) > MaxSwipePoints {
		return NormalizedSwipeData{}, ErrTooManyPoints
	}

	first := swipe.Points[0]
	last := swipe.Points[len(swipe.Points)-1]
	origin := geom.Vec2{X: first.X, Y: first.Y}

	translated := make([]geom.Vec2, len(swipe.Points))
	for i, p := range swipe.Points {
		translated[i] = geom.Vec2{X: p.X, Y: p.Y}.Minus(origin)
	}

	dx := last.X - first.X
	dy := last.Y - first.Y
	distance := math.Hypot(dx, dy)
	duration := swipeDuration(swipe)

	out := NormalizedSwipeData{
		Points:             make([]geom.Vec2, len(translated)),
		OriginalDistance:   distance,
		Duration:           duration,
		HorizontalDistance: dx,
		VerticalDistance:   dy,
	}

	if distance == 0 {
		return out, nil
	}

	angle := math.Atan2(dy, dx)
	for i, p := range translated {
		out.Points[i] = p.Rotate(-angle).Times(1 / distance)
	}
	// Pin the endpoint so rounding never moves it off (1, 0).
	out.Points[len(out.Points)-1] = geom.Vec2{X: 1}

	out.Angle = angle
	if duration > 0 {
		out.Speed = distance / duration * 1000
	}
	return out, nil
}

// swipeDuration prefers the explicit duration, then the start/end stamps,
// then the first and last sample times.
func swipeDuration(swipe SwipeData) float64 {
	if swipe.Duration > 0 {
		return swipe.Duration
	}
	if d := swipe.EndTime - swipe.StartTime; d > 0 {
		return d
	}
	return swipe.Points[len(swipe.Points)-1].Timestamp - swipe.Points[0].Timestamp
}
