package shot

import (
	"errors"
	"math"
	"testing"
)

func TestNormalizeSwipeNeedsTwoPoints(t *testing.T) {
	for _, n := range []int{0, 1} {
		swipe := SwipeData{Points: make([]SwipePoint, n)}
		if _, err := NormalizeSwipe(swipe); !errors.Is(err, ErrInsufficientInput) {
			t.Errorf("%d points: expected ErrInsufficientInput, got %v", n, err)
		}
	}
}

func TestNormalizeSwipePointCap(t *testing.T) {
	tests := []struct {
		n    int
		want error
	}{
		{MaxSwipePoints, nil},
		{MaxSwipePoints + 1, ErrTooManyPoints},
		{10 * MaxSwipePoints, ErrTooManyPoints},
	}
	for _, tt := range tests {
		swipe := makeSwipe(400, 700, 400, 300, 0, 400, tt.n)
		if _, err := NormalizeSwipe(swipe); !errors.Is(err, tt.want) {
			t.Errorf("%d points: expected %v, got %v", tt.n, tt.want, err)
		}
	}
}

func TestNormalizeSwipeDegenerate(t *testing.T) {
	// A tap: the path wanders but ends where it started
	swipe := SwipeData{
		Points: []SwipePoint{
			{X: 100, Y: 100, Timestamp: 0},
			{X: 104, Y: 98, Timestamp: 20},
			{X: 100, Y: 100, Timestamp: 40},
		},
		Duration: 40,
	}
	n, err := NormalizeSwipe(swipe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, p := range n.Points {
		if !p.IsZero() {
			t.Errorf("point %d should be (0,0), got %+v", i, p)
		}
	}
	if n.Speed != 0 || n.Angle != 0 || n.OriginalDistance != 0 {
		t.Errorf("degenerate swipe should have zero speed/angle/distance, got %.3f/%.3f/%.3f",
			n.Speed, n.Angle, n.OriginalDistance)
	}
}

func TestNormalizeSwipeEndpointAndKinematics(t *testing.T) {
	swipe := makeSwipe(400, 700, 400, 300, 30, 400, 10)
	n, err := NormalizeSwipe(swipe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, last := n.Points[0], n.Points[len(n.Points)-1]
	if !first.IsZero() {
		t.Errorf("first point should be the origin, got %+v", first)
	}
	if last.X != 1 || last.Y != 0 {
		t.Errorf("last point should be exactly (1,0), got %+v", last)
	}
	if !almostEqual(n.OriginalDistance, 400, eps) {
		t.Errorf("distance: expected 400, got %.6f", n.OriginalDistance)
	}
	if !almostEqual(n.Speed, 1000, 1e-6) {
		t.Errorf("speed: expected 1000 px/s, got %.6f", n.Speed)
	}
	if !almostEqual(n.Angle, -math.Pi/2, eps) {
		t.Errorf("angle: expected -pi/2 for an upward swipe, got %.6f", n.Angle)
	}
	if n.VerticalDistance != -400 || n.HorizontalDistance != 0 {
		t.Errorf("displacement: expected (0,-400), got (%.1f,%.1f)", n.HorizontalDistance, n.VerticalDistance)
	}
}

func TestNormalizeSwipeRotationAndScaleInvariant(t *testing.T) {
	base := makeSwipe(0, 0, 0, -300, 25, 300, 8)
	ref, _ := NormalizeSwipe(base)

	// Same gesture turned 30 degrees, doubled in size and moved elsewhere
	rot := math.Pi / 6
	moved := SwipeData{Duration: base.Duration}
	for _, p := range base.Points {
		x := 2 * (p.X*math.Cos(rot) - p.Y*math.Sin(rot))
		y := 2 * (p.X*math.Sin(rot) + p.Y*math.Cos(rot))
		moved.Points = append(moved.Points, SwipePoint{X: x + 150, Y: y + 900, Timestamp: p.Timestamp})
	}
	got, _ := NormalizeSwipe(moved)

	for i := range ref.Points {
		if !almostEqual(ref.Points[i].X, got.Points[i].X, 1e-9) || !almostEqual(ref.Points[i].Y, got.Points[i].Y, 1e-9) {
			t.Errorf("point %d differs after rotate/scale: %+v vs %+v", i, ref.Points[i], got.Points[i])
		}
	}
}

func TestNormalizeSwipeZeroDuration(t *testing.T) {
	swipe := SwipeData{Points: []SwipePoint{{X: 0, Y: 0}, {X: 0, Y: -200}}}
	n, err := NormalizeSwipe(swipe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Speed != 0 {
		t.Errorf("zero duration should give speed 0, got %.3f", n.Speed)
	}
}

func TestNormalizeSwipeDurationFallbacks(t *testing.T) {
	pts := []SwipePoint{{X: 0, Y: 0, Timestamp: 100}, {X: 0, Y: -300, Timestamp: 400}}

	fromStamps, _ := NormalizeSwipe(SwipeData{Points: pts, StartTime: 0, EndTime: 200})
	if fromStamps.Duration != 200 {
		t.Errorf("expected duration from start/end times (200), got %.1f", fromStamps.Duration)
	}

	fromSamples, _ := NormalizeSwipe(SwipeData{Points: pts})
	if fromSamples.Duration != 300 {
		t.Errorf("expected duration from sample stamps (300), got %.1f", fromSamples.Duration)
	}
}
