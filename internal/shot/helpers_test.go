package shot

import (
	"math"

	"github.com/swipekick/backend/internal/geom"
)

const eps = 1e-9

// fakeBody records what the pipeline writes to the ball.
type fakeBody struct {
	pos     geom.Vec3
	vel     geom.Vec3
	angVel  geom.Vec3
	forces  []geom.Vec3
	points  []geom.Vec3
	setVels int
}

func (b *fakeBody) Position() geom.Vec3 { return b.pos }
func (b *fakeBody) Velocity() geom.Vec3 { return b.vel }

func (b *fakeBody) SetVelocity(v geom.Vec3) {
	b.vel = v
	b.setVels++
}

func (b *fakeBody) SetAngularVelocity(w geom.Vec3) { b.angVel = w }

func (b *fakeBody) ApplyForce(force, point geom.Vec3) {
	b.forces = append(b.forces, force)
	b.points = append(b.points, point)
}

// makeSwipe samples n points along a straight line from start to end, bowed
// sideways by bulge pixels at the midpoint (positive bulge bows to screen right
// of an upward swipe).
func makeSwipe(sx, sy, ex, ey, bulge, durationMs float64, n int) SwipeData {
	pts := make([]SwipePoint, n)
	for i := 0; i < n; i++ {
		f := float64(i) / float64(n-1)
		bow := 0.0
		if i > 0 && i < n-1 {
			bow = bulge * math.Sin(math.Pi*f)
		}
		pts[i] = SwipePoint{
			X:         sx + (ex-sx)*f + bow,
			Y:         sy + (ey-sy)*f,
			Timestamp: 1000 + durationMs*f,
		}
	}
	return SwipeData{Points: pts, StartTime: 1000, EndTime: 1000 + durationMs, Duration: durationMs}
}

// upSwipe is a straight upward swipe of 400px at the given speed in px/s.
func upSwipe(speed float64) SwipeData {
	return makeSwipe(400, 700, 400, 300, 0, 400/speed*1000, 10)
}

// straightPath builds a normalized path with the given interior lateral offsets.
func straightPath(interior ...float64) []geom.Vec2 {
	pts := []geom.Vec2{{}}
	for i, y := range interior {
		pts = append(pts, geom.Vec2{X: float64(i+1) / float64(len(interior)+1), Y: y})
	}
	return append(pts, geom.Vec2{X: 1})
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
