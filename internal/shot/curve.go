package shot

import (
	"math"

	"github.com/swipekick/backend/internal/geom"
)

// curveTracker is the state of one active curve window.
type curveTracker struct {
	analysis ShotAnalysis
	elapsed  float64
}

// CurveForce bends a curved shot after launch. It holds at most one active
// window; starting a new one replaces the old. Update must be called once per
// physics sub-step with the sub-step size.
type CurveForce struct {
	cfg     Config
	tracker *curveTracker
}

func NewCurveForce(cfg Config) *CurveForce {
	return &CurveForce{cfg: cfg}
}

// Start opens a curve window for CURVE shots. Any other shot type clears a
// stale window instead.
func (f *CurveForce) Start(analysis ShotAnalysis) {
	if analysis.Type != ShotCurve {
		f.tracker = nil
		return
	}
	f.tracker = &curveTracker{analysis: analysis}
}

// Stop closes the window. Safe to call when inactive.
func (f *CurveForce) Stop() {
	f.tracker = nil
}

func (f *CurveForce) Active() bool {
	return f.tracker != nil
}

// Elapsed returns seconds since Start, or 0 when inactive.
func (f *CurveForce) Elapsed() float64 {
	if f.tracker == nil {
		return 0
	}
	return f.tracker.elapsed
}

// Update advances the window by dt and pushes the ball sideways. It returns the
// force applied, which is zero whenever nothing was applied.
func (f *CurveForce) Update(dt float64, ball Body) geom.Vec3 {
	t := f.tracker
	if t == nil {
		return geom.Vec3{}
	}

	t.elapsed += dt
	if t.elapsed > f.cfg.CurveLifetime {
		f.Stop()
		return geom.Vec3{}
	}

	v := ball.Velocity()
	speed := v.Magnitude()
	if speed < f.cfg.CurveMinSpeed {
		return geom.Vec3{}
	}

	// velocity direction turned 90 degrees about the vertical axis
	dir := v.Times(1 / speed)
	perp := geom.Vec3{X: -dir.Z, Z: dir.X}
	if perp.MagnitudeSquared() < 1e-12 {
		return geom.Vec3{}
	}
	perp = perp.Normalize()

	speedFactor := math.Min(speed/f.cfg.CurveSpeedReference, f.cfg.CurveMaxSpeedFactor)
	timeFactor := math.Max(0, 1-t.elapsed/f.cfg.CurveDecayWindow)
	strength := t.analysis.CurveAmount * speedFactor * timeFactor * f.cfg.CurveForceScale

	force := perp.Times(strength * -float64(t.analysis.CurveDirection))
	if force.IsZero() {
		return geom.Vec3{}
	}
	ball.ApplyForce(force, ball.Position())
	return force
}
