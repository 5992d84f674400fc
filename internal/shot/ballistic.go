package shot

import (
	"github.com/swipekick/backend/internal/geom"
)

// FlightTime maps power onto the window: more power, shorter and flatter flight.
func FlightTime(power float64, w TimeWindow) float64 {
	return w.Max - (w.Max-w.Min)*geom.Clamp(power, 0, 1)
}

// SolveVelocity returns the launch velocity that carries a body from launch to
// target in exactly t seconds under constant gravity g along Y.
func SolveVelocity(launch, target geom.Vec3, t, g float64) (geom.Vec3, error) {
	if t <= 0 {
		return geom.Vec3{}, ErrInvalidFlightTime
	}
	d := target.Minus(launch)
	return geom.Vec3{
		X: d.X / t,
		Y: (d.Y - 0.5*g*t*t) / t,
		Z: d.Z / t,
	}, nil
}

// PositionAt integrates the gravity-only trajectory analytically.
func PositionAt(launch, v0 geom.Vec3, t, g float64) geom.Vec3 {
	p := launch.Plus(v0.Times(t))
	p.Y += 0.5 * g * t * t
	return p
}

// SolveLaunch solves the launch velocity toward the aim point of params.
// It returns the velocity and the flight time used.
func SolveLaunch(params ShotParameters, cfg Config) (geom.Vec3, float64, error) {
	if params.Analysis.Type == ShotInvalid {
		return geom.Vec3{}, 0, ErrInvalidShot
	}
	t := FlightTime(params.Analysis.Power, cfg.Window(params.Analysis.Type))
	v, err := SolveVelocity(cfg.LaunchPosition, params.AimTargetPosition, t, cfg.Gravity)
	if err != nil {
		return geom.Vec3{}, 0, err
	}
	return v, t, nil
}
