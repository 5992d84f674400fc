package shot

import "github.com/swipekick/backend/internal/geom"

// ResolveSpin returns the launch angular velocity. Only curved shots spin:
// sidespin about Y opposite to the curve direction, plus a fixed backspin about X.
// velocity is accepted for symmetry with the solver and does not scale the spin.
func ResolveSpin(params ShotParameters, velocity geom.Vec3, cfg Config) geom.Vec3 {
	a := params.Analysis
	if a.Type != ShotCurve {
		return geom.Vec3{}
	}
	return geom.Vec3{
		X: cfg.SpinStrength * cfg.BackspinRatio,
		Y: -float64(a.CurveDirection) * cfg.SpinStrength * a.CurveAmount,
	}
}
