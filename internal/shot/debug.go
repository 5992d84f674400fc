package shot

import (
	"fmt"

	"github.com/swipekick/backend/internal/geom"
)

// FormatAnalysis renders an analysis for log lines.
func FormatAnalysis(a ShotAnalysis) string {
	s := fmt.Sprintf("%s power=%.2f height=%.2f", a.Type, a.Power, a.HeightFactor)
	if a.Type == ShotCurve {
		s += fmt.Sprintf(" curve=%.2f dir=%+d", a.CurveAmount, a.CurveDirection)
	}
	return s
}

func FormatVelocity(v geom.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f) |v|=%.2f", v.X, v.Y, v.Z, v.Magnitude())
}

// FormatResult renders a launched shot for log lines.
func FormatResult(r *ShotResult) string {
	if r == nil {
		return "no launch"
	}
	return fmt.Sprintf("%s v=%s aim=(%.2f, %.2f, %.2f) t=%.3fs",
		r.ShotType, FormatVelocity(r.Velocity),
		r.AimTargetPosition.X, r.AimTargetPosition.Y, r.AimTargetPosition.Z, r.FlightTime)
}
