package shot

import (
	"math"

	"github.com/swipekick/backend/internal/geom"
)

// interior sample indices used to measure curvature
const (
	firstCurveSample = 1
	lastCurveSample  = 3
)

// Classify turns swipe kinematics into a shot type and its continuous parameters.
// It is deterministic and never fails; INVALID analyses still carry power,
// curve and height values.
func Classify(swipe NormalizedSwipeData, cfg Config) ShotAnalysis {
	power := geom.Clamp((swipe.Speed-cfg.MinSpeed)/(cfg.MaxSpeed-cfg.MinSpeed), 0, 1)

	avgDeviation, avgY := curvature(swipe.Points)
	curveAmount := math.Min(1, avgDeviation/cfg.CurveNormalizer)
	curved := avgDeviation > cfg.CurveThreshold

	direction := 0
	if curved {
		if avgY > 0 {
			direction = 1
		} else {
			direction = -1
		}
	}

	height := geom.Clamp(-swipe.VerticalDistance/cfg.ScreenHeight+cfg.HeightBias, 0, 1)

	analysis := ShotAnalysis{
		Power:          power,
		CurveAmount:    curveAmount,
		CurveDirection: direction,
		HeightFactor:   height,
	}

	angleDeg := swipe.Angle * 180 / math.Pi
	switch {
	case angleDeg >= 0 && angleDeg <= 180:
		analysis.Type = ShotInvalid
	case curved:
		analysis.Type = ShotCurve
	case swipe.Speed <= cfg.ChipMaxSpeed:
		analysis.Type = ShotChip
	case swipe.Speed <= cfg.NormalMaxSpeed:
		analysis.Type = ShotNormal
	default:
		analysis.Type = ShotPower
	}
	return analysis
}

// curvature returns the mean absolute and mean signed lateral offset of the
// interior samples. Paths too short to have interior samples are straight.
func curvature(points []geom.Vec2) (avgDeviation, avgY float64) {
	last := lastCurveSample
	if last > len(points)-2 {
		last = len(points) - 2
	}
	n := 0
	for i := firstCurveSample; i <= last; i++ {
		avgDeviation += math.Abs(points[i].Y)
		avgY += points[i].Y
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return avgDeviation / float64(n), avgY / float64(n)
}
