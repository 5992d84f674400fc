package shot

import (
	"math"

	"github.com/swipekick/backend/internal/geom"
)

// ResolveAim maps a classified swipe onto a point inside the goal mouth. For
// curved shots the aim point is pushed outward so the in-flight curve force
// bends the ball back onto the target.
func ResolveAim(swipe NormalizedSwipeData, analysis ShotAnalysis, cfg Config) ShotParameters {
	halfSpan := cfg.GoalWidth/2 - cfg.TargetMarginX

	lateral := geom.Clamp(swipe.HorizontalDistance/cfg.PixelsPerWorldUnit, -1, 1)
	u := (lateral + 1) / 2
	x := geom.Lerp(cfg.GoalCenterX-halfSpan, cfg.GoalCenterX+halfSpan, u)

	y := geom.Lerp(cfg.GroundMargin, cfg.GoalHeight-cfg.CrossbarMargin, geom.Clamp(analysis.HeightFactor, 0, 1))

	target := geom.NewVec3(x, y, cfg.TargetDepth())
	aim := target
	if analysis.Type == ShotCurve && analysis.CurveDirection != 0 {
		aim.X = curvedAimX(target.X, analysis, cfg)
	}

	toTarget := target.Minus(cfg.LaunchPosition)
	toAim := aim.Minus(cfg.LaunchPosition)
	return ShotParameters{
		TargetPosition:    target,
		AimTargetPosition: aim,
		Direction:         toTarget.Normalize(),
		AimDirection:      toAim.Normalize(),
		Distance:          toTarget.Magnitude(),
		AimDistance:       toAim.Magnitude(),
		Analysis:          analysis,
	}
}

func curvedAimX(x float64, analysis ShotAnalysis, cfg Config) float64 {
	offset := cfg.MaxOutwardOffset * analysis.CurveAmount * (0.55 + 0.45*analysis.Power)

	rel := x - cfg.GoalCenterX
	aimRel := rel + geom.Sign(rel)*offset
	if math.Abs(aimRel) <= math.Abs(rel) {
		// on the centre line: nudge to the side the curve bends back from
		aimRel = rel + float64(analysis.CurveDirection)*cfg.MinOutwardNudge
	}

	limit := cfg.GoalWidth/2 + cfg.TargetMarginX + cfg.CurveExtraMargin
	return cfg.GoalCenterX + geom.Clamp(aimRel, -limit, limit)
}

// BendDirection is the curve direction whose in-flight force carries the ball
// from the aim point back onto the target. Off-centre targets are pushed away
// from centre whichever way the swipe bowed, so the swipe's own direction only
// decides when the two points coincide.
func BendDirection(params ShotParameters) int {
	switch d := params.AimTargetPosition.X - params.TargetPosition.X; {
	case d > 0:
		return 1
	case d < 0:
		return -1
	}
	return params.Analysis.CurveDirection
}
