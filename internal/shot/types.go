package shot

import (
	"fmt"

	"github.com/swipekick/backend/internal/geom"
)

// ShotType is the discrete classification of a swipe.
type ShotType int

const (
	ShotInvalid ShotType = iota
	ShotChip
	ShotNormal
	ShotPower
	ShotCurve
)

var shotTypeNames = [...]string{
	ShotInvalid: "INVALID",
	ShotChip:    "CHIP",
	ShotNormal:  "NORMAL",
	ShotPower:   "POWER",
	ShotCurve:   "CURVE",
}

func (t ShotType) String() string {
	if t < 0 || int(t) >= len(shotTypeNames) {
		return fmt.Sprintf("ShotType(%d)", int(t))
	}
	return shotTypeNames[t]
}

func (t ShotType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ShotType) UnmarshalText(b []byte) error {
	parsed, err := ParseShotType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseShotType maps a stored name back to its ShotType.
func ParseShotType(s string) (ShotType, error) {
	for i, name := range shotTypeNames {
		if name == s {
			return ShotType(i), nil
		}
	}
	return ShotInvalid, fmt.Errorf("unknown shot type %q", s)
}

// SwipePoint is one sample of the gesture path. Timestamp is in milliseconds.
type SwipePoint struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Timestamp float64 `json:"t"`
}

// SwipeData is a completed gesture as handed over by the capture device.
type SwipeData struct {
	Points    []SwipePoint `json:"points"`
	StartTime float64      `json:"start_time"`
	EndTime   float64      `json:"end_time"`
	Duration  float64      `json:"duration"` // ms
}

// NormalizedSwipeData is a swipe in a frame where the start point is the origin
// and the start->end segment is the unit x-axis.
type NormalizedSwipeData struct {
	Points             []geom.Vec2 `json:"points"`
	OriginalDistance   float64     `json:"original_distance"` // px
	Duration           float64     `json:"duration"`          // ms
	Speed              float64     `json:"speed"`             // px/s
	Angle              float64     `json:"angle"`             // radians, screen space
	HorizontalDistance float64     `json:"horizontal_distance"`
	VerticalDistance   float64     `json:"vertical_distance"`
}

// ShotAnalysis is the classifier output.
type ShotAnalysis struct {
	Type           ShotType `json:"type"`
	Power          float64  `json:"power"`
	CurveAmount    float64  `json:"curve_amount"`
	CurveDirection int      `json:"curve_direction"` // -1, 0 or 1
	HeightFactor   float64  `json:"height_factor"`
}

// ShotParameters holds the resolved world-space targets of a shot.
type ShotParameters struct {
	TargetPosition    geom.Vec3    `json:"target_position"`
	AimTargetPosition geom.Vec3    `json:"aim_target_position"`
	Direction         geom.Vec3    `json:"direction"`
	AimDirection      geom.Vec3    `json:"aim_direction"`
	Distance          float64      `json:"distance"`
	AimDistance       float64      `json:"aim_distance"`
	Analysis          ShotAnalysis `json:"analysis"`
}

// ShotResult is what gets handed to the physics engine to launch the ball.
type ShotResult struct {
	Velocity          geom.Vec3 `json:"velocity"`
	AngularVelocity   geom.Vec3 `json:"angular_velocity"`
	ShotType          ShotType  `json:"shot_type"`
	TargetPosition    geom.Vec3 `json:"target_position"`
	AimTargetPosition geom.Vec3 `json:"aim_target_position"`
	FlightTime        float64   `json:"flight_time"`
}

// ShotAttempt carries every intermediate stage of one gesture through the
// pipeline. Result is nil when nothing was launched.
type ShotAttempt struct {
	Sequence   int                 `json:"sequence"`
	Swipe      NormalizedSwipeData `json:"swipe"`
	Analysis   ShotAnalysis        `json:"analysis"`
	Parameters ShotParameters      `json:"parameters"`
	Result     *ShotResult         `json:"result,omitempty"`
}

// Body is the slice of a rigid body the pipeline reads and writes.
type Body interface {
	Position() geom.Vec3
	Velocity() geom.Vec3
	SetVelocity(v geom.Vec3)
	SetAngularVelocity(w geom.Vec3)
	ApplyForce(force, point geom.Vec3)
}
