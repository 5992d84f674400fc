package shot

import (
	"errors"
	"fmt"
	"math"

	"github.com/swipekick/backend/internal/geom"
)

// TimeWindow bounds the flight time of a shot type. Full power flies in Min seconds.
type TimeWindow struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Config carries every tunable constant of the shot pipeline.
// World units are metres, screen units are pixels, times are seconds unless noted.
type Config struct {
	// World
	Gravity        float64   `json:"gravity"` // negative, along Y
	LaunchPosition geom.Vec3 `json:"launch_position"`

	// Goal geometry
	GoalCenterX         float64 `json:"goal_center_x"`
	GoalWidth           float64 `json:"goal_width"`
	GoalHeight          float64 `json:"goal_height"`
	GoalZ               float64 `json:"goal_z"`
	TargetDepthOverride float64 `json:"target_depth_override"` // 0 = use GoalZ

	// Target bounds inside the goal mouth
	TargetMarginX  float64 `json:"target_margin_x"`
	GroundMargin   float64 `json:"ground_margin"`
	CrossbarMargin float64 `json:"crossbar_margin"`

	// Curve aim offset
	MaxOutwardOffset float64 `json:"max_outward_offset"`
	MinOutwardNudge  float64 `json:"min_outward_nudge"`
	CurveExtraMargin float64 `json:"curve_extra_margin"`

	// Classification
	PixelsPerWorldUnit float64 `json:"pixels_per_world_unit"`
	MinSpeed           float64 `json:"min_speed"` // px/s
	MaxSpeed           float64 `json:"max_speed"`
	ChipMaxSpeed       float64 `json:"chip_max_speed"`
	NormalMaxSpeed     float64 `json:"normal_max_speed"`
	CurveThreshold     float64 `json:"curve_threshold"`
	CurveNormalizer    float64 `json:"curve_normalizer"`
	ScreenHeight       float64 `json:"screen_height"` // px
	HeightBias         float64 `json:"height_bias"`

	// Flight time per shot type
	ShotTimes map[ShotType]TimeWindow `json:"shot_times"`

	// Spin
	SpinStrength  float64 `json:"spin_strength"` // rad/s
	BackspinRatio float64 `json:"backspin_ratio"`

	// In-flight curve force
	CurveForceScale     float64 `json:"curve_force_scale"`
	CurveSpeedReference float64 `json:"curve_speed_reference"`
	CurveMaxSpeedFactor float64 `json:"curve_max_speed_factor"`
	CurveDecayWindow    float64 `json:"curve_decay_window"`
	CurveLifetime       float64 `json:"curve_lifetime"`
	CurveMinSpeed       float64 `json:"curve_min_speed"`

	// Shot lifecycle
	ShotTimeout float64 `json:"shot_timeout"`
	ResetDelay  float64 `json:"reset_delay"`
}

// DefaultConfig returns the tuning the game ships with.
func DefaultConfig() Config {
	return Config{
		Gravity:        -18.81,
		LaunchPosition: geom.NewVec3(0, 0.15, 0),

		GoalCenterX: 0,
		GoalWidth:   4.0,
		GoalHeight:  2.0,
		GoalZ:       -6.0,

		TargetMarginX:  0.35,
		GroundMargin:   0.25,
		CrossbarMargin: 0.25,

		MaxOutwardOffset: 1.0,
		MinOutwardNudge:  0.2,
		CurveExtraMargin: 0.75,

		PixelsPerWorldUnit: 200,
		MinSpeed:           500,
		MaxSpeed:           2000,
		ChipMaxSpeed:       900,
		NormalMaxSpeed:     1400,
		CurveThreshold:     0.08,
		CurveNormalizer:    0.3,
		ScreenHeight:       800,
		HeightBias:         0.30,

		ShotTimes: map[ShotType]TimeWindow{
			ShotChip:   {Min: 0.3, Max: 0.6},
			ShotNormal: {Min: 0.3, Max: 0.6},
			ShotPower:  {Min: 0.3, Max: 0.6},
			ShotCurve:  {Min: 0.4, Max: 0.75},
		},

		SpinStrength:  12,
		BackspinRatio: 0.3,

		CurveForceScale:     5.0,
		CurveSpeedReference: 20,
		CurveMaxSpeedFactor: 1.5,
		CurveDecayWindow:    1.5,
		CurveLifetime:       2.0,
		CurveMinSpeed:       2.0,

		ShotTimeout: 2.5,
		ResetDelay:  1.0,
	}
}

// Window returns the flight-time window for t, falling back to NORMAL.
func (c Config) Window(t ShotType) TimeWindow {
	if w, ok := c.ShotTimes[t]; ok {
		return w
	}
	return c.ShotTimes[ShotNormal]
}

// TargetDepth is the z coordinate aimed at.
func (c Config) TargetDepth() float64 {
	if c.TargetDepthOverride != 0 {
		return c.TargetDepthOverride
	}
	return c.GoalZ
}

// finite reports the first NaN or infinite tuning value by name.
func (c Config) finite() error {
	values := map[string]float64{
		"gravity":                c.Gravity,
		"launch_position.x":      c.LaunchPosition.X,
		"launch_position.y":      c.LaunchPosition.Y,
		"launch_position.z":      c.LaunchPosition.Z,
		"goal_center_x":          c.GoalCenterX,
		"goal_width":             c.GoalWidth,
		"goal_height":            c.GoalHeight,
		"goal_z":                 c.GoalZ,
		"target_depth_override":  c.TargetDepthOverride,
		"target_margin_x":        c.TargetMarginX,
		"ground_margin":          c.GroundMargin,
		"crossbar_margin":        c.CrossbarMargin,
		"max_outward_offset":     c.MaxOutwardOffset,
		"min_outward_nudge":      c.MinOutwardNudge,
		"curve_extra_margin":     c.CurveExtraMargin,
		"pixels_per_world_unit":  c.PixelsPerWorldUnit,
		"min_speed":              c.MinSpeed,
		"max_speed":              c.MaxSpeed,
		"chip_max_speed":         c.ChipMaxSpeed,
		"normal_max_speed":       c.NormalMaxSpeed,
		"curve_threshold":        c.CurveThreshold,
		"curve_normalizer":       c.CurveNormalizer,
		"screen_height":          c.ScreenHeight,
		"height_bias":            c.HeightBias,
		"spin_strength":          c.SpinStrength,
		"backspin_ratio":         c.BackspinRatio,
		"curve_force_scale":      c.CurveForceScale,
		"curve_speed_reference":  c.CurveSpeedReference,
		"curve_max_speed_factor": c.CurveMaxSpeedFactor,
		"curve_decay_window":     c.CurveDecayWindow,
		"curve_lifetime":         c.CurveLifetime,
		"curve_min_speed":        c.CurveMinSpeed,
		"shot_timeout":           c.ShotTimeout,
		"reset_delay":            c.ResetDelay,
	}
	for t, w := range c.ShotTimes {
		values[t.String()+".min"] = w.Min
		values[t.String()+".max"] = w.Max
	}
	for name, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be finite, got %v", name, v)
		}
	}
	return nil
}

// Validate rejects configurations the solver cannot work with.
func (c Config) Validate() error {
	if err := c.finite(); err != nil {
		return err
	}
	if c.Gravity >= 0 {
		return errors.New("gravity must be negative")
	}
	if c.GoalWidth <= 0 || c.GoalHeight <= 0 {
		return errors.New("goal must have positive width and height")
	}
	if 2*c.TargetMarginX >= c.GoalWidth {
		return errors.New("target margin leaves no room inside the goal")
	}
	if c.GroundMargin+c.CrossbarMargin >= c.GoalHeight {
		return errors.New("vertical margins leave no room inside the goal")
	}
	if c.MaxSpeed <= c.MinSpeed {
		return errors.New("max_speed must exceed min_speed")
	}
	if c.CurveNormalizer <= 0 || c.ScreenHeight <= 0 || c.PixelsPerWorldUnit <= 0 {
		return errors.New("normalizers must be positive")
	}
	for _, t := range []ShotType{ShotChip, ShotNormal, ShotPower, ShotCurve} {
		w := c.Window(t)
		if w.Min <= 0 || w.Max < w.Min {
			return fmt.Errorf("invalid flight window for %s: %+v", t, w)
		}
	}
	if c.CurveSpeedReference <= 0 || c.CurveDecayWindow <= 0 {
		return errors.New("curve force references must be positive")
	}
	if c.ShotTimeout <= 0 {
		return errors.New("shot timeout must be positive")
	}
	return nil
}

// Clone returns a copy that does not share the ShotTimes map.
func (c Config) Clone() Config {
	out := c
	out.ShotTimes = make(map[ShotType]TimeWindow, len(c.ShotTimes))
	for k, v := range c.ShotTimes {
		out.ShotTimes[k] = v
	}
	return out
}
