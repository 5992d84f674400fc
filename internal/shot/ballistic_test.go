package shot

import (
	"errors"
	"testing"

	"github.com/swipekick/backend/internal/geom"
)

func TestSolveVelocityReferenceShot(t *testing.T) {
	launch := geom.NewVec3(0, 0.15, 0)
	target := geom.NewVec3(0, 1, -6)
	tw := TimeWindow{Min: 0.3, Max: 0.6}

	ft := FlightTime(0.5, tw)
	if !almostEqual(ft, 0.45, 1e-12) {
		t.Fatalf("flight time: expected 0.45, got %.6f", ft)
	}

	v, err := SolveVelocity(launch, target, ft, -18.81)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.X != 0 {
		t.Errorf("vx: expected 0, got %.6f", v.X)
	}
	if !almostEqual(v.Z, -13.3333, 1e-3) {
		t.Errorf("vz: expected -13.333, got %.6f", v.Z)
	}
	// (0.85 + 0.5*18.81*0.2025) / 0.45
	if !almostEqual(v.Y, 6.12117, 1e-4) {
		t.Errorf("vy: expected 6.1212, got %.6f", v.Y)
	}
}

func TestSolveVelocityRoundTrip(t *testing.T) {
	tests := []struct {
		launch, target geom.Vec3
		power          float64
		window         TimeWindow
		gravity        float64
	}{
		{geom.NewVec3(0, 0.15, 0), geom.NewVec3(1.2, 1.6, -6), 0, TimeWindow{0.3, 0.6}, -18.81},
		{geom.NewVec3(0, 0.15, 0), geom.NewVec3(-1.65, 0.25, -6), 1, TimeWindow{0.3, 0.6}, -18.81},
		{geom.NewVec3(0, 0.15, 0), geom.NewVec3(3.1, 1.0, -6), 0.37, TimeWindow{0.4, 0.75}, -18.81},
		{geom.NewVec3(2, 0, 5), geom.NewVec3(-3, 4, -20), 0.8, TimeWindow{1, 2}, -9.81},
		{geom.NewVec3(0, 1, 0), geom.NewVec3(0, 1, 0), 0.5, TimeWindow{0.5, 0.5}, -9.81},
	}
	for i, tt := range tests {
		ft := FlightTime(tt.power, tt.window)
		v, err := SolveVelocity(tt.launch, tt.target, ft, tt.gravity)
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}
		got := PositionAt(tt.launch, v, ft, tt.gravity)
		if !got.ApproxEqual(tt.target, 1e-9) {
			t.Errorf("case %d: trajectory lands at %+v, expected %+v", i, got, tt.target)
		}
	}
}

func TestFlightTimeMonotonic(t *testing.T) {
	w := TimeWindow{Min: 0.3, Max: 0.6}
	prev := FlightTime(0, w)
	if prev != 0.6 {
		t.Errorf("zero power should fly the max time, got %.3f", prev)
	}
	for p := 0.05; p <= 1.0001; p += 0.05 {
		ft := FlightTime(p, w)
		if ft >= prev {
			t.Errorf("power %.2f: flight time %.4f not below %.4f", p, ft, prev)
		}
		prev = ft
	}
	if !almostEqual(FlightTime(1, w), 0.3, 1e-12) {
		t.Errorf("full power should fly the min time, got %.4f", FlightTime(1, w))
	}
}

func TestSolveVelocityRejectsNonPositiveTime(t *testing.T) {
	for _, ft := range []float64{0, -0.1} {
		if _, err := SolveVelocity(geom.Vec3{}, geom.NewVec3(0, 0, -6), ft, -9.81); !errors.Is(err, ErrInvalidFlightTime) {
			t.Errorf("t=%.1f: expected ErrInvalidFlightTime, got %v", ft, err)
		}
	}
}

func TestSolveLaunch(t *testing.T) {
	cfg := DefaultConfig()

	invalid := ShotParameters{Analysis: ShotAnalysis{Type: ShotInvalid, Power: 1}}
	if _, _, err := SolveLaunch(invalid, cfg); !errors.Is(err, ErrInvalidShot) {
		t.Errorf("INVALID analysis: expected ErrInvalidShot, got %v", err)
	}

	// curved shots aim at the offset point and use the longer window
	params := ShotParameters{
		TargetPosition:    geom.NewVec3(0.5, 1, -6),
		AimTargetPosition: geom.NewVec3(1.1, 1, -6),
		Analysis:          ShotAnalysis{Type: ShotCurve, Power: 0},
	}
	v, ft, err := SolveLaunch(params, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ft != 0.75 {
		t.Errorf("curve at zero power should fly 0.75s, got %.3f", ft)
	}
	landing := PositionAt(cfg.LaunchPosition, v, ft, cfg.Gravity)
	if !landing.ApproxEqual(params.AimTargetPosition, 1e-9) {
		t.Errorf("gravity-only flight should land on the aim point, got %+v", landing)
	}
}
