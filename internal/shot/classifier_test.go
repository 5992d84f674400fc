package shot

import (
	"math"
	"testing"
)

func upward(speed float64, interior ...float64) NormalizedSwipeData {
	return NormalizedSwipeData{
		Points:           straightPath(interior...),
		OriginalDistance: 400,
		Speed:            speed,
		Angle:            -math.Pi / 2,
		VerticalDistance: -400,
	}
}

func TestClassifySpeedBands(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		speed float64
		want  ShotType
	}{
		{300, ShotChip},
		{900, ShotChip},
		{901, ShotNormal},
		{1400, ShotNormal},
		{1401, ShotPower},
		{5000, ShotPower},
	}
	for _, tt := range tests {
		got := Classify(upward(tt.speed, 0, 0.01, -0.01), cfg)
		if got.Type != tt.want {
			t.Errorf("speed %.0f: expected %s, got %s", tt.speed, tt.want, got.Type)
		}
		if got.CurveDirection != 0 {
			t.Errorf("speed %.0f: straight swipe should have no curve direction, got %d", tt.speed, got.CurveDirection)
		}
	}
}

func TestClassifyAngleInLowerHalfIsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	for _, deg := range []float64{0, 45, 90, 135, 180} {
		for _, speed := range []float64{600, 1200, 3000} {
			swipe := upward(speed, 0.2, 0.2, 0.2)
			swipe.Angle = deg * math.Pi / 180
			if got := Classify(swipe, cfg); got.Type != ShotInvalid {
				t.Errorf("angle %.0f speed %.0f: expected INVALID, got %s", deg, speed, got.Type)
			}
		}
	}
}

func TestClassifyInvalidStillCarriesParameters(t *testing.T) {
	swipe := upward(1250, 0.12, 0.12, 0.12)
	swipe.Angle = math.Pi / 4
	got := Classify(swipe, DefaultConfig())
	if got.Type != ShotInvalid {
		t.Fatalf("expected INVALID, got %s", got.Type)
	}
	if got.Power != 0.5 || got.CurveAmount == 0 || got.HeightFactor == 0 {
		t.Errorf("INVALID analysis should still compute power/curve/height, got %+v", got)
	}
}

func TestClassifyCurveBeatsSpeed(t *testing.T) {
	cfg := DefaultConfig()

	got := Classify(upward(3000, 0.12, 0.12, 0.12), cfg)
	if got.Type != ShotCurve {
		t.Fatalf("expected CURVE for a fast curved swipe, got %s", got.Type)
	}
	if got.CurveDirection != 1 {
		t.Errorf("expected direction +1 for positive avgY, got %d", got.CurveDirection)
	}
	if !almostEqual(got.CurveAmount, 0.4, 1e-12) {
		t.Errorf("expected curve amount 0.12/0.3 = 0.4, got %.6f", got.CurveAmount)
	}

	got = Classify(upward(1000, -0.1, -0.14, -0.12), cfg)
	if got.Type != ShotCurve || got.CurveDirection != -1 {
		t.Errorf("expected CURVE with direction -1, got %s %d", got.Type, got.CurveDirection)
	}
}

func TestClassifyBelowCurveThreshold(t *testing.T) {
	got := Classify(upward(1000, 0.07, 0.08, 0.06), DefaultConfig())
	if got.Type != ShotNormal {
		t.Errorf("deviation under threshold should fall back to speed bands, got %s", got.Type)
	}
	if got.CurveDirection != 0 {
		t.Errorf("direction should stay 0 below threshold, got %d", got.CurveDirection)
	}
}

func TestClassifyUsesFirstThreeInteriorSamples(t *testing.T) {
	// Samples after index 3 are ignored
	got := Classify(upward(1000, 0, 0, 0, 0.9, 0.9, 0.9), DefaultConfig())
	if got.Type != ShotNormal {
		t.Errorf("expected NORMAL, later samples must not count toward curvature, got %s", got.Type)
	}
}

func TestClassifyTwoPointPathIsStraight(t *testing.T) {
	got := Classify(upward(1000), DefaultConfig())
	if got.Type != ShotNormal || got.CurveAmount != 0 {
		t.Errorf("two-point path should be straight NORMAL, got %s curve=%.3f", got.Type, got.CurveAmount)
	}
}

func TestClassifyPowerAndHeight(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		speed, vertical   float64
		wantPower, wantHt float64
	}{
		{100, 0, 0, 0.30},
		{500, -400, 0, 0.80},
		{1250, -800, 0.5, 1},
		{2000, -200, 1, 0.55},
		{9000, 400, 1, 0},
	}
	for _, tt := range tests {
		swipe := upward(tt.speed)
		swipe.VerticalDistance = tt.vertical
		got := Classify(swipe, cfg)
		if !almostEqual(got.Power, tt.wantPower, 1e-12) {
			t.Errorf("speed %.0f: power expected %.2f, got %.4f", tt.speed, tt.wantPower, got.Power)
		}
		if !almostEqual(got.HeightFactor, tt.wantHt, 1e-12) {
			t.Errorf("vertical %.0f: height expected %.2f, got %.4f", tt.vertical, tt.wantHt, got.HeightFactor)
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	swipe := upward(1333, 0.05, 0.11, 0.09)
	first := Classify(swipe, cfg)
	for i := 0; i < 100; i++ {
		if got := Classify(swipe, cfg); got != first {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}
