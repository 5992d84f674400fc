package shot

import (
	"testing"

	"github.com/swipekick/backend/internal/geom"
)

func TestResolveSpinOnlyForCurves(t *testing.T) {
	cfg := DefaultConfig()
	for _, typ := range []ShotType{ShotInvalid, ShotChip, ShotNormal, ShotPower} {
		params := ShotParameters{Analysis: ShotAnalysis{Type: typ, CurveAmount: 1, CurveDirection: 1}}
		if w := ResolveSpin(params, geom.NewVec3(0, 5, -13), cfg); !w.IsZero() {
			t.Errorf("%s: expected no spin, got %+v", typ, w)
		}
	}
}

func TestResolveSpinCurve(t *testing.T) {
	cfg := DefaultConfig()
	params := ShotParameters{Analysis: ShotAnalysis{Type: ShotCurve, CurveAmount: 0.5, CurveDirection: 1}}

	w := ResolveSpin(params, geom.NewVec3(0, 5, -13), cfg)
	if !almostEqual(w.Y, -6, 1e-12) {
		t.Errorf("yaw: expected -dir*12*0.5 = -6, got %.4f", w.Y)
	}
	if !almostEqual(w.X, 3.6, 1e-12) {
		t.Errorf("backspin: expected 12*0.3 = 3.6, got %.4f", w.X)
	}
	if w.Z != 0 {
		t.Errorf("no roll expected, got %.4f", w.Z)
	}

	params.Analysis.CurveDirection = -1
	mirror := ResolveSpin(params, geom.Vec3{}, cfg)
	if mirror.Y != -w.Y || mirror.X != w.X {
		t.Errorf("flipping direction should flip yaw only: %+v vs %+v", mirror, w)
	}
}
