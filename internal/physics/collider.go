package physics

import (
	"math"

	"github.com/swipekick/backend/internal/geom"
)

// Kind distinguishes trigger volumes from colliders the ball bounces off.
type Kind int

const (
	KindSolid Kind = iota
	KindSensor
)

func (k Kind) String() string {
	if k == KindSensor {
		return "sensor"
	}
	return "solid"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Box is an axis-aligned static collider.
type Box struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Min         geom.Vec3 `json:"min"`
	Max         geom.Vec3 `json:"max"`
	Restitution float64   `json:"restitution"`
}

// NewBox builds a box from any two opposite corners.
func NewBox(id string, kind Kind, a, b geom.Vec3, restitution float64) *Box {
	return &Box{
		ID:          id,
		Kind:        kind,
		Min:         geom.NewVec3(math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)),
		Max:         geom.NewVec3(math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)),
		Restitution: restitution,
	}
}

// Contains reports whether p lies inside the box.
func (b *Box) Contains(p geom.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// ClosestPoint clamps p onto the box.
func (b *Box) ClosestPoint(p geom.Vec3) geom.Vec3 {
	return geom.NewVec3(
		geom.Clamp(p.X, b.Min.X, b.Max.X),
		geom.Clamp(p.Y, b.Min.Y, b.Max.Y),
		geom.Clamp(p.Z, b.Min.Z, b.Max.Z),
	)
}

// penetration returns the push-out normal and depth of a sphere overlapping the
// box, or ok=false when they do not touch.
func (b *Box) penetration(center geom.Vec3, radius float64) (normal geom.Vec3, depth float64, ok bool) {
	closest := b.ClosestPoint(center)
	delta := center.Minus(closest)
	distSq := delta.MagnitudeSquared()
	if distSq > radius*radius {
		return geom.Vec3{}, 0, false
	}
	if distSq > 1e-12 {
		dist := math.Sqrt(distSq)
		return delta.Times(1 / dist), radius - dist, true
	}

	// centre inside the box: leave through the nearest face
	faces := []struct {
		n geom.Vec3
		d float64
	}{
		{geom.NewVec3(-1, 0, 0), center.X - b.Min.X},
		{geom.NewVec3(1, 0, 0), b.Max.X - center.X},
		{geom.NewVec3(0, -1, 0), center.Y - b.Min.Y},
		{geom.NewVec3(0, 1, 0), b.Max.Y - center.Y},
		{geom.NewVec3(0, 0, -1), center.Z - b.Min.Z},
		{geom.NewVec3(0, 0, 1), b.Max.Z - center.Z},
	}
	best := faces[0]
	for _, f := range faces[1:] {
		if f.d < best.d {
			best = f
		}
	}
	return best.n, best.d + radius, true
}
