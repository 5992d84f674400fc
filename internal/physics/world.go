package physics

import (
	"math"

	"github.com/swipekick/backend/internal/geom"
	"github.com/swipekick/backend/internal/shot"
)

// Contact records the ball touching a collider during one step.
type Contact struct {
	BodyID string  `json:"body_id"`
	Kind   Kind    `json:"kind"`
	Speed  float64 `json:"speed"` // ball speed at impact
}

// World is a fixed-timestep simulation of one ball among static colliders
// standing on a ground plane at y=0.
type World struct {
	Gravity   float64
	Ball      *Ball
	Colliders []*Box
	Time      float64
}

func NewWorld(gravity float64, ballPos geom.Vec3) *World {
	return &World{
		Gravity: gravity,
		Ball:    NewBall(ballPos),
	}
}

func (w *World) AddCollider(b *Box) {
	w.Colliders = append(w.Colliders, b)
}

// Collider returns the collider with the given id, or nil.
func (w *World) Collider(id string) *Box {
	for _, c := range w.Colliders {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// ResetBall places the ball at pos with no motion.
func (w *World) ResetBall(pos geom.Vec3) {
	w.Ball.Place(pos)
}

// Step advances the world by dt using semi-implicit Euler and returns every
// collider the ball touched during the step. A sensor is touched while the ball
// centre is inside it.
func (w *World) Step(dt float64) []Contact {
	b := w.Ball
	w.Time += dt

	accel := b.force.Times(1 / b.Mass)
	accel.Y += w.Gravity
	b.vel = b.vel.Plus(accel.Times(dt))
	b.pos = b.pos.Plus(b.vel.Times(dt))
	b.angVel = b.angVel.Times(math.Max(0, 1-AngularDamping*dt))
	b.force = geom.Vec3{}

	w.collideGround(dt)

	var contacts []Contact
	for _, c := range w.Colliders {
		if c.Kind == KindSensor {
			if c.Contains(b.pos) {
				contacts = append(contacts, Contact{BodyID: c.ID, Kind: KindSensor, Speed: b.vel.Magnitude()})
			}
			continue
		}

		n, depth, ok := c.penetration(b.pos, b.Radius)
		if !ok {
			continue
		}
		speed := b.vel.Magnitude()
		b.pos = b.pos.Plus(n.Times(depth))
		if vn := b.vel.Dot(n); vn < 0 {
			b.vel = b.vel.Minus(n.Times((1 + c.Restitution) * vn))
		}
		contacts = append(contacts, Contact{BodyID: c.ID, Kind: KindSolid, Speed: speed})
	}
	return contacts
}

func (w *World) collideGround(dt float64) {
	b := w.Ball
	if b.pos.Y > b.Radius {
		return
	}
	b.pos.Y = b.Radius
	if b.vel.Y < 0 {
		b.vel.Y = -b.vel.Y * GroundRestitution
		if b.vel.Y < MinBounceSpeed {
			b.vel.Y = 0
		}
	}
	if b.vel.Y == 0 {
		keep := math.Max(0, 1-GroundFriction*dt)
		b.vel.X *= keep
		b.vel.Z *= keep
	}
}

// NewGoalWorld builds the goal described by cfg: a sensor volume just behind
// the goal line, two posts, a crossbar and a back net. The ball rests on the
// launch point.
func NewGoalWorld(cfg shot.Config) *World {
	w := NewWorld(cfg.Gravity, cfg.LaunchPosition)

	half := cfg.GoalWidth / 2
	left := cfg.GoalCenterX - half
	right := cfg.GoalCenterX + half
	line := cfg.GoalZ

	// +1 when the goal lies towards +z from the launch point
	away := geom.Sign(cfg.GoalZ - cfg.LaunchPosition.Z)
	if away == 0 {
		away = -1
	}
	behind := func(d float64) float64 { return line + away*d }

	// the whole ball must cross the line
	w.AddCollider(NewBox(GoalSensorID, KindSensor,
		geom.NewVec3(left, 0, behind(BallRadius)),
		geom.NewVec3(right, cfg.GoalHeight, behind(NetDepth)),
		0))

	t := PostThickness
	w.AddCollider(NewBox(LeftPostID, KindSolid,
		geom.NewVec3(left-t, 0, line-t/2),
		geom.NewVec3(left, cfg.GoalHeight+t, line+t/2),
		0.6))
	w.AddCollider(NewBox(RightPostID, KindSolid,
		geom.NewVec3(right, 0, line-t/2),
		geom.NewVec3(right+t, cfg.GoalHeight+t, line+t/2),
		0.6))
	w.AddCollider(NewBox(CrossbarID, KindSolid,
		geom.NewVec3(left, cfg.GoalHeight, line-t/2),
		geom.NewVec3(right, cfg.GoalHeight+t, line+t/2),
		0.6))
	w.AddCollider(NewBox(BackNetID, KindSolid,
		geom.NewVec3(left-t, 0, behind(NetDepth)),
		geom.NewVec3(right+t, cfg.GoalHeight+t, behind(NetDepth+t)),
		0.1))
	return w
}

// AddKeeper places a static blocking box centred at center in front of the line.
func (w *World) AddKeeper(center, size geom.Vec3) {
	h := size.Times(0.5)
	w.AddCollider(NewBox(KeeperID, KindSolid, center.Minus(h), center.Plus(h), 0.3))
}
