package physics

import "github.com/swipekick/backend/internal/geom"

// Ball is the single dynamic sphere of a shot world.
type Ball struct {
	Radius float64
	Mass   float64

	pos    geom.Vec3
	vel    geom.Vec3
	angVel geom.Vec3
	force  geom.Vec3 // accumulated until the next step
}

// BallState is the serialisable view of a ball used for frames and replays.
type BallState struct {
	Position        geom.Vec3 `json:"position"`
	Velocity        geom.Vec3 `json:"velocity"`
	AngularVelocity geom.Vec3 `json:"angular_velocity"`
}

func NewBall(pos geom.Vec3) *Ball {
	return &Ball{Radius: BallRadius, Mass: BallMass, pos: pos}
}

func (b *Ball) Position() geom.Vec3        { return b.pos }
func (b *Ball) Velocity() geom.Vec3        { return b.vel }
func (b *Ball) AngularVelocity() geom.Vec3 { return b.angVel }

func (b *Ball) SetVelocity(v geom.Vec3)        { b.vel = v }
func (b *Ball) SetAngularVelocity(w geom.Vec3) { b.angVel = w }

// ApplyForce accumulates a force for the next step. The ball is a point mass
// so the application point does not add torque.
func (b *Ball) ApplyForce(force, point geom.Vec3) {
	b.force = b.force.Plus(force)
}

// PendingForce returns the force accumulated since the last step.
func (b *Ball) PendingForce() geom.Vec3 {
	return b.force
}

func (b *Ball) State() BallState {
	return BallState{Position: b.pos, Velocity: b.vel, AngularVelocity: b.angVel}
}

// Place moves the ball and zeroes all motion.
func (b *Ball) Place(pos geom.Vec3) {
	b.pos = pos
	b.vel = geom.Vec3{}
	b.angVel = geom.Vec3{}
	b.force = geom.Vec3{}
}

// IsResting reports whether the ball has effectively stopped.
func (b *Ball) IsResting() bool {
	return b.vel.MagnitudeSquared() < 1e-4
}
