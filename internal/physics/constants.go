package physics

// Ball and surface constants, SI units.
const (
	BallRadius = 0.11
	BallMass   = 0.43

	GroundRestitution = 0.55
	GroundFriction    = 1.2 // per second, horizontal speed lost while rolling
	AngularDamping    = 0.4 // per second
	MinBounceSpeed    = 0.3

	PostThickness = 0.12
	NetDepth      = 0.9

	DefaultSubsteps = 4
)

// Collider identifiers reported in contacts.
const (
	GoalSensorID = "goal_sensor"
	LeftPostID   = "left_post"
	RightPostID  = "right_post"
	CrossbarID   = "crossbar"
	BackNetID    = "back_net"
	KeeperID     = "keeper"
)
