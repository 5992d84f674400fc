package shot

import (
	"fmt"
	"log"
)

// Phase is the shot lifecycle state held by the Controller.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseResolving
	PhaseInFlight
	PhaseResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseResolving:
		return "RESOLVING"
	case PhaseInFlight:
		return "IN_FLIGHT"
	case PhaseResolved:
		return "RESOLVED"
	}
	return "UNKNOWN"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	for _, v := range []Phase{PhaseIdle, PhaseResolving, PhaseInFlight, PhaseResolved} {
		if v.String() == string(b) {
			*p = v
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// Outcome is the single result every launched shot ends with.
type Outcome int

const (
	OutcomeScored Outcome = iota
	OutcomeMiss
)

func (o Outcome) String() string {
	if o == OutcomeScored {
		return "SCORED"
	}
	return "MISS"
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	switch string(b) {
	case "SCORED":
		*o = OutcomeScored
	case "MISS":
		*o = OutcomeMiss
	default:
		return fmt.Errorf("unknown outcome %q", b)
	}
	return nil
}

// OutcomeEvent is emitted once per launched shot.
type OutcomeEvent struct {
	Sequence   int        `json:"sequence"`
	Outcome    Outcome    `json:"outcome"`
	ShotType   ShotType   `json:"shot_type"`
	FlightTime float64    `json:"flight_time"`
	Saved      bool       `json:"saved"`
	SavedBy    string     `json:"saved_by,omitempty"`
	Result     ShotResult `json:"result"`
}

// Controller runs one shot at a time from gesture to outcome.
//
// Idle -> Resolving -> InFlight -> Resolved -> Idle (after ResetDelay).
// INVALID swipes go Resolving -> Idle without launching. Gestures outside Idle
// are dropped. A Controller is not safe for concurrent use.
type Controller struct {
	cfg      Config
	ball     Body
	curve    *CurveForce
	sensorID string

	phase        Phase
	sequence     int
	current      *ShotResult
	flightTime   float64
	resetElapsed float64
	goalCounted  bool
	savedBy      string
}

// NewController binds the pipeline to a ball body and the goal sensor that
// declares a score.
func NewController(cfg Config, ball Body, goalSensorID string) *Controller {
	return &Controller{
		cfg:      cfg,
		ball:     ball,
		curve:    NewCurveForce(cfg),
		sensorID: goalSensorID,
	}
}

func (c *Controller) Phase() Phase {
	return c.phase
}

// Current returns the shot in flight or awaiting reset, if any.
func (c *Controller) Current() *ShotResult {
	return c.current
}

// FlightTime returns seconds since launch of the current shot.
func (c *Controller) FlightTime() float64 {
	return c.flightTime
}

// CurveActive reports whether the curve force is still bending the ball.
func (c *Controller) CurveActive() bool {
	return c.curve.Active()
}

// HandleSwipe resolves a released gesture and launches the ball when it
// describes a shot. It returns ErrShotInProgress without doing any work while
// a previous shot is unsettled.
func (c *Controller) HandleSwipe(swipe SwipeData) (*ShotAttempt, error) {
	if c.phase != PhaseIdle {
		return nil, ErrShotInProgress
	}

	c.phase = PhaseResolving
	attempt, err := Resolve(swipe, c.cfg)
	if err != nil {
		c.phase = PhaseIdle
		return attempt, err
	}

	c.sequence++
	attempt.Sequence = c.sequence
	c.launch(attempt)
	return attempt, nil
}

func (c *Controller) launch(attempt *ShotAttempt) {
	res := attempt.Result
	c.ball.SetVelocity(res.Velocity)
	c.ball.SetAngularVelocity(res.AngularVelocity)

	// a non-curve start clears any stale window
	analysis := attempt.Analysis
	if analysis.Type == ShotCurve {
		analysis.CurveDirection = BendDirection(attempt.Parameters)
	}
	c.curve.Start(analysis)

	c.current = res
	c.flightTime = 0
	c.resetElapsed = 0
	c.goalCounted = false
	c.savedBy = ""
	c.phase = PhaseInFlight

	if res.ShotType == ShotCurve {
		log.Printf("[SHOT] #%d launched %s", c.sequence, FormatAnalysis(attempt.Analysis))
	}
}

// Step advances timers by one physics sub-step. It applies the curve force
// while in flight and declares a miss once the shot timeout elapses.
func (c *Controller) Step(dt float64) *OutcomeEvent {
	switch c.phase {
	case PhaseInFlight:
		c.curve.Update(dt, c.ball)
		c.flightTime += dt
		if c.flightTime >= c.cfg.ShotTimeout {
			return c.resolve(OutcomeMiss)
		}
	case PhaseResolved:
		c.resetElapsed += dt
		if c.resetElapsed >= c.cfg.ResetDelay {
			c.phase = PhaseIdle
		}
	}
	return nil
}

// OnSensorContact handles a ball contact with a trigger volume. Only the goal
// sensor counts, only while in flight, and only once per shot.
func (c *Controller) OnSensorContact(bodyID string) *OutcomeEvent {
	if c.phase != PhaseInFlight || c.goalCounted || bodyID != c.sensorID {
		return nil
	}
	c.goalCounted = true
	return c.resolve(OutcomeScored)
}

// OnObstacleContact records that the ball touched a solid obstacle mid-flight.
func (c *Controller) OnObstacleContact(bodyID string) {
	if c.phase != PhaseInFlight || c.savedBy != "" {
		return
	}
	c.savedBy = bodyID
}

// Reset drops any shot in progress and returns to Idle immediately.
func (c *Controller) Reset() {
	c.curve.Stop()
	c.phase = PhaseIdle
	c.current = nil
	c.flightTime = 0
	c.resetElapsed = 0
	c.goalCounted = false
	c.savedBy = ""
}

func (c *Controller) resolve(outcome Outcome) *OutcomeEvent {
	c.curve.Stop()
	c.phase = PhaseResolved
	c.resetElapsed = 0

	ev := &OutcomeEvent{
		Sequence:   c.sequence,
		Outcome:    outcome,
		FlightTime: c.flightTime,
		Saved:      c.savedBy != "" && outcome == OutcomeMiss,
	}
	if ev.Saved {
		ev.SavedBy = c.savedBy
	}
	if c.current != nil {
		ev.ShotType = c.current.ShotType
		ev.Result = *c.current
	}
	return ev
}
