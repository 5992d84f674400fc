package game

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/swipekick/backend/internal/geom"
	"github.com/swipekick/backend/internal/physics"
	"github.com/swipekick/backend/internal/shot"
)

// SessionOptions controls the simulation and scoring rules of a session.
type SessionOptions struct {
	MaxFails     int
	SimulationHz int
	Substeps     int // physics steps per simulation tick
	SampleEvery  int // physics steps between trajectory samples
	Keeper       bool
}

func (o SessionOptions) withDefaults() SessionOptions {
	if o.MaxFails <= 0 {
		o.MaxFails = 3
	}
	if o.SimulationHz <= 0 {
		o.SimulationHz = 60
	}
	if o.Substeps <= 0 {
		o.Substeps = physics.DefaultSubsteps
	}
	if o.SampleEvery <= 0 {
		o.SampleEvery = 8
	}
	return o
}

// Session is one player's run of shots. It owns a controller and a physics
// world and serialises every access to them.
type Session struct {
	ID         int // game_sessions row, 0 without a database
	Token      string
	PlayerID   int
	PlayerName string

	Status           SessionStatus
	Score            int
	Attempts         int
	ConsecutiveFails int
	MaxFails         int
	Streak           int
	BestStreak       int
	AwaitingContinue bool
	History          []ShotSummary

	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
	LastActivity time.Time

	cfg         shot.Config
	world       *physics.World
	controller  *shot.Controller
	stepDT      float64
	substeps    int
	sampleEvery int

	pending    *shot.ShotAttempt
	trajectory []TrajectoryPoint
	flightStep int

	mu sync.Mutex
}

// NewSession builds a session with its own goal world.
func NewSession(token string, playerID int, playerName string, cfg shot.Config, opts SessionOptions) *Session {
	opts = opts.withDefaults()

	world := physics.NewGoalWorld(cfg)
	if opts.Keeper {
		world.AddKeeper(keeperCenter(cfg), geom.NewVec3(1.2, 2, 0.3))
	}

	now := time.Now()
	return &Session{
		Token:        token,
		PlayerID:     playerID,
		PlayerName:   playerName,
		Status:       StatusActive,
		MaxFails:     opts.MaxFails,
		History:      []ShotSummary{},
		CreatedAt:    now,
		LastActivity: now,
		cfg:          cfg,
		world:        world,
		controller:   shot.NewController(cfg, world.Ball, physics.GoalSensorID),
		stepDT:       1 / float64(opts.SimulationHz*opts.Substeps),
		substeps:     opts.Substeps,
		sampleEvery:  opts.SampleEvery,
	}
}

// keeperCenter stands the keeper half a metre off the goal line.
func keeperCenter(cfg shot.Config) geom.Vec3 {
	toward := geom.Sign(cfg.LaunchPosition.Z - cfg.GoalZ)
	if toward == 0 {
		toward = 1
	}
	return geom.NewVec3(cfg.GoalCenterX, 1, cfg.GoalZ+toward*0.5)
}

// Config returns the pipeline configuration the session was built with.
func (s *Session) Config() shot.Config {
	return s.cfg
}

// Phase returns the controller phase.
func (s *Session) Phase() shot.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.Phase()
}

// Busy reports whether the session has a shot that still needs stepping.
func (s *Session) Busy() bool {
	return s.Phase() != shot.PhaseIdle
}

// TakeShot launches a shot from swipe. Simulation happens in Advance or
// ResolveNow.
func (s *Session) TakeShot(swipe shot.SwipeData) (*shot.ShotAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.takeShot(swipe)
}

func (s *Session) takeShot(swipe shot.SwipeData) (*shot.ShotAttempt, error) {
	if s.Status != StatusActive {
		return nil, ErrSessionOver
	}
	if s.AwaitingContinue {
		return nil, ErrAwaitingContinue
	}

	attempt, err := s.controller.HandleSwipe(swipe)
	if errors.Is(err, shot.ErrShotInProgress) {
		return nil, err
	}
	s.LastActivity = time.Now()
	if err != nil {
		return attempt, err
	}

	s.Attempts++
	s.pending = attempt
	s.flightStep = 0
	s.trajectory = []TrajectoryPoint{{T: 0, Position: s.world.Ball.Position()}}
	return attempt, nil
}

// Advance runs one simulation tick. It returns nil when the session is idle.
func (s *Session) Advance() (*Frame, *ResolvedShot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.controller.Phase() == shot.PhaseIdle {
		return nil, nil
	}

	var resolved *ResolvedShot
	for i := 0; i < s.substeps; i++ {
		if r := s.stepOnce(); r != nil {
			resolved = r
		}
		if s.controller.Phase() == shot.PhaseIdle {
			break
		}
	}
	return s.frame(), resolved
}

// ResolveNow steps the current shot to its outcome and until the ball has
// been reset for the next shot.
func (s *Session) ResolveNow() (*ResolvedShot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveNow()
}

func (s *Session) resolveNow() (*ResolvedShot, error) {
	if s.pending == nil {
		return nil, ErrNoShotInFlight
	}

	// timeout plus reset delay bounds every shot
	limit := maxResolveSteps(s.cfg.ShotTimeout+s.cfg.ResetDelay, s.stepDT) + s.substeps
	var resolved *ResolvedShot
	for i := 0; i < limit && s.controller.Phase() != shot.PhaseIdle; i++ {
		if r := s.stepOnce(); r != nil {
			resolved = r
		}
	}
	if resolved == nil {
		err := fmt.Errorf("%w: shot #%d still %s after %.2fs",
			ErrShotUnresolved, s.pending.Sequence, s.controller.Phase(), s.controller.FlightTime())
		// drop it so the session can take the next swipe
		s.pending = nil
		s.trajectory = nil
		s.controller.Reset()
		s.world.ResetBall(s.cfg.LaunchPosition)
		return nil, err
	}
	return resolved, nil
}

// maxResolveSeconds caps a synchronous resolve whatever the timeouts say.
const maxResolveSeconds = 60

func maxResolveSteps(seconds, stepDT float64) int {
	if !(seconds > 0) || seconds > maxResolveSeconds {
		seconds = maxResolveSeconds
	}
	return int(math.Ceil(seconds / stepDT))
}

// Shoot launches and resolves a shot in one call.
func (s *Session) Shoot(swipe shot.SwipeData) (*shot.ShotAttempt, *ResolvedShot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, err := s.takeShot(swipe)
	if err != nil {
		return attempt, nil, err
	}
	resolved, err := s.resolveNow()
	return attempt, resolved, err
}

// Continue dismisses the miss prompt. Consecutive fails are kept.
func (s *Session) Continue() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Status != StatusActive {
		return ErrSessionOver
	}
	s.AwaitingContinue = false
	s.LastActivity = time.Now()
	return nil
}

// Finish ends the session with status. It is a no-op on a finished session.
func (s *Session) Finish(status SessionStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Status != StatusActive {
		return false
	}
	now := time.Now()
	s.Status = status
	s.CompletedAt = &now
	s.AwaitingContinue = false
	s.pending = nil
	s.controller.Reset()
	s.world.ResetBall(s.cfg.LaunchPosition)
	return true
}

// MarkStarted records when the first frame of the session was served.
func (s *Session) MarkStarted(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.StartedAt == nil {
		s.StartedAt = &at
	}
}

// Touch records player activity.
func (s *Session) Touch() {
	s.mu.Lock()
	s.LastActivity = time.Now()
	s.mu.Unlock()
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]ShotSummary, len(s.History))
	copy(history, s.History)
	return SessionSnapshot{
		ID:               s.ID,
		Token:            s.Token,
		PlayerID:         s.PlayerID,
		PlayerName:       s.PlayerName,
		Status:           s.Status,
		Phase:            s.controller.Phase(),
		Score:            s.Score,
		Attempts:         s.Attempts,
		ConsecutiveFails: s.ConsecutiveFails,
		MaxFails:         s.MaxFails,
		Streak:           s.Streak,
		BestStreak:       s.BestStreak,
		AwaitingContinue: s.AwaitingContinue,
		History:          history,
		CreatedAt:        s.CreatedAt,
		StartedAt:        s.StartedAt,
		CompletedAt:      s.CompletedAt,
		LastActivity:     s.LastActivity,
	}
}

// stepOnce advances the world and controller by one physics step. The world
// only moves while a shot is in flight or settling.
func (s *Session) stepOnce() *ResolvedShot {
	before := s.controller.Phase()
	if before == shot.PhaseIdle {
		return nil
	}

	var ev *shot.OutcomeEvent
	for _, c := range s.world.Step(s.stepDT) {
		if c.Kind == physics.KindSensor {
			if e := s.controller.OnSensorContact(c.BodyID); e != nil {
				ev = e
			}
			continue
		}
		s.controller.OnObstacleContact(c.BodyID)
	}
	if e := s.controller.Step(s.stepDT); e != nil && ev == nil {
		ev = e
	}

	if before == shot.PhaseInFlight {
		s.flightStep++
		if ev != nil || s.flightStep%s.sampleEvery == 0 {
			s.trajectory = append(s.trajectory, TrajectoryPoint{
				T:        float64(s.flightStep) * s.stepDT,
				Position: s.world.Ball.Position(),
			})
		}
	}

	if before == shot.PhaseResolved && s.controller.Phase() == shot.PhaseIdle {
		s.world.ResetBall(s.cfg.LaunchPosition)
	}

	if ev == nil {
		return nil
	}
	return s.applyOutcome(ev)
}

func (s *Session) applyOutcome(ev *shot.OutcomeEvent) *ResolvedShot {
	if ev.Outcome == shot.OutcomeScored {
		s.Score++
		s.Streak++
		if s.Streak > s.BestStreak {
			s.BestStreak = s.Streak
		}
		s.ConsecutiveFails = 0
	} else {
		s.Streak = 0
		s.ConsecutiveFails++
		if s.ConsecutiveFails >= s.MaxFails {
			now := time.Now()
			s.Status = StatusGameOver
			s.CompletedAt = &now
		} else {
			s.AwaitingContinue = true
		}
	}

	s.History = append(s.History, ShotSummary{
		Sequence:   ev.Sequence,
		ShotType:   ev.ShotType,
		Outcome:    ev.Outcome,
		Saved:      ev.Saved,
		SavedBy:    ev.SavedBy,
		FlightTime: ev.FlightTime,
	})

	resolved := &ResolvedShot{
		Attempt:          s.pending,
		Outcome:          *ev,
		Trajectory:       s.trajectory,
		Score:            s.Score,
		ConsecutiveFails: s.ConsecutiveFails,
		GameOver:         s.Status == StatusGameOver,
	}
	s.pending = nil
	s.trajectory = nil
	return resolved
}

func (s *Session) frame() *Frame {
	f := &Frame{
		Token:       s.Token,
		Phase:       s.controller.Phase(),
		Time:        s.controller.FlightTime(),
		Ball:        s.world.Ball.State(),
		CurveActive: s.controller.CurveActive(),
	}
	if s.pending != nil {
		f.Sequence = s.pending.Sequence
	} else if n := len(s.History); n > 0 {
		f.Sequence = s.History[n-1].Sequence
	}
	return f
}
