package game

import (
	"errors"
	"math"
	"testing"

	"github.com/swipekick/backend/internal/physics"
	"github.com/swipekick/backend/internal/shot"
)

// swipeUp is a 400px upward swipe drifting dx px sideways, bowed by bulge px.
func swipeUp(dx, bulge, durationMs float64) shot.SwipeData {
	n := 10
	pts := make([]shot.SwipePoint, n)
	for i := range pts {
		f := float64(i) / float64(n-1)
		bow := 0.0
		if i > 0 && i < n-1 {
			bow = bulge * math.Sin(math.Pi*f)
		}
		pts[i] = shot.SwipePoint{X: 400 + dx*f + bow, Y: 700 - 400*f, Timestamp: durationMs * f}
	}
	return shot.SwipeData{Points: pts, Duration: durationMs}
}

var (
	centreShot = swipeUp(0, 0, 320)    // straight at the keeper
	leftShot   = swipeUp(-150, 0, 320) // clear of the keeper
)

func newTestSession(opts SessionOptions) *Session {
	return NewSession("tok", 7, "tester", shot.DefaultConfig(), opts)
}

func TestShootScores(t *testing.T) {
	s := newTestSession(SessionOptions{})
	cfg := s.Config()

	attempt, res, err := s.Shoot(centreShot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempt.Sequence != 1 || attempt.Result == nil {
		t.Errorf("expected a launched first attempt, got %+v", attempt)
	}
	if res.Outcome.Outcome != shot.OutcomeScored {
		t.Fatalf("expected SCORED, got %s", res.Outcome.Outcome)
	}
	if s.Score != 1 || s.Attempts != 1 || s.ConsecutiveFails != 0 || s.Streak != 1 {
		t.Errorf("unexpected counters: score=%d attempts=%d fails=%d streak=%d", s.Score, s.Attempts, s.ConsecutiveFails, s.Streak)
	}
	if s.AwaitingContinue {
		t.Error("a goal should not wait for continue")
	}
	if len(res.Trajectory) < 2 {
		t.Fatalf("expected a sampled trajectory, got %d points", len(res.Trajectory))
	}
	if last := res.Trajectory[len(res.Trajectory)-1]; last.Position.Z >= cfg.GoalZ {
		t.Errorf("last sample should be past the goal line, z=%.3f", last.Position.Z)
	}
	if s.Phase() != shot.PhaseIdle {
		t.Errorf("session should be idle after ResolveNow, got %s", s.Phase())
	}
	if !s.world.Ball.Position().ApproxEqual(cfg.LaunchPosition, 1e-9) || !s.world.Ball.Velocity().IsZero() {
		t.Errorf("ball should be back on the spot, at %+v", s.world.Ball.Position())
	}
}

func TestSavedShotWaitsForContinue(t *testing.T) {
	s := newTestSession(SessionOptions{Keeper: true})

	_, res, err := s.Shoot(centreShot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome.Outcome != shot.OutcomeMiss || !res.Outcome.Saved || res.Outcome.SavedBy != physics.KeeperID {
		t.Fatalf("expected a keeper save, got %+v", res.Outcome)
	}
	if !s.AwaitingContinue || s.ConsecutiveFails != 1 || res.GameOver {
		t.Errorf("miss should prompt continue: awaiting=%v fails=%d", s.AwaitingContinue, s.ConsecutiveFails)
	}

	if _, _, err := s.Shoot(leftShot); !errors.Is(err, ErrAwaitingContinue) {
		t.Errorf("expected ErrAwaitingContinue, got %v", err)
	}
	if s.Attempts != 1 {
		t.Errorf("blocked swipe must not count, attempts=%d", s.Attempts)
	}

	if err := s.Continue(); err != nil {
		t.Fatalf("continue failed: %v", err)
	}
	if s.ConsecutiveFails != 1 {
		t.Errorf("continue keeps the fail count, got %d", s.ConsecutiveFails)
	}

	_, res, err = s.Shoot(leftShot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome.Outcome != shot.OutcomeScored {
		t.Fatalf("shot wide of the keeper should score, got %s", res.Outcome.Outcome)
	}
	if s.ConsecutiveFails != 0 || s.Score != 1 || res.Outcome.Sequence != 2 {
		t.Errorf("goal should clear fails: fails=%d score=%d seq=%d", s.ConsecutiveFails, s.Score, res.Outcome.Sequence)
	}
}

func TestGameOverAfterMaxFails(t *testing.T) {
	s := newTestSession(SessionOptions{Keeper: true, MaxFails: 2})

	if _, res, _ := s.Shoot(centreShot); res == nil || res.GameOver {
		t.Fatal("first miss should not end the session")
	}
	if err := s.Continue(); err != nil {
		t.Fatalf("continue failed: %v", err)
	}
	_, res, err := s.Shoot(centreShot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.GameOver || s.Status != StatusGameOver || s.CompletedAt == nil {
		t.Fatalf("second consecutive miss should end the session, status=%s", s.Status)
	}
	if s.AwaitingContinue {
		t.Error("game over does not prompt continue")
	}

	if _, _, err := s.Shoot(leftShot); !errors.Is(err, ErrSessionOver) {
		t.Errorf("expected ErrSessionOver, got %v", err)
	}
	if err := s.Continue(); !errors.Is(err, ErrSessionOver) {
		t.Errorf("continue after game over should fail, got %v", err)
	}
	if len(s.History) != 2 || s.History[1].Outcome != shot.OutcomeMiss {
		t.Errorf("expected two misses in history, got %+v", s.History)
	}
}

func TestInvalidSwipeIsNotAnAttempt(t *testing.T) {
	s := newTestSession(SessionOptions{})

	down := swipeUp(0, 0, 320)
	for i := range down.Points {
		down.Points[i].Y = 300 + 400*float64(i)/9
	}
	attempt, _, err := s.Shoot(down)
	if !errors.Is(err, shot.ErrInvalidShot) {
		t.Fatalf("expected ErrInvalidShot, got %v", err)
	}
	if attempt == nil || attempt.Analysis.Type != shot.ShotInvalid || attempt.Result != nil {
		t.Errorf("invalid attempt should carry its analysis only, got %+v", attempt)
	}

	if _, _, err := s.Shoot(shot.SwipeData{Points: []shot.SwipePoint{{X: 1, Y: 1}}}); !errors.Is(err, shot.ErrInsufficientInput) {
		t.Errorf("expected ErrInsufficientInput, got %v", err)
	}
	if s.Attempts != 0 || s.Phase() != shot.PhaseIdle {
		t.Errorf("nothing should have launched: attempts=%d phase=%s", s.Attempts, s.Phase())
	}
}

func TestSwipeDroppedWhileInFlight(t *testing.T) {
	s := newTestSession(SessionOptions{})

	if _, err := s.TakeShot(centreShot); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.TakeShot(leftShot); !errors.Is(err, shot.ErrShotInProgress) {
		t.Errorf("expected ErrShotInProgress, got %v", err)
	}
	if s.Attempts != 1 {
		t.Errorf("dropped swipe must not count, attempts=%d", s.Attempts)
	}
}

func TestAdvanceStreamsUntilIdle(t *testing.T) {
	s := newTestSession(SessionOptions{SimulationHz: 60, Substeps: 4})

	if f, r := s.Advance(); f != nil || r != nil {
		t.Fatal("idle session should not produce frames")
	}
	if _, err := s.TakeShot(leftShot); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resolved *ResolvedShot
	frames := 0
	for i := 0; i < 600; i++ {
		f, r := s.Advance()
		if f == nil {
			break
		}
		frames++
		if f.Sequence != 1 {
			t.Fatalf("frame carries sequence %d", f.Sequence)
		}
		if r != nil {
			if resolved != nil {
				t.Fatal("outcome reported twice")
			}
			resolved = r
		}
	}

	if resolved == nil || resolved.Outcome.Outcome != shot.OutcomeScored {
		t.Fatalf("expected a scored outcome, got %+v", resolved)
	}
	// flight is well under a second, reset takes one second at 60 Hz
	if frames < 60 || frames > 150 {
		t.Errorf("unexpected frame count %d", frames)
	}
	if s.Phase() != shot.PhaseIdle {
		t.Errorf("expected idle after streaming, got %s", s.Phase())
	}
}

func TestResolveNowWithoutShot(t *testing.T) {
	s := newTestSession(SessionOptions{})
	if _, err := s.ResolveNow(); !errors.Is(err, ErrNoShotInFlight) {
		t.Errorf("expected ErrNoShotInFlight, got %v", err)
	}
}

func TestStuckShotReportsUnresolved(t *testing.T) {
	cfg := shot.DefaultConfig()
	cfg.ShotTimeout = math.NaN() // never times out
	s := NewSession("tok", 7, "tester", cfg, SessionOptions{Keeper: true})

	attempt, res, err := s.Shoot(centreShot)
	if !errors.Is(err, ErrShotUnresolved) {
		t.Fatalf("expected ErrShotUnresolved, got %v", err)
	}
	if errors.Is(err, ErrNoShotInFlight) {
		t.Error("a launched shot is in flight")
	}
	if attempt == nil || res != nil {
		t.Errorf("expected the launched attempt without a result, got %+v %+v", attempt, res)
	}
	if s.Phase() != shot.PhaseIdle {
		t.Errorf("stuck shot should be dropped, got %s", s.Phase())
	}

	_, res, err = s.Shoot(leftShot)
	if err != nil {
		t.Fatalf("next swipe should be accepted, got %v", err)
	}
	if res.Outcome.Outcome != shot.OutcomeScored {
		t.Errorf("expected a goal, got %s", res.Outcome.Outcome)
	}
}

func TestMaxResolveSteps(t *testing.T) {
	dt := 0.25
	capped := maxResolveSeconds * 4
	tests := []struct {
		name    string
		seconds float64
		want    int
	}{
		{"normal", 3.5, 14},
		{"zero", 0, capped},
		{"negative", -1, capped},
		{"nan", math.NaN(), capped},
		{"inf", math.Inf(1), capped},
		{"huge", 1e9, capped},
	}
	for _, tt := range tests {
		if got := maxResolveSteps(tt.seconds, dt); got != tt.want {
			t.Errorf("%s: maxResolveSteps(%v) = %d, want %d", tt.name, tt.seconds, got, tt.want)
		}
	}
}

func TestFinishIsOnce(t *testing.T) {
	s := newTestSession(SessionOptions{})
	if _, err := s.TakeShot(centreShot); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Finish(StatusExpired) {
		t.Fatal("first finish should apply")
	}
	if s.Finish(StatusGameOver) || s.Status != StatusExpired {
		t.Errorf("second finish must not change status, got %s", s.Status)
	}
	if s.Phase() != shot.PhaseIdle {
		t.Errorf("finish should drop the shot in flight, got %s", s.Phase())
	}
}
