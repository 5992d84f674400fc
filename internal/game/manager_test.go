package game

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/swipekick/backend/internal/config"
	"github.com/swipekick/backend/internal/shot"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *recordingNotifier) NotifySession(token, msgType string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msgType)
}

func (n *recordingNotifier) count(msgType string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, m := range n.msgs {
		if m == msgType {
			c++
		}
	}
	return c
}

func newTestManager(t *testing.T, mutate func(*config.Config)) (*GameManager, *recordingNotifier) {
	t.Helper()
	cfg := config.Load()
	if mutate != nil {
		mutate(cfg)
	}
	gm := NewGameManager(nil, nil, cfg)
	n := &recordingNotifier{}
	gm.SetNotifier(n)
	return gm, n
}

func TestCreateAndShoot(t *testing.T) {
	gm, n := newTestManager(t, nil)

	s, err := gm.CreateSession(3, "ana")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(s.Token) != 32 || s.StartedAt == nil {
		t.Errorf("unexpected session: token=%q started=%v", s.Token, s.StartedAt)
	}
	if got, _ := gm.GetSession(s.Token); got != s {
		t.Error("session not registered")
	}
	if n.count("session_state") != 1 {
		t.Errorf("expected a session_state notification, got %v", n.msgs)
	}

	if _, _, err := gm.Shoot(s.Token, 4, centreShot); !errors.Is(err, ErrNotSessionOwner) {
		t.Errorf("expected ErrNotSessionOwner, got %v", err)
	}
	if _, _, err := gm.Shoot("missing", 3, centreShot); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}

	_, res, err := gm.Shoot(s.Token, 3, centreShot)
	if err != nil {
		t.Fatalf("shoot failed: %v", err)
	}
	if res.Outcome.Outcome != shot.OutcomeScored || res.Score != 1 {
		t.Errorf("expected a goal, got %+v", res.Outcome)
	}
	if n.count("shot_outcome") != 1 {
		t.Errorf("expected one shot_outcome, got %v", n.msgs)
	}

	snap, err := gm.GetSessionSnapshot(s.Token)
	if err != nil || snap.Score != 1 || snap.Attempts != 1 {
		t.Errorf("snapshot mismatch: %+v err=%v", snap, err)
	}
}

func TestGameOverFinalisesSession(t *testing.T) {
	gm, n := newTestManager(t, func(c *config.Config) {
		c.SessionMaxFails = 2
		c.KeeperEnabled = true
	})

	s, err := gm.CreateSession(5, "bo")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, res, _ := gm.Shoot(s.Token, 5, leftShot); res == nil || res.Outcome.Outcome != shot.OutcomeScored {
		t.Fatal("expected an opening goal")
	}
	if _, _, err := gm.Shoot(s.Token, 5, centreShot); err != nil {
		t.Fatalf("shoot failed: %v", err)
	}
	if _, err := gm.Continue(s.Token, 5); err != nil {
		t.Fatalf("continue failed: %v", err)
	}
	_, res, err := gm.Shoot(s.Token, 5, centreShot)
	if err != nil || !res.GameOver {
		t.Fatalf("expected game over, got %+v err=%v", res, err)
	}

	if _, err := gm.GetSession(s.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Error("finished session should leave memory")
	}
	if n.count("game_over") != 1 {
		t.Errorf("expected one game_over, got %v", n.msgs)
	}

	top, err := gm.TopScores(5)
	if err != nil {
		t.Fatalf("top scores failed: %v", err)
	}
	if len(top) != 1 || top[0].PlayerID != 5 || top[0].Score != 1 || top[0].Rank != 1 {
		t.Errorf("unexpected leaderboard: %+v", top)
	}
}

func TestAbandonEndsSession(t *testing.T) {
	gm, n := newTestManager(t, nil)
	s, _ := gm.CreateSession(1, "cy")

	if _, err := gm.Abandon(s.Token, 2); !errors.Is(err, ErrNotSessionOwner) {
		t.Errorf("expected ErrNotSessionOwner, got %v", err)
	}
	snap, err := gm.Abandon(s.Token, 1)
	if err != nil {
		t.Fatalf("abandon failed: %v", err)
	}
	if snap.Status != StatusGameOver || gm.GetActiveSessionCount() != 0 {
		t.Errorf("expected a finished session, got %s with %d live", snap.Status, gm.GetActiveSessionCount())
	}
	if n.count("game_over") != 1 {
		t.Errorf("expected game_over, got %v", n.msgs)
	}
}

func TestExpireIdleSessions(t *testing.T) {
	gm, n := newTestManager(t, func(c *config.Config) { c.SessionIdleSeconds = 60 })

	idle, _ := gm.CreateSession(1, "idle")
	fresh, _ := gm.CreateSession(2, "fresh")
	idle.LastActivity = time.Now().Add(-2 * time.Minute)

	if got := gm.ExpireIdleSessions(time.Now()); got != 1 {
		t.Fatalf("expected one expiry, got %d", got)
	}
	if _, err := gm.GetSession(idle.Token); err == nil {
		t.Error("idle session should be gone")
	}
	if _, err := gm.GetSession(fresh.Token); err != nil {
		t.Error("fresh session should remain")
	}
	if idle.Status != StatusExpired {
		t.Errorf("expected EXPIRED, got %s", idle.Status)
	}
	if n.count("session_expired") != 1 {
		t.Errorf("expected session_expired, got %v", n.msgs)
	}
}

func TestTickResolvesRealtimeShot(t *testing.T) {
	gm, n := newTestManager(t, nil)
	s, _ := gm.CreateSession(9, "rt")

	if _, err := gm.TakeShot(s.Token, 9, leftShot); err != nil {
		t.Fatalf("take shot failed: %v", err)
	}
	for i := 0; i < 600 && s.Busy(); i++ {
		gm.Tick()
	}

	if n.count("shot_outcome") != 1 {
		t.Errorf("expected one shot_outcome, got %d", n.count("shot_outcome"))
	}
	if n.count("ball_frame") < 30 {
		t.Errorf("expected streamed frames, got %d", n.count("ball_frame"))
	}
	if s.Score != 1 {
		t.Errorf("expected the goal to count, score=%d", s.Score)
	}
}

func TestMemoryLeaderboardKeepsBest(t *testing.T) {
	gm := NewGameManager(nil, nil, nil)
	gm.SubmitScore(SessionSnapshot{PlayerID: 1, PlayerName: "a", Score: 4})
	gm.SubmitScore(SessionSnapshot{PlayerID: 2, PlayerName: "b", Score: 7})
	gm.SubmitScore(SessionSnapshot{PlayerID: 1, PlayerName: "a", Score: 2})
	gm.SubmitScore(SessionSnapshot{PlayerID: 3, PlayerName: "c", Score: 0})

	top, err := gm.TopScores(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected two entries, got %+v", top)
	}
	if top[0].PlayerID != 2 || top[1].PlayerID != 1 || top[1].Score != 4 || top[1].Rank != 2 {
		t.Errorf("unexpected ordering: %+v", top)
	}
	if one, _ := gm.TopScores(1); len(one) != 1 {
		t.Errorf("limit not applied: %+v", one)
	}
}
