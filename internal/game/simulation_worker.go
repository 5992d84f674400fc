package game

import (
	"context"
	"log"
	"time"
)

// StartSimulationWorker ticks every session with a shot in progress at hz,
// streaming ball frames and handing outcomes to the manager.
func StartSimulationWorker(ctx context.Context, hz int) {
	if Manager == nil {
		log.Println("[SIM] Manager missing; simulation worker not started")
		return
	}
	if hz <= 0 {
		hz = 60
	}

	log.Printf("[SIM] Simulation worker started at %d Hz", hz)
	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(hz))
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[SIM] Simulation worker stopping")
				return
			case <-ticker.C:
				Manager.Tick()
			}
		}
	}()
}

// Tick advances every busy session by one simulation tick.
func (gm *GameManager) Tick() {
	for _, s := range gm.ActiveSessions() {
		frame, resolved := s.Advance()
		if frame == nil {
			continue
		}
		// frames are too frequent for pubsub; sockets live on the instance
		// that owns the session
		gm.notifyLocal(s.Token, "ball_frame", frame)
		if resolved != nil {
			gm.handleResolved(s, resolved)
		}
	}
}
