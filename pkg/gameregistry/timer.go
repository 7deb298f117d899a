package gameregistry

import (
	"sync"
	"time"

	"github.com/decred/slog"
)

// TimerService arms one turn-expiry timer per game at a time, following
// the teacher's pkg/poker/game.go autoStartTimer pattern of tracking a
// *time.Timer per table and replacing it wholesale on every re-arm.
type TimerService struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	onFire func(gameID, player string, deadline time.Time)
	log    slog.Logger
}

// NewTimerService builds a TimerService that invokes onFire when a game's
// turn deadline elapses.
func NewTimerService(onFire func(gameID, player string, deadline time.Time), log slog.Logger) *TimerService {
	return &TimerService{
		timers: make(map[string]*time.Timer),
		onFire: onFire,
		log:    log,
	}
}

// Arm replaces gameID's deadline timer, firing onFire for (gameID, player,
// deadline) once deadline is reached. Arming again before the previous
// timer fires cancels it, so only the most recent deadline for a game is
// ever live.
func (t *TimerService) Arm(gameID string, deadline time.Time, player string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.timers[gameID]; ok {
		existing.Stop()
	}

	d := time.Until(deadline)
	if d < 0 {
		d = 0
	}
	t.timers[gameID] = time.AfterFunc(d, func() {
		t.onFire(gameID, player, deadline)
	})
}

// Cancel stops gameID's armed timer, if any.
func (t *TimerService) Cancel(gameID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.timers[gameID]; ok {
		existing.Stop()
		delete(t.timers, gameID)
	}
}
