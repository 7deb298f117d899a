package gameregistry

import (
	"sync"
	"testing"
	"time"

	"github.com/decred/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbridge/server/internal/audit"
	"github.com/gbridge/server/pkg/game"
)

type fakeAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (f *fakeAuditor) Record(ev audit.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func (f *fakeAuditor) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []string
}

func (f *fakeNotifier) SendTo(playerID, msgType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msgType+":"+playerID)
}

func (f *fakeNotifier) BroadcastTo(playerIDs []string, msgType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range playerIDs {
		f.sent = append(f.sent, msgType+":"+p)
	}
}

func (f *fakeNotifier) count(msgType string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.sent {
		if len(s) >= len(msgType) && s[:len(msgType)] == msgType {
			n++
		}
	}
	return n
}

func TestCreateGameBroadcastsInitialState(t *testing.T) {
	notifier := &fakeNotifier{}
	r := NewRegistry(0, slog.Disabled)
	r.SetNotifier(notifier)

	state := r.CreateGame("g1", []string{"alice", "bob"}, 1)
	assert.Equal(t, game.PhaseBidding, state.Phase())
	assert.True(t, notifier.count("GameState") >= 2)
}

func TestHandleActionRejectsUnknownGame(t *testing.T) {
	notifier := &fakeNotifier{}
	r := NewRegistry(0, slog.Disabled)
	r.SetNotifier(notifier)

	_, err := r.HandleAction("missing", "alice", game.BidAction(0))
	assert.Error(t, err)
}

func TestHandleActionAppliesAndBroadcasts(t *testing.T) {
	notifier := &fakeNotifier{}
	r := NewRegistry(0, slog.Disabled)
	r.SetNotifier(notifier)

	r.CreateGame("g1", []string{"alice", "bob"}, 2)
	_, err := r.HandleAction("g1", "alice", game.BidAction(0))
	require.NoError(t, err)
	assert.True(t, notifier.count("PlayerAction") >= 1)
}

func TestTurnTimeoutTriggersAutoAction(t *testing.T) {
	notifier := &fakeNotifier{}
	r := NewRegistry(10*time.Millisecond, slog.Disabled)
	r.SetNotifier(notifier)

	r.CreateGame("g1", []string{"alice", "bob"}, 3)

	require.Eventually(t, func() bool {
		return notifier.count("PlayerAction") >= 1
	}, time.Second, 5*time.Millisecond, "expected the turn timer to auto-play a bid")
}

func TestHandleActionRecordsAuditEventWhenAuditorBound(t *testing.T) {
	notifier := &fakeNotifier{}
	auditor := &fakeAuditor{}
	r := NewRegistry(0, slog.Disabled)
	r.SetNotifier(notifier)
	r.SetAuditor(auditor)

	r.CreateGame("g1", []string{"alice", "bob"}, 2)
	_, err := r.HandleAction("g1", "alice", game.BidAction(0))
	require.NoError(t, err)

	assert.Equal(t, 1, auditor.count())
}

func TestPlayerViewUnknownGame(t *testing.T) {
	notifier := &fakeNotifier{}
	r := NewRegistry(0, slog.Disabled)
	r.SetNotifier(notifier)

	_, err := r.PlayerView("missing", "alice")
	assert.Error(t, err)
}
