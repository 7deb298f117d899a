package session

import (
	"testing"
	"time"

	"github.com/gbridge/server/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndSend(t *testing.T) {
	r := NewRegistry(time.Minute)
	out := r.Register("alice")

	r.Send("alice", []byte("hello"))
	select {
	case msg := <-out:
		assert.Equal(t, "hello", string(msg))
	default:
		t.Fatal("expected message on outbound channel")
	}
}

func TestSendToUnknownPlayerIsNoop(t *testing.T) {
	r := NewRegistry(time.Minute)
	r.Send("ghost", []byte("hello"))
}

func TestSendDropsWhenBufferFull(t *testing.T) {
	r := NewRegistry(time.Minute)
	r.Register("alice")

	for i := 0; i < outboundBuffer+5; i++ {
		r.Send("alice", []byte("x"))
	}
	// must not block or panic; buffer caps at outboundBuffer regardless of
	// how many sends were attempted.
}

func TestReconnectWithinWindowSucceeds(t *testing.T) {
	r := NewRegistry(time.Minute)
	r.Register("alice")
	r.MarkInactive("alice")

	out, err := r.Reconnect("alice")
	require.NoError(t, err)
	assert.NotNil(t, out)

	stats := r.StatsSnapshot()
	assert.Equal(t, 1, stats.Active)
}

func TestReconnectAfterWindowExpiresIsRejected(t *testing.T) {
	r := NewRegistry(time.Millisecond)
	r.Register("alice")
	r.MarkInactive("alice")
	time.Sleep(5 * time.Millisecond)

	_, err := r.Reconnect("alice")
	assert.ErrorIs(t, err, apperrors.ErrAuthRejected)
}

func TestSweepRemovesExpiredSessions(t *testing.T) {
	r := NewRegistry(time.Millisecond)
	r.Register("alice")
	r.MarkInactive("alice")
	time.Sleep(5 * time.Millisecond)

	expired := r.Sweep()
	assert.Equal(t, []string{"alice"}, expired)

	stats := r.StatsSnapshot()
	assert.Equal(t, 0, stats.Total)
}

func TestStatsSnapshotCountsActiveAndInactive(t *testing.T) {
	r := NewRegistry(time.Minute)
	r.Register("alice")
	r.Register("bob")
	r.MarkInactive("bob")

	stats := r.StatsSnapshot()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.Inactive)
}

func TestBroadcastReachesAllListed(t *testing.T) {
	r := NewRegistry(time.Minute)
	a := r.Register("alice")
	b := r.Register("bob")

	r.Broadcast([]string{"alice", "bob"}, []byte("hi"))
	assert.Equal(t, "hi", string(<-a))
	assert.Equal(t, "hi", string(<-b))
}
