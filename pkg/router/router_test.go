package router

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/decred/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbridge/server/pkg/gameregistry"
	"github.com/gbridge/server/pkg/lobby"
	"github.com/gbridge/server/pkg/protocol"
	"github.com/gbridge/server/pkg/session"
)

func newTestRouter(t *testing.T) (*Router, *session.Registry) {
	t.Helper()
	sessions := session.NewRegistry(time.Minute)
	lobbies := lobby.NewRegistry()
	games := gameregistry.NewRegistry(0, slog.Disabled)
	n := 0
	newID := func() string {
		n++
		return "game-" + string(rune('0'+n))
	}
	r := New(lobbies, games, sessions, newID, slog.Disabled)
	games.SetNotifier(r)
	return r, sessions
}

func drain(t *testing.T, out <-chan []byte) protocol.Envelope {
	t.Helper()
	select {
	case data := <-out:
		var env protocol.Envelope
		require.NoError(t, json.Unmarshal(data, &env))
		return env
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return protocol.Envelope{}
	}
}

func envelope(t *testing.T, msgType protocol.MessageType, payload interface{}) protocol.Envelope {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return protocol.Envelope{Type: msgType, Payload: raw}
}

func TestRouteCreateLobbySendsLobbyCreated(t *testing.T) {
	r, sessions := newTestRouter(t)
	out := sessions.Register("alice")

	r.Route("alice", envelope(t, protocol.TypeCreateLobby, protocol.CreateLobbyPayload{
		Settings: protocol.GameSettings{PlayerCount: 2},
	}))

	env := drain(t, out)
	assert.Equal(t, protocol.TypeLobbyCreated, env.Type)
}

func TestRouteJoinUnknownLobbySendsError(t *testing.T) {
	r, sessions := newTestRouter(t)
	out := sessions.Register("bob")

	r.Route("bob", envelope(t, protocol.TypeJoinLobby, protocol.JoinLobbyPayload{LobbyID: "missing"}))

	env := drain(t, out)
	assert.Equal(t, protocol.TypeError, env.Type)
}

func TestRouteStartGameRequiresHost(t *testing.T) {
	r, sessions := newTestRouter(t)
	aliceOut := sessions.Register("alice")
	bobOut := sessions.Register("bob")

	r.Route("alice", envelope(t, protocol.TypeCreateLobby, protocol.CreateLobbyPayload{
		Settings: protocol.GameSettings{PlayerCount: 2},
	}))
	created := drain(t, aliceOut)
	var createdPayload protocol.LobbyCreatedPayload
	require.NoError(t, json.Unmarshal(created.Payload, &createdPayload))

	r.Route("bob", envelope(t, protocol.TypeJoinLobby, protocol.JoinLobbyPayload{LobbyID: createdPayload.LobbyID}))
	drain(t, bobOut) // LobbyJoined
	drain(t, aliceOut) // PlayerJoined
	drain(t, aliceOut) // LobbyUpdated
	drain(t, bobOut)   // LobbyUpdated

	r.Route("bob", envelope(t, protocol.TypeStartGame, nil))
	env := drain(t, bobOut)
	assert.Equal(t, protocol.TypeError, env.Type, "only the host may start the game")
}

func TestRouteStartGameByHostBeginsPlay(t *testing.T) {
	r, sessions := newTestRouter(t)
	aliceOut := sessions.Register("alice")
	bobOut := sessions.Register("bob")

	r.Route("alice", envelope(t, protocol.TypeCreateLobby, protocol.CreateLobbyPayload{
		Settings: protocol.GameSettings{PlayerCount: 2},
	}))
	created := drain(t, aliceOut)
	var createdPayload protocol.LobbyCreatedPayload
	require.NoError(t, json.Unmarshal(created.Payload, &createdPayload))

	r.Route("bob", envelope(t, protocol.TypeJoinLobby, protocol.JoinLobbyPayload{LobbyID: createdPayload.LobbyID}))
	drain(t, bobOut)
	drain(t, aliceOut)
	drain(t, aliceOut)
	drain(t, bobOut)

	r.Route("alice", envelope(t, protocol.TypeStartGame, nil))

	startingAlice := drain(t, aliceOut)
	assert.Equal(t, protocol.TypeGameStarting, startingAlice.Type)
	startingBob := drain(t, bobOut)
	assert.Equal(t, protocol.TypeGameStarting, startingBob.Type)

	stateAlice := drain(t, aliceOut)
	assert.Equal(t, protocol.TypeGameState, stateAlice.Type)
}

func TestRoutePingRepliesWithPong(t *testing.T) {
	r, sessions := newTestRouter(t)
	out := sessions.Register("alice")

	r.Route("alice", envelope(t, protocol.TypePing, nil))

	env := drain(t, out)
	assert.Equal(t, protocol.TypePong, env.Type)
}

func TestDeterministicSeedIsStableAcrossCalls(t *testing.T) {
	assert.Equal(t, deterministicSeed("game-1"), deterministicSeed("game-1"))
	assert.NotEqual(t, deterministicSeed("game-1"), deterministicSeed("game-2"))
}
