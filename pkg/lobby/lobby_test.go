package lobby

import (
	"testing"

	"github.com/gbridge/server/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndJoin(t *testing.T) {
	r := NewRegistry()
	id := r.Create("alice", Settings{PlayerCount: 3})

	require.NoError(t, r.Join(id, "bob"))
	l, ok := r.Get(id)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"alice", "bob"}, l.Players)
}

func TestJoinRejectsFullLobby(t *testing.T) {
	r := NewRegistry()
	id := r.Create("alice", Settings{PlayerCount: 2})
	require.NoError(t, r.Join(id, "bob"))

	err := r.Join(id, "carol")
	assert.ErrorIs(t, err, apperrors.ErrLobbyFull)
}

func TestJoinIsIdempotent(t *testing.T) {
	r := NewRegistry()
	id := r.Create("alice", Settings{PlayerCount: 3})
	require.NoError(t, r.Join(id, "alice"))

	l, _ := r.Get(id)
	assert.Len(t, l.Players, 1)
}

func TestLeaveRemovesEmptyLobby(t *testing.T) {
	r := NewRegistry()
	id := r.Create("alice", Settings{PlayerCount: 3})
	require.NoError(t, r.Leave(id, "alice"))

	_, ok := r.Get(id)
	assert.False(t, ok)
}

func TestLeaveTransfersHost(t *testing.T) {
	r := NewRegistry()
	id := r.Create("alice", Settings{PlayerCount: 3})
	require.NoError(t, r.Join(id, "bob"))
	require.NoError(t, r.Leave(id, "alice"))

	l, ok := r.Get(id)
	require.True(t, ok)
	assert.Equal(t, "bob", l.Host)
}

func TestStartRequiresHost(t *testing.T) {
	r := NewRegistry()
	id := r.Create("alice", Settings{PlayerCount: 3})
	require.NoError(t, r.Join(id, "bob"))

	_, err := r.Start(id, "bob")
	assert.ErrorIs(t, err, apperrors.ErrNotHost)
}

func TestStartRequiresTwoPlayers(t *testing.T) {
	r := NewRegistry()
	id := r.Create("alice", Settings{PlayerCount: 3})

	_, err := r.Start(id, "alice")
	assert.ErrorIs(t, err, apperrors.ErrNotEnoughPlayers)
}

func TestStartRemovesLobby(t *testing.T) {
	r := NewRegistry()
	id := r.Create("alice", Settings{PlayerCount: 3})
	require.NoError(t, r.Join(id, "bob"))

	players, err := r.Start(id, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, players)

	_, ok := r.Get(id)
	assert.False(t, ok)
}

func TestListExcludesFullLobbies(t *testing.T) {
	r := NewRegistry()
	full := r.Create("alice", Settings{PlayerCount: 1})
	open := r.Create("bob", Settings{PlayerCount: 2})

	list := r.List()
	ids := make(map[string]bool, len(list))
	for _, l := range list {
		ids[l.ID] = true
	}
	assert.False(t, ids[full])
	assert.True(t, ids[open])
}
