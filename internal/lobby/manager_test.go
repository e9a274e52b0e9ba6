package lobby_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/lobby-master/internal/config"
	"github.com/palemoky/lobby-master/internal/lobby"
	"github.com/palemoky/lobby-master/internal/rooms"
	"github.com/palemoky/lobby-master/internal/spawner"
	"github.com/palemoky/lobby-master/internal/testutil"
)

func newTestManager() *lobby.Manager {
	module := spawner.NewModule()
	module.RegisterMachine("eu", 5)
	return lobby.NewManager(module, rooms.NewRegistry(), nil)
}

func TestManager_CreateAndLookup(t *testing.T) {
	m := newTestManager()

	l1 := m.CreateLobby("one", []*lobby.Team{lobby.NewTeam("solo", 1, 4)}, defaultConfig())
	l2 := m.CreateLobby("two", []*lobby.Team{lobby.NewTeam("solo", 1, 4)}, defaultConfig())

	assert.Equal(t, 1, l1.ID)
	assert.Equal(t, 2, l2.ID)
	assert.Equal(t, 2, m.Count())
	assert.Same(t, l1, m.GetLobby(1))
	assert.Nil(t, m.GetLobby(99))
	assert.Len(t, m.List(), 2)
}

func TestManager_DestroyedLobbyLeavesIndex(t *testing.T) {
	m := newTestManager()

	var destroyedIDs []int
	m.SetDestroyListener(func(l *lobby.Lobby) {
		destroyedIDs = append(destroyedIDs, l.ID)
	})

	l := m.CreateLobby("one", []*lobby.Team{lobby.NewTeam("solo", 1, 4)}, defaultConfig())

	// The last player leaving tears the lobby down and drops it from the index.
	c := &testutil.SimpleClient{ID: "id-a", Username: "a"}
	require.Nil(t, l.AddPlayer(c))
	l.RemovePlayer(c)

	assert.True(t, l.IsDestroyed())
	assert.Nil(t, m.GetLobby(l.ID))
	assert.Equal(t, 0, m.Count())
	assert.Equal(t, []int{l.ID}, destroyedIDs)
}

func TestManager_CreateFromPreset(t *testing.T) {
	m := newTestManager()

	preset := config.LobbyPreset{
		DisplayName: "2v2",
		Teams: []config.TeamConfig{
			{Name: "red", MinPlayers: 2, MaxPlayers: 2},
			{Name: "blue", MinPlayers: 2, MaxPlayers: 2},
		},
	}

	l := m.CreateFromPreset(preset, "ranked", defaultConfig())

	assert.Equal(t, "ranked", l.Name)
	assert.Equal(t, "2v2", l.Type)
	assert.Equal(t, 4, l.MinPlayers)
	assert.Equal(t, 4, l.MaxPlayers)

	data := l.GenerateLobbyData(nil)
	assert.Len(t, data.Teams, 2)
}

func TestConfigFromDefaults(t *testing.T) {
	in := config.LobbyConfig{
		EnableTeamSwitching:   true,
		EnableGameMasters:     true,
		StartGameWhenAllReady: true,
	}

	out := lobby.ConfigFromDefaults(in)

	assert.True(t, out.EnableTeamSwitching)
	assert.True(t, out.EnableGameMasters)
	assert.True(t, out.StartGameWhenAllReady)
	assert.False(t, out.EnableManualStart)
	assert.False(t, out.KeepAliveWithZeroPlayers)
}
