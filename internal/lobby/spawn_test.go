package lobby_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/lobby-master/internal/lobby"
	"github.com/palemoky/lobby-master/internal/protocol"
	"github.com/palemoky/lobby-master/internal/rooms"
	"github.com/palemoky/lobby-master/internal/spawner"
	"github.com/palemoky/lobby-master/internal/testutil"
)

// startedLobby joins two ready players and starts the game,
// returning the active spawn task.
func startedLobby(t *testing.T, cfg lobby.Config) (*lobby.Lobby, *fixture, *spawner.SpawnTask, *testutil.SimpleClient) {
	t.Helper()

	l, f := newTestLobby(cfg, lobby.NewTeam("solo", 1, 4))
	a := join(t, l, "a")
	b := join(t, l, "b")
	l.SetReadyState(l.GetMemberByClient(b), true)

	require.Nil(t, l.StartGameManually(a))
	require.Equal(t, lobby.StateStartingGameServer, l.State())

	task := f.module.GetTask(1)
	require.NotNil(t, task)
	return l, f, task, a
}

func TestStartGameManually_RejectionOrder(t *testing.T) {
	t.Run("not in lobby", func(t *testing.T) {
		l, _ := newTestLobby(defaultConfig(), lobby.NewTeam("solo", 1, 4))
		err := l.StartGameManually(&testutil.SimpleClient{ID: "x", Username: "x"})
		require.NotNil(t, err)
		assert.Equal(t, protocol.ErrCodeNotInLobby, err.Code)
	})

	t.Run("manual start disabled", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.EnableManualStart = false
		l, _ := newTestLobby(cfg, lobby.NewTeam("solo", 1, 4))
		a := join(t, l, "a")

		err := l.StartGameManually(a)
		require.NotNil(t, err)
		assert.Equal(t, protocol.ErrCodeManualStartDisabled, err.Code)
	})

	t.Run("not the game master", func(t *testing.T) {
		l, _ := newTestLobby(defaultConfig(), lobby.NewTeam("solo", 1, 4))
		join(t, l, "a")
		b := join(t, l, "b")

		err := l.StartGameManually(b)
		require.NotNil(t, err)
		assert.Equal(t, protocol.ErrCodeNotGameMaster, err.Code)

		// The requester got a direct chat error about it.
		msgs := chatMessages(b)
		require.NotEmpty(t, msgs)
		assert.True(t, msgs[len(msgs)-1].IsError)
	})

	t.Run("others not ready", func(t *testing.T) {
		l, _ := newTestLobby(defaultConfig(), lobby.NewTeam("solo", 1, 4))
		a := join(t, l, "a")
		join(t, l, "b")

		// The game master itself is exempt from the ready check.
		err := l.StartGameManually(a)
		require.NotNil(t, err)
		assert.Equal(t, protocol.ErrCodeNotAllReady, err.Code)
	})

	t.Run("not enough players", func(t *testing.T) {
		l, _ := newTestLobby(defaultConfig(),
			lobby.NewTeam("red", 2, 2), lobby.NewTeam("blue", 2, 2))
		a := join(t, l, "a")
		b := join(t, l, "b")
		l.SetReadyState(l.GetMemberByClient(b), true)

		err := l.StartGameManually(a)
		require.NotNil(t, err)
		assert.Equal(t, protocol.ErrCodeNotEnoughPlayers, err.Code)
		assert.Contains(t, err.Message, strconv.Itoa(2))
	})

	t.Run("team below minimum", func(t *testing.T) {
		l, _ := newTestLobby(defaultConfig(),
			lobby.NewTeam("red", 0, 3), lobby.NewTeam("blue", 2, 3))
		a := join(t, l, "a") // red
		b := join(t, l, "b") // blue
		l.SetReadyState(l.GetMemberByClient(b), true)

		err := l.StartGameManually(a)
		require.NotNil(t, err)
		assert.Equal(t, protocol.ErrCodeTeamBelowMin, err.Code)
		assert.Contains(t, err.Message, "blue")
	})

	t.Run("wrong state after start", func(t *testing.T) {
		l, _, _, a := startedLobby(t, defaultConfig())

		err := l.StartGameManually(a)
		require.NotNil(t, err)
		assert.Equal(t, protocol.ErrCodeWrongLobbyState, err.Code)
	})
}

func TestStartGame_SpawnRefusalKeepsPreparations(t *testing.T) {
	// No machines registered: every spawn request is refused.
	f := &fixture{module: spawner.NewModule(), registry: rooms.NewRegistry()}
	l := lobby.NewLobby(1, "test", []*lobby.Team{lobby.NewTeam("solo", 1, 4)}, defaultConfig(), lobby.Deps{
		Provisioner: f.module,
		Rooms:       f.registry,
	})

	a := join(t, l, "a")
	b := join(t, l, "b")
	l.SetReadyState(l.GetMemberByClient(b), true)

	err := l.StartGameManually(a)
	require.NotNil(t, err)
	assert.Equal(t, protocol.ErrCodeServersBusy, err.Code)
	assert.Equal(t, lobby.StatePreparations, l.State())

	// Everyone saw the "servers are busy" chat error.
	msgs := chatMessages(b)
	require.NotEmpty(t, msgs)
	assert.True(t, msgs[len(msgs)-1].IsError)
}

func TestStartGame_HidesLobbyFromPublicList(t *testing.T) {
	l, _, _, _ := startedLobby(t, defaultConfig())
	assert.False(t, l.IsPublic())
}

func TestSpawnStatus_FinalizedBindsRegisteredRoom(t *testing.T) {
	l, f, task, a := startedLobby(t, defaultConfig())

	room := f.registry.Register(rooms.Options{
		Name:                    "game-1",
		RoomIP:                  "10.0.0.7",
		RoomPort:                7777,
		AllowUsersRequestAccess: true,
		AccessTimeout:           0, // no pending expiry in this test
	})

	task.UpdateStatus(spawner.StatusProcessRegistered)
	task.UpdateStatus(spawner.StatusProcessStarted)
	task.Finalize(map[string]string{lobby.PropertyRoomID: strconv.Itoa(room.ID)})

	assert.Equal(t, lobby.StateGameInProgress, l.State())

	ip, port := l.GameAddress()
	assert.Equal(t, "10.0.0.7", ip)
	assert.Equal(t, 7777, port)

	// Members can now request access to the game server.
	var got *rooms.Access
	l.HandleGameAccessRequest(a, nil, func(access *rooms.Access, err error) {
		require.NoError(t, err)
		got = access
	})
	require.NotNil(t, got)
	assert.Equal(t, room.ID, got.RoomID)
	assert.NotEmpty(t, got.Token)
}

func TestSpawnStatus_MissingRoomIDKeepsGameInProgress(t *testing.T) {
	l, _, task, a := startedLobby(t, defaultConfig())

	task.Finalize(map[string]string{})

	// The state is not rolled back, the failure surfaces as one chat error.
	assert.Equal(t, lobby.StateGameInProgress, l.State())

	errCount := 0
	for _, m := range chatMessages(a) {
		if m.IsError && strings.Contains(m.Message, "房间 ID") {
			errCount++
		}
	}
	assert.Equal(t, 1, errCount)

	// Without a bound room, access requests fail.
	l.HandleGameAccessRequest(a, nil, func(access *rooms.Access, err error) {
		assert.Nil(t, access)
		assert.Error(t, err)
	})
}

func TestSpawnStatus_UnknownRoomIDBroadcastsError(t *testing.T) {
	l, _, task, a := startedLobby(t, defaultConfig())

	task.Finalize(map[string]string{lobby.PropertyRoomID: "999"})

	assert.Equal(t, lobby.StateGameInProgress, l.State())

	ip, port := l.GameAddress()
	assert.Empty(t, ip)
	assert.Equal(t, -1, port)

	msgs := chatMessages(a)
	require.NotEmpty(t, msgs)
	assert.True(t, msgs[len(msgs)-1].IsError)
}

func TestSpawnStatus_FailureWhileStarting(t *testing.T) {
	t.Run("terminal without play-again", func(t *testing.T) {
		l, _, task, a := startedLobby(t, defaultConfig())

		task.Abort()

		assert.Equal(t, lobby.StateFailedToStart, l.State())
		msgs := chatMessages(a)
		require.NotEmpty(t, msgs)
		assert.True(t, msgs[len(msgs)-1].IsError)
	})

	t.Run("back to preparations with play-again", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.PlayAgainEnabled = true
		l, _, task, _ := startedLobby(t, cfg)

		task.Abort()

		assert.Equal(t, lobby.StatePreparations, l.State())
	})
}

func TestSetGameSpawnTask_SupersedeDetachesOldTask(t *testing.T) {
	l, f, task1, _ := startedLobby(t, defaultConfig())

	task2 := f.module.Spawn(nil, "eu", nil)
	require.NotNil(t, task2)

	l.SetGameSpawnTask(task2)

	// The superseded task was aborted without dragging the lobby down.
	assert.Equal(t, spawner.StatusAborted, task1.Status())
	assert.Equal(t, lobby.StateStartingGameServer, l.State())

	// The replacement still drives the lobby.
	room := f.registry.Register(rooms.Options{RoomIP: "10.0.0.8", RoomPort: 7778})
	task2.Finalize(map[string]string{lobby.PropertyRoomID: strconv.Itoa(room.ID)})
	assert.Equal(t, lobby.StateGameInProgress, l.State())
}

func TestRoomDestroyed_EndsGame(t *testing.T) {
	run := func(t *testing.T, cfg lobby.Config, want lobby.State) {
		l, f, task, _ := startedLobby(t, cfg)

		room := f.registry.Register(rooms.Options{RoomIP: "10.0.0.9", RoomPort: 7779})
		task.Finalize(map[string]string{lobby.PropertyRoomID: strconv.Itoa(room.ID)})
		require.Equal(t, lobby.StateGameInProgress, l.State())

		f.registry.DestroyRoom(room.ID)

		assert.Equal(t, want, l.State())
		ip, port := l.GameAddress()
		assert.Empty(t, ip)
		assert.Equal(t, -1, port)
	}

	t.Run("game over", func(t *testing.T) {
		run(t, defaultConfig(), lobby.StateGameOver)
	})

	t.Run("play again returns to preparations", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.PlayAgainEnabled = true
		run(t, cfg, lobby.StatePreparations)
	})
}

func TestDestroy_AbortsActiveSpawnTask(t *testing.T) {
	l, _, task, _ := startedLobby(t, defaultConfig())

	l.Destroy()

	assert.Equal(t, spawner.StatusAborted, task.Status())
	assert.True(t, l.IsDestroyed())
}
