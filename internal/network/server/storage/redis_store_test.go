package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/lobby-master/internal/protocol"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return NewRedisStore(client)
}

func TestRedisStore_SaveLoadDeleteLobby(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	data := protocol.LobbyData{
		LobbyID:    7,
		LobbyName:  "ranked",
		GameMaster: "alice",
		LobbyState: 1,
		MaxPlayers: 4,
		Members: map[string]protocol.MemberData{
			"alice": {Username: "alice", Team: "red", IsReady: true},
		},
		Teams: map[string]protocol.TeamData{
			"red": {Name: "red", MinPlayers: 1, MaxPlayers: 2},
		},
	}

	require.NoError(t, store.SaveLobby(ctx, data))

	loaded, err := store.LoadLobby(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "ranked", loaded.LobbyName)
	assert.Equal(t, "alice", loaded.GameMaster)
	assert.True(t, loaded.Members["alice"].IsReady)

	ids, err := store.GetAllLobbyIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, ids)

	require.NoError(t, store.DeleteLobby(ctx, 7))

	loaded, err = store.LoadLobby(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, loaded, "deleted snapshot loads as nil")
}

func TestRedisStore_LoadMissingLobby(t *testing.T) {
	store := newTestRedisStore(t)

	loaded, err := store.LoadLobby(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_Stats(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.IncrLobbiesCreated(ctx))
	require.NoError(t, store.IncrLobbiesCreated(ctx))
	require.NoError(t, store.IncrGamesStarted(ctx))

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2", stats["lobbies_created"])
	assert.Equal(t, "1", stats["games_started"])
}
