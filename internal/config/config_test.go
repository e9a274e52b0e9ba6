package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9000
lobby:
  enable_game_masters: true
  presets:
    duel:
      display_name: "Duel"
      teams:
        - name: "A"
          min_players: 1
          max_players: 1
        - name: "B"
          min_players: 1
          max_players: 1
spawner:
  default_region: "eu"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Explicit values survive.
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.Lobby.EnableGameMasters)
	assert.Equal(t, "eu", cfg.Spawner.DefaultRegion)
	require.Contains(t, cfg.Lobby.Presets, "duel")
	assert.Len(t, cfg.Lobby.Presets["duel"].Teams, 2)

	// Omitted values fall back to defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 2000, cfg.Server.MaxConnections)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"*"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, 20, cfg.Security.MessageLimit.MaxPerSecond)
	require.Len(t, cfg.Spawner.Machines, 1)
	assert.Equal(t, "eu", cfg.Spawner.Machines[0].Region)
	assert.Equal(t, 10*time.Second, cfg.Rooms.AccessTimeoutDuration())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1790, cfg.Server.Port)
	assert.True(t, cfg.Lobby.EnableManualStart)
	assert.True(t, cfg.Lobby.AllowPlayersChangeLobbyProperties)

	// Built-in presets cover the common team layouts.
	for _, name := range []string{"1v1", "2v2", "deathmatch"} {
		assert.Contains(t, cfg.Lobby.Presets, name)
	}
	assert.Equal(t, 10*time.Second, cfg.Security.ChatLimit.CooldownDuration())
}
