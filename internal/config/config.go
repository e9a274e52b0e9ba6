package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Security SecurityConfig `yaml:"security"`
	Lobby    LobbyConfig    `yaml:"lobby"`
	Spawner  SpawnerConfig  `yaml:"spawner"`
	Rooms    RoomsConfig    `yaml:"rooms"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
	LogFile        string `yaml:"log_file"` // 为空时日志输出到 stderr
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins"`
	MessageLimit   MsgLimitConfig  `yaml:"message_limit"`
	ChatLimit      ChatLimitConfig `yaml:"chat_limit"`
}

// MsgLimitConfig 消息速率限制配置
type MsgLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
}

// ChatLimitConfig 聊天速率限制配置
type ChatLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
	MaxPerMinute int `yaml:"max_per_minute"`
	Cooldown     int `yaml:"cooldown"` // 超限冷却（秒）
}

// CooldownDuration 返回聊天冷却时长
func (c *ChatLimitConfig) CooldownDuration() time.Duration {
	return time.Duration(c.Cooldown) * time.Second
}

// LobbyConfig 大厅默认策略配置
type LobbyConfig struct {
	EnableTeamSwitching               bool                   `yaml:"enable_team_switching"`
	EnableReadySystem                 bool                   `yaml:"enable_ready_system"`
	EnableManualStart                 bool                   `yaml:"enable_manual_start"`
	EnableGameMasters                 bool                   `yaml:"enable_game_masters"`
	StartGameWhenAllReady             bool                   `yaml:"start_game_when_all_ready"`
	PlayAgainEnabled                  bool                   `yaml:"play_again_enabled"`
	AllowJoiningWhenGameIsLive        bool                   `yaml:"allow_joining_when_game_is_live"`
	AllowPlayersChangeLobbyProperties bool                   `yaml:"allow_players_change_lobby_properties"`
	KeepAliveWithZeroPlayers          bool                   `yaml:"keep_alive_with_zero_players"`
	Presets                           map[string]LobbyPreset `yaml:"presets"`
}

// LobbyPreset 大厅预设（队伍结构）
type LobbyPreset struct {
	DisplayName string       `yaml:"display_name"`
	Teams       []TeamConfig `yaml:"teams"`
}

// TeamConfig 队伍配置
type TeamConfig struct {
	Name       string `yaml:"name"`
	MinPlayers int    `yaml:"min_players"`
	MaxPlayers int    `yaml:"max_players"`
}

// SpawnerConfig 生成器配置
type SpawnerConfig struct {
	DefaultRegion string          `yaml:"default_region"`
	Machines      []MachineConfig `yaml:"machines"`
}

// MachineConfig 单台生成器机器
type MachineConfig struct {
	Region       string `yaml:"region"`
	MaxProcesses int    `yaml:"max_processes"`
}

// RoomsConfig 房间注册表配置
type RoomsConfig struct {
	AccessTimeout int `yaml:"access_timeout"` // 访问令牌有效期（秒）
}

// AccessTimeoutDuration 返回访问令牌有效期
func (c *RoomsConfig) AccessTimeoutDuration() time.Duration {
	return time.Duration(c.AccessTimeout) * time.Second
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.fillDefaults()

	return &cfg, nil
}

// fillDefaults 设置默认值
func (cfg *Config) fillDefaults() {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 1790
	}
	if cfg.Server.MaxConnections == 0 {
		cfg.Server.MaxConnections = 2000
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if len(cfg.Security.AllowedOrigins) == 0 {
		cfg.Security.AllowedOrigins = []string{"*"}
	}
	if cfg.Security.MessageLimit.MaxPerSecond == 0 {
		cfg.Security.MessageLimit.MaxPerSecond = 20
	}
	if cfg.Security.ChatLimit.MaxPerSecond == 0 {
		cfg.Security.ChatLimit.MaxPerSecond = 2
	}
	if cfg.Security.ChatLimit.MaxPerMinute == 0 {
		cfg.Security.ChatLimit.MaxPerMinute = 30
	}
	if cfg.Security.ChatLimit.Cooldown == 0 {
		cfg.Security.ChatLimit.Cooldown = 10
	}
	if cfg.Spawner.DefaultRegion == "" {
		cfg.Spawner.DefaultRegion = "International"
	}
	if len(cfg.Spawner.Machines) == 0 {
		cfg.Spawner.Machines = []MachineConfig{
			{Region: cfg.Spawner.DefaultRegion, MaxProcesses: 5},
		}
	}
	if cfg.Rooms.AccessTimeout == 0 {
		cfg.Rooms.AccessTimeout = 10
	}
	if len(cfg.Lobby.Presets) == 0 {
		cfg.Lobby.Presets = defaultPresets()
	}
}

// defaultPresets 内置大厅预设
func defaultPresets() map[string]LobbyPreset {
	return map[string]LobbyPreset{
		"1v1": {
			DisplayName: "1 对 1",
			Teams: []TeamConfig{
				{Name: "Team Blue", MinPlayers: 1, MaxPlayers: 1},
				{Name: "Team Red", MinPlayers: 1, MaxPlayers: 1},
			},
		},
		"2v2": {
			DisplayName: "2 对 2",
			Teams: []TeamConfig{
				{Name: "Team Blue", MinPlayers: 1, MaxPlayers: 2},
				{Name: "Team Red", MinPlayers: 1, MaxPlayers: 2},
			},
		},
		"deathmatch": {
			DisplayName: "混战",
			Teams: []TeamConfig{
				{Name: "Players", MinPlayers: 2, MaxPlayers: 10},
			},
		},
	}
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{
		Lobby: LobbyConfig{
			EnableTeamSwitching:               true,
			EnableReadySystem:                 true,
			EnableManualStart:                 true,
			EnableGameMasters:                 true,
			AllowPlayersChangeLobbyProperties: true,
		},
	}
	cfg.fillDefaults()
	return cfg
}
