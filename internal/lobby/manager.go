package lobby

import (
	"log"
	"sync"

	"github.com/palemoky/lobby-master/internal/config"
)

// Manager 大厅管理器
// 负责分配大厅 ID、维护索引，并在大厅销毁时摘除
type Manager struct {
	provisioner Provisioner
	rooms       RoomLookup
	hooks       Hooks

	mu          sync.RWMutex
	lobbies     map[int]*Lobby
	nextID      int
	onDestroyed func(*Lobby)
}

// NewManager 创建大厅管理器
// hooks 为 nil 时使用缺省钩子
func NewManager(provisioner Provisioner, roomLookup RoomLookup, hooks Hooks) *Manager {
	if hooks == nil {
		hooks = DefaultHooks{}
	}
	return &Manager{
		provisioner: provisioner,
		rooms:       roomLookup,
		hooks:       hooks,
		lobbies:     make(map[int]*Lobby),
	}
}

// CreateLobby 按队伍花名册创建大厅
func (m *Manager) CreateLobby(name string, teams []*Team, cfg Config) *Lobby {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	l := NewLobby(m.nextID, name, teams, cfg, Deps{
		Provisioner: m.provisioner,
		Rooms:       m.rooms,
		Hooks:       m.hooks,
		OnDestroyed: m.onLobbyDestroyed,
	})
	m.lobbies[l.ID] = l

	log.Printf("🏠 大厅 %d (%s) 已创建，容量 %d-%d", l.ID, name, l.MinPlayers, l.MaxPlayers)

	return l
}

// CreateFromPreset 按配置预设创建大厅
func (m *Manager) CreateFromPreset(preset config.LobbyPreset, name string, cfg Config) *Lobby {
	teams := make([]*Team, 0, len(preset.Teams))
	for _, tc := range preset.Teams {
		teams = append(teams, NewTeam(tc.Name, tc.MinPlayers, tc.MaxPlayers))
	}

	l := m.CreateLobby(name, teams, cfg)
	l.Type = preset.DisplayName

	return l
}

// GetLobby 按 ID 查找大厅，不存在时返回 nil
func (m *Manager) GetLobby(id int) *Lobby {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lobbies[id]
}

// List 当前所有大厅
// 先拷贝指针再放锁，避免持管理器锁时去拿大厅锁
func (m *Manager) List() []*Lobby {
	m.mu.RLock()
	out := make([]*Lobby, 0, len(m.lobbies))
	for _, l := range m.lobbies {
		out = append(out, l)
	}
	m.mu.RUnlock()
	return out
}

// Count 当前大厅数
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lobbies)
}

// SetDestroyListener 注册大厅销毁监听器（比如用来清理持久化快照）
func (m *Manager) SetDestroyListener(fn func(*Lobby)) {
	m.mu.Lock()
	m.onDestroyed = fn
	m.mu.Unlock()
}

// onLobbyDestroyed 大厅销毁回调，从索引中摘除
func (m *Manager) onLobbyDestroyed(l *Lobby) {
	m.mu.Lock()
	delete(m.lobbies, l.ID)
	fn := m.onDestroyed
	m.mu.Unlock()

	log.Printf("👋 大厅 %d (%s) 已销毁", l.ID, l.Name)

	if fn != nil {
		fn(l)
	}
}

// ConfigFromDefaults 把服务端配置的大厅默认策略转成大厅配置
func ConfigFromDefaults(c config.LobbyConfig) Config {
	return Config{
		EnableTeamSwitching:               c.EnableTeamSwitching,
		EnableReadySystem:                 c.EnableReadySystem,
		EnableManualStart:                 c.EnableManualStart,
		EnableGameMasters:                 c.EnableGameMasters,
		StartGameWhenAllReady:             c.StartGameWhenAllReady,
		PlayAgainEnabled:                  c.PlayAgainEnabled,
		AllowJoiningWhenGameIsLive:        c.AllowJoiningWhenGameIsLive,
		AllowPlayersChangeLobbyProperties: c.AllowPlayersChangeLobbyProperties,
		KeepAliveWithZeroPlayers:          c.KeepAliveWithZeroPlayers,
	}
}
