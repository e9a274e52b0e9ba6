//go:build !production

package testutil

import (
	"sync"

	"github.com/palemoky/lobby-master/internal/config"
	"github.com/palemoky/lobby-master/internal/lobby"
	"github.com/palemoky/lobby-master/internal/rooms"
	"github.com/palemoky/lobby-master/internal/spawner"
	"github.com/palemoky/lobby-master/internal/types"
)

// StubServer 实现 server types.ServerContext
// 持有真实的大厅管理器与生成器/房间子系统，快照与统计只做内存计数
type StubServer struct {
	Maintenance bool
	Config      *config.Config
	Manager     *lobby.Manager
	Spawner     *spawner.Module
	Rooms       *rooms.Registry
	Chat        types.ChatLimiter

	mu             sync.Mutex
	SavedSnapshots map[int]int // lobbyID → 保存次数
	Deleted        []int
	LobbiesCreated int
	GamesStarted   int
}

func NewStubServer(cfg *config.Config, manager *lobby.Manager, module *spawner.Module, registry *rooms.Registry, chat types.ChatLimiter) *StubServer {
	return &StubServer{
		Config:         cfg,
		Manager:        manager,
		Spawner:        module,
		Rooms:          registry,
		Chat:           chat,
		SavedSnapshots: make(map[int]int),
	}
}

func (s *StubServer) IsMaintenanceMode() bool           { return s.Maintenance }
func (s *StubServer) GetOnlineCount() int               { return 0 }
func (s *StubServer) GetConfig() *config.Config         { return s.Config }
func (s *StubServer) GetLobbyManager() *lobby.Manager   { return s.Manager }
func (s *StubServer) GetChatLimiter() types.ChatLimiter { return s.Chat }
func (s *StubServer) GetSpawnModule() *spawner.Module   { return s.Spawner }
func (s *StubServer) GetRoomRegistry() *rooms.Registry  { return s.Rooms }

func (s *StubServer) SaveLobbySnapshot(l *lobby.Lobby) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SavedSnapshots[l.ID]++
}

func (s *StubServer) DeleteLobbySnapshot(lobbyID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deleted = append(s.Deleted, lobbyID)
}

func (s *StubServer) RecordLobbyCreated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LobbiesCreated++
}

func (s *StubServer) RecordGameStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GamesStarted++
}

// AllowAllChat 放行所有聊天的限制器
type AllowAllChat struct{}

func (AllowAllChat) AllowChat(clientID string) (bool, string) { return true, "" }
func (AllowAllChat) RemoveClient(clientID string)             {}
