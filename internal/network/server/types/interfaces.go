package types

import (
	"github.com/palemoky/lobby-master/internal/config"
	"github.com/palemoky/lobby-master/internal/lobby"
	"github.com/palemoky/lobby-master/internal/rooms"
	"github.com/palemoky/lobby-master/internal/spawner"
	"github.com/palemoky/lobby-master/internal/types"
)

// ServerContext 服务器上下文接口（用于打破 handlers 与 server 的循环依赖）
type ServerContext interface {
	IsMaintenanceMode() bool
	GetOnlineCount() int
	GetConfig() *config.Config
	GetLobbyManager() *lobby.Manager
	GetChatLimiter() types.ChatLimiter
	GetSpawnModule() *spawner.Module
	GetRoomRegistry() *rooms.Registry
	SaveLobbySnapshot(l *lobby.Lobby)
	DeleteLobbySnapshot(lobbyID int)
	RecordLobbyCreated()
	RecordGameStarted()
}
