package handlers

import (
	"log"

	"github.com/palemoky/lobby-master/internal/lobby"
	servertypes "github.com/palemoky/lobby-master/internal/network/server/types"
	"github.com/palemoky/lobby-master/internal/protocol"
	"github.com/palemoky/lobby-master/internal/protocol/codec"
	"github.com/palemoky/lobby-master/internal/types"
)

// Handler 消息处理器
type Handler struct {
	server servertypes.ServerContext
}

// NewHandler 创建处理器
func NewHandler(s servertypes.ServerContext) *Handler {
	return &Handler{server: s}
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	switch msg.Type {
	// 连接操作
	case protocol.MsgPing:
		h.handlePing(client, msg)

	// 大厅操作
	case protocol.MsgCreateLobby:
		h.handleCreateLobby(client, msg)
	case protocol.MsgJoinLobby:
		h.handleJoinLobby(client, msg)
	case protocol.MsgLeaveLobby:
		h.handleLeaveLobby(client)
	case protocol.MsgGetLobbyList:
		h.handleGetLobbyList(client)
	case protocol.MsgSetLobbyProperty:
		h.handleSetLobbyProperty(client, msg)
	case protocol.MsgSetPlayerProperty:
		h.handleSetPlayerProperty(client, msg)
	case protocol.MsgSetReady:
		h.handleSetReady(client, msg)
	case protocol.MsgJoinTeam:
		h.handleJoinTeam(client, msg)

	// 游戏操作
	case protocol.MsgStartGame:
		h.handleStartGame(client)
	case protocol.MsgGetLobbyAccess:
		h.handleGetLobbyAccess(client, msg)
	case protocol.MsgLobbyChat:
		h.handleChat(client, msg)

	// 游戏服务器控制面
	case protocol.MsgSpawnStatusUpdate:
		h.handleSpawnStatusUpdate(client, msg)
	case protocol.MsgSpawnFinalized:
		h.handleSpawnFinalized(client, msg)
	case protocol.MsgRegisterRoom:
		h.handleRegisterRoom(client, msg)
	case protocol.MsgDestroyRoom:
		h.handleDestroyRoom(client, msg)

	default:
		log.Printf("⚠️  未知消息类型: '%s' (来自玩家: %s, ID: %s)", msg.Type, client.GetUsername(), client.GetID())
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
	}
}

// currentLobby 返回客户端所在大厅及其成员身份
// 不在任何大厅时回发错误并返回 nil
func (h *Handler) currentLobby(client types.ClientInterface) (*lobby.Lobby, *lobby.Member) {
	id := client.GetLobby()
	if id == 0 {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeNotInLobby))
		return nil, nil
	}

	l := h.server.GetLobbyManager().GetLobby(id)
	if l == nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeLobbyNotFound))
		return nil, nil
	}

	member := l.GetMemberByClient(client)
	if member == nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeNotInLobby))
		return nil, nil
	}

	return l, member
}
