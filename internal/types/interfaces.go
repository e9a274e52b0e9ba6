package types

import (
	"github.com/palemoky/lobby-master/internal/protocol"
)

// ClientInterface 定义客户端接口
// 一个客户端对应一个连接的玩家（peer）
type ClientInterface interface {
	GetID() string
	GetUsername() string
	GetLobby() int // 当前所在大厅 ID，0 表示不在任何大厅
	SetLobby(id int)
	SendMessage(msg *protocol.Message)
	Close()
}

// ChatLimiter 聊天速率限制器接口
type ChatLimiter interface {
	AllowChat(clientID string) (allowed bool, reason string)
	RemoveClient(clientID string)
}
