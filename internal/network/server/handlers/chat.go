package handlers

import (
	"strings"
	"unicode/utf8"

	"github.com/palemoky/lobby-master/internal/protocol"
	"github.com/palemoky/lobby-master/internal/protocol/codec"
	"github.com/palemoky/lobby-master/internal/types"
)

// 单条聊天消息的最大长度（按字符计）
const maxChatLength = 200

// handleChat 处理大厅内聊天消息
func (h *Handler) handleChat(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.ChatPayload](msg)
	if err != nil {
		return
	}

	text := strings.TrimSpace(payload.Message)
	if text == "" {
		return
	}
	if utf8.RuneCountInString(text) > maxChatLength {
		client.SendMessage(codec.NewErrorMessageWithText(
			protocol.ErrCodeInvalidMsg, "消息过长"))
		return
	}

	// 聊天限流检查
	allowed, reason := h.server.GetChatLimiter().AllowChat(client.GetID())
	if !allowed {
		client.SendMessage(codec.NewErrorMessageWithText(
			protocol.ErrCodeRateLimit, reason))
		return
	}

	l, member := h.currentLobby(client)
	if l == nil {
		return
	}

	l.HandleChatMessage(member, text)
}
