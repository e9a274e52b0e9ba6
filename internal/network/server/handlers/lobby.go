package handlers

import (
	"errors"
	"strings"

	"github.com/palemoky/lobby-master/internal/apperrors"
	"github.com/palemoky/lobby-master/internal/lobby"
	"github.com/palemoky/lobby-master/internal/protocol"
	"github.com/palemoky/lobby-master/internal/protocol/codec"
	"github.com/palemoky/lobby-master/internal/rooms"
	"github.com/palemoky/lobby-master/internal/types"
)

// handleCreateLobby 处理创建大厅
func (h *Handler) handleCreateLobby(client types.ClientInterface, msg *protocol.Message) {
	// 维护模式检查
	if h.server.IsMaintenanceMode() {
		client.SendMessage(codec.NewErrorMessageWithText(
			protocol.ErrCodeServerMaintenance, "服务器维护中，暂停创建大厅"))
		return
	}

	if client.GetLobby() != 0 {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeAlreadyInLobby))
		return
	}

	payload, err := codec.ParsePayload[protocol.CreateLobbyPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	cfg := h.server.GetConfig()
	preset, ok := cfg.Lobby.Presets[payload.Preset]
	if !ok {
		client.SendMessage(codec.NewErrorMessageWithText(
			protocol.ErrCodeInvalidMsg, "未知的大厅预设: "+payload.Preset))
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		name = client.GetUsername() + " 的大厅"
	}

	l := h.server.GetLobbyManager().CreateFromPreset(preset, name, lobby.ConfigFromDefaults(cfg.Lobby))

	// 声明区域控件，选项来自生成器机器所在的区域
	if regions := h.spawnerRegions(); len(regions) > 0 {
		l.AddControl(protocol.LobbyPropertyData{
			Label:       "区域",
			PropertyKey: lobby.PropertyRegion,
			Options:     regions,
		}, cfg.Spawner.DefaultRegion)
	}

	if lobbyErr := l.AddPlayer(client); lobbyErr != nil {
		l.Destroy()
		client.SendMessage(codec.NewErrorMessageWithText(lobbyErr.Code, lobbyErr.Message))
		return
	}

	h.server.RecordLobbyCreated()
	h.server.SaveLobbySnapshot(l)

	client.SendMessage(codec.MustNewMessage(protocol.MsgLobbyCreated, protocol.LobbyCreatedPayload{
		LobbyID: l.ID,
		Name:    l.Name,
	}))
	client.SendMessage(codec.MustNewMessage(protocol.MsgLobbyJoined, l.GenerateLobbyData(client)))
}

// handleJoinLobby 处理加入大厅
func (h *Handler) handleJoinLobby(client types.ClientInterface, msg *protocol.Message) {
	// 维护模式检查
	if h.server.IsMaintenanceMode() {
		client.SendMessage(codec.NewErrorMessageWithText(
			protocol.ErrCodeServerMaintenance, "服务器维护中，暂停加入大厅"))
		return
	}

	payload, err := codec.ParsePayload[protocol.JoinLobbyPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	l := h.server.GetLobbyManager().GetLobby(payload.LobbyID)
	if l == nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeLobbyNotFound))
		return
	}

	if lobbyErr := l.AddPlayer(client); lobbyErr != nil {
		client.SendMessage(codec.NewErrorMessageWithText(lobbyErr.Code, lobbyErr.Message))
		return
	}

	h.server.SaveLobbySnapshot(l)

	client.SendMessage(codec.MustNewMessage(protocol.MsgLobbyJoined, l.GenerateLobbyData(client)))
}

// handleLeaveLobby 处理离开大厅
func (h *Handler) handleLeaveLobby(client types.ClientInterface) {
	l, _ := h.currentLobby(client)
	if l == nil {
		return
	}

	l.RemovePlayer(client)

	if !l.IsDestroyed() {
		h.server.SaveLobbySnapshot(l)
	}
}

// handleGetLobbyList 处理大厅列表查询，只返回公开大厅
func (h *Handler) handleGetLobbyList(client types.ClientInterface) {
	all := h.server.GetLobbyManager().List()

	items := make([]protocol.LobbyListItem, 0, len(all))
	for _, l := range all {
		if !l.IsPublic() {
			continue
		}
		items = append(items, l.GenerateListItem())
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgLobbyListResult, protocol.LobbyListResultPayload{
		Lobbies: items,
	}))
}

// handleSetLobbyProperty 处理修改大厅属性
func (h *Handler) handleSetLobbyProperty(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.SetLobbyPropertyPayload](msg)
	if err != nil || payload.Key == "" {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	l, _ := h.currentLobby(client)
	if l == nil {
		return
	}

	if !l.SetPropertyBy(client, payload.Key, payload.Value) {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeNotAllowed))
		return
	}

	h.server.SaveLobbySnapshot(l)
}

// handleSetPlayerProperty 处理修改玩家自身属性
func (h *Handler) handleSetPlayerProperty(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.SetPlayerPropertyPayload](msg)
	if err != nil || payload.Key == "" {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	l, member := h.currentLobby(client)
	if l == nil {
		return
	}

	if !l.SetPlayerProperty(member, payload.Key, payload.Value) {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeNotAllowed))
		return
	}

	h.server.SaveLobbySnapshot(l)
}

// handleSetReady 处理准备状态切换
func (h *Handler) handleSetReady(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.SetReadyPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	l, member := h.currentLobby(client)
	if l == nil {
		return
	}

	if !l.Policies().EnableReadySystem {
		client.SendMessage(codec.NewErrorMessageWithText(
			protocol.ErrCodeNotAllowed, "该大厅未启用准备系统"))
		return
	}

	l.SetReadyState(member, payload.Ready)
	h.server.SaveLobbySnapshot(l)
}

// handleJoinTeam 处理切换队伍
func (h *Handler) handleJoinTeam(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.JoinTeamPayload](msg)
	if err != nil || payload.Team == "" {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	l, member := h.currentLobby(client)
	if l == nil {
		return
	}

	if !l.TryJoinTeam(payload.Team, member) {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidTeam))
		return
	}

	h.server.SaveLobbySnapshot(l)
}

// handleStartGame 处理房主手动开始游戏
func (h *Handler) handleStartGame(client types.ClientInterface) {
	l, _ := h.currentLobby(client)
	if l == nil {
		return
	}

	if lobbyErr := l.StartGameManually(client); lobbyErr != nil {
		client.SendMessage(codec.NewErrorMessageWithText(lobbyErr.Code, lobbyErr.Message))
		return
	}

	h.server.RecordGameStarted()
	h.server.SaveLobbySnapshot(l)
}

// handleGetLobbyAccess 处理游戏服务器访问权请求
func (h *Handler) handleGetLobbyAccess(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.GetLobbyAccessPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	l, _ := h.currentLobby(client)
	if l == nil {
		return
	}

	l.HandleGameAccessRequest(client, payload.Properties, func(access *rooms.Access, accessErr error) {
		if accessErr != nil {
			var lobbyErr *apperrors.LobbyError
			if errors.As(accessErr, &lobbyErr) {
				client.SendMessage(codec.NewErrorMessageWithText(lobbyErr.Code, lobbyErr.Message))
			} else {
				client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, accessErr.Error()))
			}
			return
		}

		client.SendMessage(codec.MustNewMessage(protocol.MsgLobbyAccess, protocol.LobbyAccessPayload{
			Token:    access.Token,
			RoomIP:   access.RoomIP,
			RoomPort: access.RoomPort,
			RoomID:   access.RoomID,
		}))
	})
}

// spawnerRegions 收集生成器机器覆盖的区域（去重，保持配置顺序）
func (h *Handler) spawnerRegions() []string {
	seen := make(map[string]bool)
	var regions []string
	for _, m := range h.server.GetConfig().Spawner.Machines {
		if m.Region == "" || seen[m.Region] {
			continue
		}
		seen[m.Region] = true
		regions = append(regions, m.Region)
	}
	return regions
}
