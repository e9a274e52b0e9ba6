package handlers

import (
	"strconv"

	"github.com/palemoky/lobby-master/internal/protocol"
	"github.com/palemoky/lobby-master/internal/protocol/codec"
	"github.com/palemoky/lobby-master/internal/rooms"
	"github.com/palemoky/lobby-master/internal/spawner"
	"github.com/palemoky/lobby-master/internal/types"
)

// 游戏服务器控制面：生成器进程与游戏服务器作为普通连接接入，
// 通过下面的消息驱动生成任务状态与房间注册表

// handleSpawnStatusUpdate 生成器上报任务状态
func (h *Handler) handleSpawnStatusUpdate(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.SpawnStatusUpdatePayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	task := h.server.GetSpawnModule().GetTask(payload.SpawnID)
	if task == nil {
		client.SendMessage(codec.NewErrorMessageWithText(
			protocol.ErrCodeInvalidMsg, "未知的生成任务: "+strconv.Itoa(payload.SpawnID)))
		return
	}

	task.UpdateStatus(spawner.Status(payload.Status))
}

// handleSpawnFinalized 生成器上报完成数据
func (h *Handler) handleSpawnFinalized(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.SpawnFinalizedPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	task := h.server.GetSpawnModule().GetTask(payload.SpawnID)
	if task == nil {
		client.SendMessage(codec.NewErrorMessageWithText(
			protocol.ErrCodeInvalidMsg, "未知的生成任务: "+strconv.Itoa(payload.SpawnID)))
		return
	}

	task.Finalize(payload.Data)
}

// handleRegisterRoom 游戏服务器注册房间
// 访问令牌有效期统一取服务端配置
func (h *Handler) handleRegisterRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.RegisterRoomPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	opts := rooms.DefaultOptions()
	opts.AccessTimeout = h.server.GetConfig().Rooms.AccessTimeoutDuration()
	if payload.Name != "" {
		opts.Name = payload.Name
	}
	opts.RoomIP = payload.RoomIP
	opts.RoomPort = payload.RoomPort
	opts.IsPublic = payload.IsPublic
	opts.MaxConnections = payload.MaxConnections
	opts.Password = payload.Password
	if payload.Region != "" {
		opts.Region = payload.Region
	}
	opts.Properties = payload.Properties

	room := h.server.GetRoomRegistry().Register(opts)

	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomRegistered, protocol.RoomRegisteredPayload{
		RoomID: room.ID,
	}))
}

// handleDestroyRoom 游戏服务器销毁房间
// 对不存在的房间是空操作，绑定该房间的大厅通过销毁订阅收到通知
func (h *Handler) handleDestroyRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.DestroyRoomPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	h.server.GetRoomRegistry().DestroyRoom(payload.RoomID)
}
