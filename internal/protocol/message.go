package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgPing MessageType = "ping" // 心跳 ping

	// 大厅操作
	MsgCreateLobby       MessageType = "create_lobby"        // 创建大厅
	MsgJoinLobby         MessageType = "join_lobby"          // 加入大厅
	MsgLeaveLobby        MessageType = "leave_lobby"         // 离开大厅
	MsgGetLobbyList      MessageType = "get_lobby_list"      // 获取大厅列表
	MsgSetLobbyProperty  MessageType = "set_lobby_property"  // 修改大厅属性
	MsgSetPlayerProperty MessageType = "set_player_property" // 修改玩家属性
	MsgSetReady          MessageType = "set_ready"           // 设置准备状态
	MsgJoinTeam          MessageType = "join_team"           // 切换队伍
	MsgStartGame         MessageType = "start_game"          // 手动开始游戏
	MsgGetLobbyAccess    MessageType = "get_lobby_access"    // 请求游戏服务器访问权
	MsgLobbyChat         MessageType = "lobby_chat"          // 大厅聊天
)

// 游戏服务器 → 服务端 控制面消息
// 生成器进程与游戏服务器通过这些消息上报生成进度、注册房间
const (
	MsgSpawnStatusUpdate MessageType = "spawn_status_update" // 生成任务状态上报
	MsgSpawnFinalized    MessageType = "spawn_finalized"     // 生成任务完成数据上报
	MsgRegisterRoom      MessageType = "register_room"       // 注册游戏房间
	MsgDestroyRoom       MessageType = "destroy_room"        // 销毁游戏房间
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected MessageType = "connected" // 连接成功
	MsgPong      MessageType = "pong"      // 心跳 pong

	// 大厅相关
	MsgLobbyCreated    MessageType = "lobby_created"     // 大厅创建成功
	MsgLobbyJoined     MessageType = "lobby_joined"      // 加入大厅成功（附完整快照）
	MsgLeftLobby       MessageType = "left_lobby"        // 已离开大厅（仅发给离开者）
	MsgLobbyListResult MessageType = "lobby_list_result" // 大厅列表结果

	// 大厅内广播
	MsgMemberJoined          MessageType = "member_joined"           // 新成员加入
	MsgMemberLeft            MessageType = "member_left"             // 成员离开
	MsgLobbyStateChanged     MessageType = "lobby_state_changed"     // 大厅状态变更
	MsgStatusTextChanged     MessageType = "status_text_changed"     // 状态文本变更
	MsgLobbyPropertyChanged  MessageType = "lobby_property_changed"  // 大厅属性变更
	MsgMemberPropertyChanged MessageType = "member_property_changed" // 成员属性变更
	MsgMemberTeamChanged     MessageType = "member_team_changed"     // 成员切换队伍
	MsgReadyStatusChanged    MessageType = "ready_status_changed"    // 准备状态变更
	MsgGameMasterChanged     MessageType = "game_master_changed"     // 房主变更
	MsgLobbyChatMessage      MessageType = "lobby_chat_message"      // 大厅聊天消息

	// 游戏访问
	MsgLobbyAccess MessageType = "lobby_access" // 游戏服务器访问令牌

	// 控制面
	MsgRoomRegistered MessageType = "room_registered" // 房间注册成功

	// 错误
	MsgError MessageType = "error" // 错误消息
)

// Decode 从 JSON 字节解码消息
func Decode(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Encode 将消息编码为 JSON 字节
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}
