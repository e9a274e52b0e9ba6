package protocol

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// CreateLobbyPayload 创建大厅请求
type CreateLobbyPayload struct {
	Preset string `json:"preset"`         // 大厅预设（1v1/2v2/deathmatch 等）
	Name   string `json:"name,omitempty"` // 大厅显示名称
}

// JoinLobbyPayload 加入大厅请求
type JoinLobbyPayload struct {
	LobbyID int `json:"lobby_id"`
}

// SetLobbyPropertyPayload 修改大厅属性请求
type SetLobbyPropertyPayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SetPlayerPropertyPayload 修改玩家自身属性请求
type SetPlayerPropertyPayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SetReadyPayload 设置准备状态请求
type SetReadyPayload struct {
	Ready bool `json:"ready"`
}

// JoinTeamPayload 切换队伍请求
type JoinTeamPayload struct {
	Team string `json:"team"`
}

// GetLobbyAccessPayload 请求游戏服务器访问权
type GetLobbyAccessPayload struct {
	Properties map[string]string `json:"properties,omitempty"` // 附加数据（如房间密码）
}

// ChatPayload 大厅聊天请求
type ChatPayload struct {
	Message string `json:"message"`
}

// --- 游戏服务器控制面 Payloads ---

// SpawnStatusUpdatePayload 生成器上报任务状态
type SpawnStatusUpdatePayload struct {
	SpawnID int `json:"spawn_id"`
	Status  int `json:"status"`
}

// SpawnFinalizedPayload 生成器上报完成数据（应包含 roomId）
type SpawnFinalizedPayload struct {
	SpawnID int               `json:"spawn_id"`
	Data    map[string]string `json:"data,omitempty"`
}

// RegisterRoomPayload 游戏服务器注册房间
type RegisterRoomPayload struct {
	Name           string            `json:"name,omitempty"`
	RoomIP         string            `json:"room_ip"`
	RoomPort       int               `json:"room_port"`
	IsPublic       bool              `json:"is_public,omitempty"`
	MaxConnections int               `json:"max_connections,omitempty"`
	Password       string            `json:"password,omitempty"`
	Region         string            `json:"region,omitempty"`
	Properties     map[string]string `json:"properties,omitempty"`
}

// DestroyRoomPayload 销毁房间请求
type DestroyRoomPayload struct {
	RoomID int `json:"room_id"`
}

// --- 数据传输对象 ---

// MemberData 成员数据
type MemberData struct {
	Username   string            `json:"username"`
	Team       string            `json:"team"`
	IsReady    bool              `json:"is_ready"`
	Properties map[string]string `json:"properties,omitempty"`
}

// TeamData 队伍数据
type TeamData struct {
	Name       string `json:"name"`
	MinPlayers int    `json:"min_players"`
	MaxPlayers int    `json:"max_players"`
}

// LobbyPropertyData 大厅属性控件描述（带可选项与标签）
type LobbyPropertyData struct {
	Label       string   `json:"label"`
	PropertyKey string   `json:"property_key"`
	Options     []string `json:"options,omitempty"`
}

// LobbyData 大厅完整快照（加入时下发）
type LobbyData struct {
	LobbyID             int                   `json:"lobby_id"`
	LobbyName           string                `json:"lobby_name"`
	LobbyType           string                `json:"lobby_type"`
	GameMaster          string                `json:"game_master"` // 空字符串表示无房主
	LobbyProperties     map[string]string     `json:"lobby_properties"`
	Members             map[string]MemberData `json:"members"`
	Teams               map[string]TeamData   `json:"teams"`
	Controls            []LobbyPropertyData   `json:"controls,omitempty"`
	LobbyState          int                   `json:"lobby_state"`
	StatusText          string                `json:"status_text"`
	MaxPlayers          int                   `json:"max_players"`
	EnableTeamSwitching bool                  `json:"enable_team_switching"`
	EnableReadySystem   bool                  `json:"enable_ready_system"`
	EnableManualStart   bool                  `json:"enable_manual_start"`
	CurrentUserUsername string                `json:"current_user_username,omitempty"`
}

// LobbyListItem 大厅列表条目
type LobbyListItem struct {
	LobbyID     int    `json:"lobby_id"`
	LobbyName   string `json:"lobby_name"`
	LobbyType   string `json:"lobby_type"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	PeerID   string `json:"peer_id"`
	Username string `json:"username"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"`
	ServerTimestamp int64 `json:"server_timestamp"`
}

// LobbyCreatedPayload 大厅创建成功响应
type LobbyCreatedPayload struct {
	LobbyID int    `json:"lobby_id"`
	Name    string `json:"name"`
}

// LobbyListResultPayload 大厅列表结果
type LobbyListResultPayload struct {
	Lobbies []LobbyListItem `json:"lobbies"`
}

// MemberJoinedPayload 新成员加入广播
type MemberJoinedPayload struct {
	Member MemberData `json:"member"`
}

// MemberLeftPayload 成员离开广播
type MemberLeftPayload struct {
	Username string `json:"username"`
}

// LobbyStateChangedPayload 大厅状态变更广播
type LobbyStateChangedPayload struct {
	State int `json:"state"`
}

// StatusTextChangedPayload 状态文本变更广播
type StatusTextChangedPayload struct {
	Text string `json:"text"`
}

// LobbyPropertyChangedPayload 大厅属性变更广播
type LobbyPropertyChangedPayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// MemberPropertyChangedPayload 成员属性变更广播
type MemberPropertyChangedPayload struct {
	LobbyID  int    `json:"lobby_id"`
	Username string `json:"username"`
	Key      string `json:"key"`
	Value    string `json:"value"`
}

// MemberTeamChangedPayload 成员切换队伍广播
type MemberTeamChangedPayload struct {
	Username string `json:"username"`
	Team     string `json:"team"`
}

// ReadyStatusChangedPayload 准备状态变更广播
type ReadyStatusChangedPayload struct {
	Username string `json:"username"`
	IsReady  bool   `json:"is_ready"`
}

// GameMasterChangedPayload 房主变更广播
type GameMasterChangedPayload struct {
	Username string `json:"username"` // 空字符串表示无房主
}

// LobbyChatPayload 大厅聊天消息广播
type LobbyChatPayload struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
	IsError bool   `json:"is_error,omitempty"`
	Time    int64  `json:"time,omitempty"`
}

// LeftLobbyPayload 离开大厅确认（仅发给离开者）
type LeftLobbyPayload struct {
	LobbyID int `json:"lobby_id"`
}

// LobbyAccessPayload 游戏服务器访问令牌响应
type LobbyAccessPayload struct {
	Token    string `json:"token"`
	RoomIP   string `json:"room_ip"`
	RoomPort int    `json:"room_port"`
	RoomID   int    `json:"room_id"`
}

// RoomRegisteredPayload 房间注册成功响应
type RoomRegisteredPayload struct {
	RoomID int `json:"room_id"`
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
