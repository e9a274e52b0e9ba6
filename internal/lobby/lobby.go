package lobby

import (
	"log"
	"sync"
	"time"

	"github.com/palemoky/lobby-master/internal/apperrors"
	"github.com/palemoky/lobby-master/internal/protocol"
	"github.com/palemoky/lobby-master/internal/protocol/codec"
	"github.com/palemoky/lobby-master/internal/rooms"
	"github.com/palemoky/lobby-master/internal/spawner"
	"github.com/palemoky/lobby-master/internal/types"
)

// 系统聊天消息的发送者名
const systemSender = "System"

// Lobby 大厅会话
// 状态机 + 成员/队伍管理 + 属性同步 + 生成协调
// 每个大厅持有一把互斥锁，所以同一大厅上的操作串行执行；不同大厅完全独立
type Lobby struct {
	ID   int
	Name string
	Type string

	cfg   Config
	hooks Hooks
	deps  Deps

	mu         sync.Mutex
	state      State
	statusText string
	destroyed  bool

	MinPlayers int
	MaxPlayers int

	gameMaster  *Member
	members     map[string]*Member               // 按用户名
	membersByID map[string]*Member               // 按客户端 ID
	joinOrder   []string                         // 用户名，按加入顺序（房主交接等规则依赖它）
	teams       map[string]*Team                 // 按队伍名
	teamOrder   []string                         // 队伍声明顺序（选队并列时的决胜依据）
	subscribers map[string]types.ClientInterface // 按客户端 ID
	properties  *Properties
	controls    []protocol.LobbyPropertyData

	// 生成协调状态
	spawnTask  *spawner.SpawnTask
	unsubSpawn func()
	room       *rooms.RegisteredRoom
	unsubRoom  func()
	gameIP     string
	gamePort   int
}

// NewLobby 创建大厅
// 队伍列表在构造时固定，玩家上下限为各队伍上下限之和
func NewLobby(id int, name string, teams []*Team, cfg Config, deps Deps) *Lobby {
	l := &Lobby{
		ID:          id,
		Name:        name,
		cfg:         cfg,
		hooks:       deps.Hooks,
		deps:        deps,
		state:       StatePreparations,
		members:     make(map[string]*Member),
		membersByID: make(map[string]*Member),
		teams:       make(map[string]*Team, len(teams)),
		subscribers: make(map[string]types.ClientInterface),
		properties:  NewProperties(),
		gamePort:    -1,
	}

	l.statusText = l.state.StatusText()
	l.properties.SetObserver(l.onPropertyChangedLocked)

	for _, t := range teams {
		l.teams[t.Name] = t
		l.teamOrder = append(l.teamOrder, t.Name)
		l.MinPlayers += t.MinPlayers
		l.MaxPlayers += t.MaxPlayers
	}

	if l.hooks == nil {
		l.hooks = DefaultHooks{}
	}

	return l
}

// --- 只读访问 ---

// State 当前状态
func (l *Lobby) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// StatusText 当前状态文本
func (l *Lobby) StatusText() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.statusText
}

// IsDestroyed 大厅是否已销毁
func (l *Lobby) IsDestroyed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.destroyed
}

// PlayerCount 当前成员数
func (l *Lobby) PlayerCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.members)
}

// GameMaster 当前房主用户名，无房主返回空字符串
func (l *Lobby) GameMaster() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gameMaster == nil {
		return ""
	}
	return l.gameMaster.Username
}

// GameAddress 绑定的游戏服务器地址与端口，未绑定时为 ("", -1)
func (l *Lobby) GameAddress() (string, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gameIP, l.gamePort
}

// GetMemberByUsername 按用户名查找成员
// Policies 大厅策略配置（拷贝）
func (l *Lobby) Policies() Config {
	return l.cfg
}

// Property 读取大厅属性，不存在时返回空字符串
func (l *Lobby) Property(key string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.properties.AsString(key)
}

// IsPublic 大厅是否出现在公开列表（未设置时视为公开）
func (l *Lobby) IsPublic() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.properties.Has(PropertyIsPublic) || l.properties.AsBool(PropertyIsPublic)
}

func (l *Lobby) GetMemberByUsername(username string) *Member {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.members[username]
}

// GetMemberByClient 按客户端查找成员
func (l *Lobby) GetMemberByClient(client types.ClientInterface) *Member {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.membersByID[client.GetID()]
}

// --- 成员管理 ---

// AddPlayer 玩家加入大厅
// 校验按固定顺序进行，返回 nil 表示成功
func (l *Lobby) AddPlayer(client types.ClientInterface) *apperrors.LobbyError {
	l.mu.Lock()
	defer l.mu.Unlock()

	if client.GetLobby() != 0 {
		return apperrors.ErrAlreadyInLobby
	}

	username := client.GetUsername()
	if username == "" {
		return apperrors.ErrInvalidUsername
	}

	if _, exists := l.members[username]; exists {
		return &apperrors.LobbyError{Code: protocol.ErrCodeAlreadyInLobby, Message: "您已在本大厅中"}
	}

	if l.destroyed {
		return apperrors.ErrLobbyDestroyed
	}

	if !l.hooks.IsPlayerAllowed(username, client) {
		return apperrors.ErrNotAllowed
	}

	if len(l.members) >= l.MaxPlayers {
		return apperrors.ErrLobbyFull
	}

	if !l.cfg.AllowJoiningWhenGameIsLive && l.state != StatePreparations {
		return apperrors.ErrGameLive
	}

	member := NewMember(username, client)

	team := l.pickTeamLocked(member)
	if team == nil {
		return apperrors.ErrInvalidTeam
	}

	if !team.AddMember(member) {
		return &apperrors.LobbyError{Code: protocol.ErrCodeInvalidTeam, Message: "无法加入队伍"}
	}

	l.members[username] = member
	l.membersByID[client.GetID()] = member
	l.joinOrder = append(l.joinOrder, username)

	// 标记为玩家当前所在大厅
	client.SetLobby(l.ID)

	if l.gameMaster == nil {
		l.pickNewGameMasterLocked()
	}

	l.subscribers[client.GetID()] = client

	// 通知其他人有新成员加入（不发给加入者本人）
	l.broadcastExceptLocked(client.GetID(), codec.MustNewMessage(protocol.MsgMemberJoined, protocol.MemberJoinedPayload{
		Member: member.GenerateData(),
	}))

	log.Printf("👤 玩家 %s 加入大厅 %d (%s)，队伍 %s", username, l.ID, l.Name, team.Name)

	return nil
}

// RemovePlayer 玩家离开大厅
// 玩家不在大厅中时为空操作；断线路径也走这里
func (l *Lobby) RemovePlayer(client types.ClientInterface) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.removePlayerLocked(client)
}

func (l *Lobby) removePlayerLocked(client types.ClientInterface) {
	member := l.membersByID[client.GetID()]
	if member == nil {
		return
	}

	delete(l.members, member.Username)
	delete(l.membersByID, client.GetID())
	l.removeFromJoinOrderLocked(member.Username)

	if client.GetLobby() == l.ID {
		client.SetLobby(0)
	}

	if member.Team != nil {
		member.Team.RemoveMember(member)
	}

	// 房主离开则交接
	if l.gameMaster == member {
		l.pickNewGameMasterLocked()
	}

	delete(l.subscribers, client.GetID())

	// 单独通知离开者本人
	client.SendMessage(codec.MustNewMessage(protocol.MsgLeftLobby, protocol.LeftLobbyPayload{
		LobbyID: l.ID,
	}))

	// 最后一人离开则销毁大厅
	if !l.cfg.KeepAliveWithZeroPlayers && len(l.members) == 0 {
		l.destroyLocked()
		log.Printf("🏠 大厅 %d (%s) 因最后一名玩家离开而销毁", l.ID, l.Name)
	}

	l.broadcastLocked(codec.MustNewMessage(protocol.MsgMemberLeft, protocol.MemberLeftPayload{
		Username: member.Username,
	}))

	log.Printf("👋 玩家 %s 离开大厅 %d (%s)", member.Username, l.ID, l.Name)
}

func (l *Lobby) removeFromJoinOrderLocked(username string) {
	for i, name := range l.joinOrder {
		if name == username {
			l.joinOrder = append(l.joinOrder[:i], l.joinOrder[i+1:]...)
			return
		}
	}
}

// pickTeamLocked 为新成员挑选队伍
// 钩子优先；默认取可接纳队伍中人数最少者，并列时按声明顺序
func (l *Lobby) pickTeamLocked(member *Member) *Team {
	if t := l.hooks.PickTeam(l, member); t != nil {
		return t
	}

	var best *Team
	for _, name := range l.teamOrder {
		t := l.teams[name]
		if !t.CanAccept(member) {
			continue
		}
		if best == nil || t.PlayerCount() < best.PlayerCount() {
			best = t
		}
	}
	return best
}

// pickNewGameMasterLocked 按加入顺序选出新房主并广播
// 房主机制未启用时为空操作
func (l *Lobby) pickNewGameMasterLocked() {
	if !l.cfg.EnableGameMasters {
		return
	}

	var next *Member
	if len(l.joinOrder) > 0 {
		next = l.members[l.joinOrder[0]]
	}

	l.gameMaster = next

	username := ""
	if next != nil {
		username = next.Username
	}

	l.broadcastLocked(codec.MustNewMessage(protocol.MsgGameMasterChanged, protocol.GameMasterChangedPayload{
		Username: username,
	}))
}

// --- 状态机 ---

// setStateLocked 切换状态：幂等保护、重置准备标记、广播变更
func (l *Lobby) setStateLocked(state State) {
	if l.state == state {
		return
	}

	l.state = state

	if text := state.StatusText(); text != l.statusText {
		l.statusText = text
		l.broadcastLocked(codec.MustNewMessage(protocol.MsgStatusTextChanged, protocol.StatusTextChangedPayload{
			Text: text,
		}))
	}

	// 状态切换后全员取消准备
	for _, username := range l.joinOrder {
		l.setReadyStateLocked(l.members[username], false)
	}

	l.broadcastLocked(codec.MustNewMessage(protocol.MsgLobbyStateChanged, protocol.LobbyStateChangedPayload{
		State: int(state),
	}))
}

// --- 属性 ---

// SetProperty 设置大厅属性（内部无鉴权形式）
func (l *Lobby) SetProperty(key, value string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.destroyed {
		return false
	}

	l.properties.Set(key, value)
	return true
}

// SetPropertyBy 玩家请求设置大厅属性（鉴权形式）
// 受"允许玩家修改属性"策略约束；启用房主机制时仅房主可改
func (l *Lobby) SetPropertyBy(setter types.ClientInterface, key, value string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.destroyed {
		return false
	}

	if !l.cfg.AllowPlayersChangeLobbyProperties {
		return false
	}

	if l.cfg.EnableGameMasters {
		member := l.membersByID[setter.GetID()]
		if member == nil || member != l.gameMaster {
			return false
		}
	}

	l.properties.Set(key, value)
	return true
}

// SetLobbyProperties 批量设置大厅属性，逐键覆盖
func (l *Lobby) SetLobbyProperties(values map[string]string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.destroyed {
		return
	}

	l.properties.Append(values)
}

// onPropertyChangedLocked 属性存储的变更回调，广播新值
func (l *Lobby) onPropertyChangedLocked(key string) {
	l.broadcastLocked(codec.MustNewMessage(protocol.MsgLobbyPropertyChanged, protocol.LobbyPropertyChangedPayload{
		Key:   key,
		Value: l.properties.AsString(key),
	}))
}

// SetPlayerProperty 设置成员私有属性
func (l *Lobby) SetPlayerProperty(member *Member, key, value string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.destroyed || key == "" {
		return false
	}

	if !l.hooks.IsPlayerPropertyChangeable(member, key, value) {
		return false
	}

	member.SetProperty(key, value)

	l.broadcastLocked(codec.MustNewMessage(protocol.MsgMemberPropertyChanged, protocol.MemberPropertyChangedPayload{
		LobbyID:  l.ID,
		Username: member.Username,
		Key:      key,
		Value:    value,
	}))

	return true
}

// --- 准备状态 ---

// SetReadyState 设置成员准备状态
// 非成员为空操作；全员就绪时触发一次就绪钩子
func (l *Lobby) SetReadyState(member *Member, ready bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setReadyStateLocked(member, ready)
}

func (l *Lobby) setReadyStateLocked(member *Member, ready bool) {
	if _, exists := l.members[member.Username]; !exists {
		return
	}

	changed := member.IsReady != ready
	member.IsReady = ready

	l.broadcastLocked(codec.MustNewMessage(protocol.MsgReadyStatusChanged, protocol.ReadyStatusChangedPayload{
		Username: member.Username,
		IsReady:  ready,
	}))

	// 仅在本次设置真正完成了"全员就绪"时触发，避免重复开局
	if ready && changed && l.allReadyLocked() {
		l.onAllPlayersReadyLocked()
	}
}

// allReadyLocked 是否全员就绪（空大厅不算就绪）
func (l *Lobby) allReadyLocked() bool {
	if len(l.members) == 0 {
		return false
	}
	for _, m := range l.members {
		if !m.IsReady {
			return false
		}
	}
	return true
}

// onAllPlayersReadyLocked 全员就绪钩子
// 自动开局策略开启且每支队伍都达到下限时开始游戏
func (l *Lobby) onAllPlayersReadyLocked() {
	if !l.cfg.StartGameWhenAllReady {
		return
	}

	for _, t := range l.teams {
		if t.PlayerCount() < t.MinPlayers {
			return
		}
	}

	l.startGameLocked()
}

// --- 队伍切换 ---

// TryJoinTeam 成员切换到指定队伍
// 失败时成员保持在原队伍（先加入新队伍再离开旧队伍）
func (l *Lobby) TryJoinTeam(teamName string, member *Member) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.cfg.EnableTeamSwitching {
		return false
	}

	currentTeam := member.Team
	newTeam := l.teams[teamName]

	if currentTeam == nil || newTeam == nil {
		return false
	}

	if newTeam.PlayerCount() >= newTeam.MaxPlayers {
		l.sendChatMessageLocked(member, "队伍已满", true)
		return false
	}

	if !newTeam.AddMember(member) {
		return false
	}

	currentTeam.RemoveMember(member)
	member.Team = newTeam

	l.broadcastLocked(codec.MustNewMessage(protocol.MsgMemberTeamChanged, protocol.MemberTeamChangedPayload{
		Username: member.Username,
		Team:     newTeam.Name,
	}))

	return true
}

// --- 销毁 ---

// Destroy 销毁大厅，幂等
// 所有成员走正常移除路径离开，进行中的生成请求被中止
func (l *Lobby) Destroy() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.destroyLocked()
}

func (l *Lobby) destroyLocked() {
	if l.destroyed {
		return
	}

	l.destroyed = true

	// 按加入顺序移除所有成员，副作用正常触发
	order := make([]string, len(l.joinOrder))
	copy(order, l.joinOrder)
	for _, username := range order {
		if member := l.members[username]; member != nil {
			l.removePlayerLocked(member.Client)
		}
	}

	if l.spawnTask != nil {
		if l.unsubSpawn != nil {
			l.unsubSpawn()
			l.unsubSpawn = nil
		}
		l.spawnTask.Abort()
		l.spawnTask = nil
	}

	if l.room != nil {
		if l.unsubRoom != nil {
			l.unsubRoom()
			l.unsubRoom = nil
		}
		l.room = nil
	}

	if l.deps.OnDestroyed != nil {
		l.deps.OnDestroyed(l)
	}

	log.Printf("💥 大厅 %d (%s) 已销毁", l.ID, l.Name)
}

// --- 聊天与广播 ---

// HandleChatMessage 成员发送大厅聊天
func (l *Lobby) HandleChatMessage(member *Member, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.broadcastLocked(codec.MustNewMessage(protocol.MsgLobbyChatMessage, protocol.LobbyChatPayload{
		Sender:  member.Username,
		Message: text,
		Time:    time.Now().Unix(),
	}))
}

// BroadcastChatMessage 以系统身份广播聊天消息
func (l *Lobby) BroadcastChatMessage(message string, isError bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.broadcastChatLocked(message, isError)
}

func (l *Lobby) broadcastChatLocked(message string, isError bool) {
	l.broadcastLocked(codec.MustNewMessage(protocol.MsgLobbyChatMessage, protocol.LobbyChatPayload{
		Sender:  systemSender,
		Message: message,
		IsError: isError,
		Time:    time.Now().Unix(),
	}))
}

// sendChatMessageLocked 以系统身份单发聊天消息给某个成员
func (l *Lobby) sendChatMessageLocked(member *Member, message string, isError bool) {
	member.Client.SendMessage(codec.MustNewMessage(protocol.MsgLobbyChatMessage, protocol.LobbyChatPayload{
		Sender:  systemSender,
		Message: message,
		IsError: isError,
		Time:    time.Now().Unix(),
	}))
}

// Subscribe 订阅大厅广播（通常由 AddPlayer 自动完成）
func (l *Lobby) Subscribe(client types.ClientInterface) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscribers[client.GetID()] = client
}

// Unsubscribe 取消订阅
func (l *Lobby) Unsubscribe(client types.ClientInterface) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.subscribers, client.GetID())
}

// broadcastLocked 向所有订阅者发送消息
// 逐个独立投递，单个客户端投递失败不影响其他人
func (l *Lobby) broadcastLocked(msg *protocol.Message) {
	for _, client := range l.subscribers {
		client.SendMessage(msg)
	}
}

// broadcastExceptLocked 向除指定客户端外的订阅者发送消息
func (l *Lobby) broadcastExceptLocked(exceptID string, msg *protocol.Message) {
	for id, client := range l.subscribers {
		if id == exceptID {
			continue
		}
		client.SendMessage(msg)
	}
}
