package lobby

import (
	"fmt"
	"strconv"

	"github.com/palemoky/lobby-master/internal/apperrors"
	"github.com/palemoky/lobby-master/internal/protocol"
	"github.com/palemoky/lobby-master/internal/rooms"
	"github.com/palemoky/lobby-master/internal/spawner"
	"github.com/palemoky/lobby-master/internal/types"
)

// StartGame 请求生成游戏服务器并进入启动状态
// 生成请求被拒绝时广播错误聊天消息并返回 false，状态不变
func (l *Lobby) StartGame() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.startGameLocked()
}

func (l *Lobby) startGameLocked() bool {
	if l.destroyed {
		return false
	}

	l.properties.Set(PropertyIsPublic, "false")

	// 提取区域提示（如有）
	region := ""
	if l.properties.Has(PropertyRegion) {
		region = l.properties.AsString(PropertyRegion)
	}

	task := l.deps.Provisioner.Spawn(l.properties.ToMap(), region, l.generateOptionsLocked())
	if task == nil {
		l.broadcastChatLocked("服务器繁忙，请稍后再试", true)
		return false
	}

	l.setStateLocked(StateStartingGameServer)
	l.setGameSpawnTaskLocked(task)

	return true
}

// generateOptionsLocked 生成请求的附加选项
func (l *Lobby) generateOptionsLocked() map[string]string {
	return map[string]string{
		PropertyLobbyID: strconv.Itoa(l.ID),
	}
}

// StartGameManually 房主手动开始游戏
// 按固定顺序校验，失败原因以错误聊天消息直发给请求者
func (l *Lobby) StartGameManually(client types.ClientInterface) *apperrors.LobbyError {
	l.mu.Lock()
	defer l.mu.Unlock()

	member := l.membersByID[client.GetID()]
	if member == nil {
		return apperrors.ErrNotInLobby
	}

	if !l.cfg.EnableManualStart {
		l.sendChatMessageLocked(member, "本大厅不允许手动开始游戏", true)
		return &apperrors.LobbyError{Code: protocol.ErrCodeManualStartDisabled, Message: protocol.ErrorMessages[protocol.ErrCodeManualStartDisabled]}
	}

	if l.cfg.EnableGameMasters && l.gameMaster != member {
		l.sendChatMessageLocked(member, "您不是本局的房主", true)
		return &apperrors.LobbyError{Code: protocol.ErrCodeNotGameMaster, Message: protocol.ErrorMessages[protocol.ErrCodeNotGameMaster]}
	}

	if l.state != StatePreparations {
		l.sendChatMessageLocked(member, "当前大厅状态无法开始游戏", true)
		return &apperrors.LobbyError{Code: protocol.ErrCodeWrongLobbyState, Message: protocol.ErrorMessages[protocol.ErrCodeWrongLobbyState]}
	}

	if l.destroyed {
		l.sendChatMessageLocked(member, "大厅已销毁", true)
		return apperrors.ErrLobbyDestroyed
	}

	// 房主本人不需要准备
	for _, m := range l.members {
		if !m.IsReady && m != l.gameMaster {
			l.sendChatMessageLocked(member, "还有玩家未准备", true)
			return &apperrors.LobbyError{Code: protocol.ErrCodeNotAllReady, Message: protocol.ErrorMessages[protocol.ErrCodeNotAllReady]}
		}
	}

	if len(l.members) < l.MinPlayers {
		msg := fmt.Sprintf("玩家数量不足，还差 %d 名", l.MinPlayers-len(l.members))
		l.sendChatMessageLocked(member, msg, true)
		return &apperrors.LobbyError{Code: protocol.ErrCodeNotEnoughPlayers, Message: msg}
	}

	for _, name := range l.teamOrder {
		if t := l.teams[name]; t.PlayerCount() < t.MinPlayers {
			msg := fmt.Sprintf("队伍 %s 人数不足", t.Name)
			l.sendChatMessageLocked(member, msg, true)
			return &apperrors.LobbyError{Code: protocol.ErrCodeTeamBelowMin, Message: msg}
		}
	}

	if !l.startGameLocked() {
		return apperrors.ErrServersBusy
	}

	return nil
}

// SetGameSpawnTask 绑定生成任务
// 新任务会先取消旧任务的状态订阅并中止旧任务，保证同一大厅最多一个活跃请求
func (l *Lobby) SetGameSpawnTask(task *spawner.SpawnTask) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setGameSpawnTaskLocked(task)
}

func (l *Lobby) setGameSpawnTaskLocked(task *spawner.SpawnTask) {
	if task == nil || task == l.spawnTask {
		return
	}

	if l.spawnTask != nil {
		// 先退订旧任务，旧任务的任何后续状态事件都不会再进入本大厅
		if l.unsubSpawn != nil {
			l.unsubSpawn()
		}
		l.spawnTask.Abort()
	}

	l.spawnTask = task
	l.unsubSpawn = task.OnStatusChanged(l.handleSpawnStatus)
}

// handleSpawnStatus 生成任务状态流回调
// 由生成器一侧的 goroutine 调用，通过大厅锁与其他操作串行化
func (l *Lobby) handleSpawnStatus(status spawner.Status) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.destroyed {
		return
	}

	isStarting := status > spawner.StatusNone && status < spawner.StatusFinalized

	// 启动过程中的任何中间状态都强制进入"启动中"
	if isStarting && l.state != StateStartingGameServer {
		l.setStateLocked(StateStartingGameServer)
		return
	}

	// 游戏服务器就绪
	if status == spawner.StatusFinalized {
		l.setStateLocked(StateGameInProgress)
		l.bindGameServerLocked()
	}

	// 失败/中止
	if status < spawner.StatusNone {
		if l.state == StateStartingGameServer {
			if l.cfg.PlayAgainEnabled {
				l.setStateLocked(StatePreparations)
			} else {
				l.setStateLocked(StateFailedToStart)
			}
			l.broadcastChatLocked("启动游戏服务器失败", true)
		} else {
			if l.cfg.PlayAgainEnabled {
				l.setStateLocked(StatePreparations)
			} else {
				l.setStateLocked(StateGameOver)
			}
		}
	}
}

// bindGameServerLocked 游戏服务器完成启动后的房间绑定
// 完成数据缺少房间 ID 或查询不到房间时，广播错误并放弃绑定；
// 状态保持 GameInProgress 不回滚
func (l *Lobby) bindGameServerLocked() {
	data := l.spawnTask.FinalizationData()
	if data == nil {
		return
	}

	roomIDStr, ok := data[PropertyRoomID]
	if !ok {
		l.broadcastChatLocked("游戏服务器已就绪，但未找到房间 ID", true)
		return
	}

	roomID, _ := strconv.Atoi(roomIDStr)
	room := l.deps.Rooms.GetRoom(roomID)
	if room == nil {
		l.broadcastChatLocked("找不到已注册的游戏房间", true)
		return
	}

	l.room = room
	l.gameIP = room.Options.RoomIP
	l.gamePort = room.Options.RoomPort

	l.unsubRoom = room.OnDestroyed(l.handleRoomDestroyed)
}

// handleRoomDestroyed 绑定的房间被销毁
// 清空地址与绑定，按"再来一局"策略回到备战或进入终态
func (l *Lobby) handleRoomDestroyed(room *rooms.RegisteredRoom) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.room != room {
		return
	}

	if l.unsubRoom != nil {
		l.unsubRoom()
		l.unsubRoom = nil
	}

	l.gameIP = ""
	l.gamePort = -1
	l.room = nil

	if l.unsubSpawn != nil {
		l.unsubSpawn()
		l.unsubSpawn = nil
	}
	l.spawnTask = nil

	if l.cfg.PlayAgainEnabled {
		l.setStateLocked(StatePreparations)
	} else {
		l.setStateLocked(StateGameOver)
	}
}

// HandleGameAccessRequest 玩家请求访问已绑定的游戏服务器
// 未绑定房间时返回"游戏尚未运行"，否则委托给房间签发访问令牌
func (l *Lobby) HandleGameAccessRequest(client types.ClientInterface, requestData map[string]string, callback rooms.AccessCallback) {
	l.mu.Lock()
	room := l.room
	l.mu.Unlock()

	if room == nil {
		callback(nil, apperrors.ErrGameNotRunning)
		return
	}

	room.GetAccess(client, requestData, callback)
}
