package lobby

import (
	"github.com/palemoky/lobby-master/internal/rooms"
	"github.com/palemoky/lobby-master/internal/spawner"
	"github.com/palemoky/lobby-master/internal/types"
)

// Config 大厅策略配置，构造后不可变
type Config struct {
	EnableTeamSwitching               bool // 允许切换队伍
	EnableReadySystem                 bool // 启用准备系统
	EnableManualStart                 bool // 允许房主手动开始
	EnableGameMasters                 bool // 启用房主机制
	StartGameWhenAllReady             bool // 全员准备后自动开始
	PlayAgainEnabled                  bool // 结束/失败后回到备战而非终止
	AllowJoiningWhenGameIsLive        bool // 游戏进行中允许加入
	AllowPlayersChangeLobbyProperties bool // 允许玩家修改大厅属性
	KeepAliveWithZeroPlayers          bool // 最后一人离开后保留大厅
}

// Provisioner 生成游戏服务器的外部能力
// 拒绝生成时返回 nil
type Provisioner interface {
	Spawn(properties map[string]string, region string, options map[string]string) *spawner.SpawnTask
}

// RoomLookup 房间注册表查询能力
type RoomLookup interface {
	GetRoom(id int) *rooms.RegisteredRoom
}

// Hooks 大厅策略钩子
// 以组合而非继承的方式注入定制点，所有方法都有缺省实现
type Hooks interface {
	// IsPlayerAllowed 准入检查（封禁名单等），在加入大厅前调用
	IsPlayerAllowed(username string, client types.ClientInterface) bool

	// IsPlayerPropertyChangeable 成员是否允许修改该私有属性
	IsPlayerPropertyChangeable(member *Member, key, value string) bool

	// PickTeam 为新成员挑选队伍，返回 nil 表示使用默认规则
	// （可接纳队伍中人数最少者，并列时按队伍声明顺序）
	PickTeam(lobby *Lobby, member *Member) *Team
}

// DefaultHooks 缺省钩子实现：全部放行、使用默认选队规则
type DefaultHooks struct{}

func (DefaultHooks) IsPlayerAllowed(username string, client types.ClientInterface) bool {
	return true
}

func (DefaultHooks) IsPlayerPropertyChangeable(member *Member, key, value string) bool {
	return true
}

func (DefaultHooks) PickTeam(lobby *Lobby, member *Member) *Team {
	return nil
}

// Deps 大厅运行所需的外部能力
type Deps struct {
	Provisioner Provisioner
	Rooms       RoomLookup
	Hooks       Hooks
	OnDestroyed func(*Lobby) // 销毁通知，管理器用来摘除索引
}
