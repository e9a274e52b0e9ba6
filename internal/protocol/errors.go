package protocol

// 错误码
const (
	ErrCodeUnknown    = 1000
	ErrCodeInvalidMsg = 1001
	ErrCodeRateLimit  = 1002 // 速率限制

	ErrCodeLobbyNotFound   = 2001
	ErrCodeLobbyFull       = 2002
	ErrCodeNotInLobby      = 2003
	ErrCodeAlreadyInLobby  = 2004
	ErrCodeLobbyDestroyed  = 2005
	ErrCodeNotAllowed      = 2006 // 被准入钩子拒绝
	ErrCodeGameLive        = 2007 // 游戏已开始，禁止中途加入
	ErrCodeInvalidTeam     = 2008
	ErrCodeTeamFull        = 2009
	ErrCodeInvalidUsername = 2010

	ErrCodeManualStartDisabled = 3001
	ErrCodeNotGameMaster       = 3002
	ErrCodeWrongLobbyState     = 3003
	ErrCodeNotAllReady         = 3004
	ErrCodeNotEnoughPlayers    = 3005
	ErrCodeTeamBelowMin        = 3006
	ErrCodeServersBusy         = 3007 // 生成服务器请求被拒绝
	ErrCodeGameNotRunning      = 3008 // 未绑定房间，无法获取访问权

	ErrCodeServerMaintenance = 5003 // 服务器维护中
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:    "未知错误",
	ErrCodeInvalidMsg: "无效的消息格式",
	ErrCodeRateLimit:  "请求过于频繁",

	ErrCodeLobbyNotFound:   "大厅不存在",
	ErrCodeLobbyFull:       "大厅已满",
	ErrCodeNotInLobby:      "您不在大厅中",
	ErrCodeAlreadyInLobby:  "您已在其他大厅中",
	ErrCodeLobbyDestroyed:  "大厅已销毁",
	ErrCodeNotAllowed:      "您没有加入权限",
	ErrCodeGameLive:        "游戏已开始",
	ErrCodeInvalidTeam:     "无效的队伍",
	ErrCodeTeamFull:        "队伍已满",
	ErrCodeInvalidUsername: "无效的用户名",

	ErrCodeManualStartDisabled: "不允许手动开始游戏",
	ErrCodeNotGameMaster:       "您不是本局的房主",
	ErrCodeWrongLobbyState:     "当前大厅状态无法开始游戏",
	ErrCodeNotAllReady:         "还有玩家未准备",
	ErrCodeNotEnoughPlayers:    "玩家数量不足",
	ErrCodeTeamBelowMin:        "队伍人数不足",
	ErrCodeServersBusy:         "服务器繁忙，请稍后再试",
	ErrCodeGameNotRunning:      "游戏尚未运行",

	ErrCodeServerMaintenance: "服务器维护中",
}
