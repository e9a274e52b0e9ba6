package lobby

// State 大厅状态
type State int

const (
	StatePreparations       State = iota // 备战中，玩家集结/准备
	StateStartingGameServer              // 正在启动游戏服务器
	StateGameInProgress                  // 游戏进行中
	StateGameOver                        // 游戏结束（终态，除非允许再来一局）
	StateFailedToStart                   // 启动失败（终态，除非允许再来一局）
)

// StatusText 返回状态对应的展示文本
func (s State) StatusText() string {
	switch s {
	case StatePreparations:
		return "等待玩家准备"
	case StateStartingGameServer:
		return "正在启动游戏服务器"
	case StateGameInProgress:
		return "游戏进行中"
	case StateGameOver:
		return "游戏已结束"
	case StateFailedToStart:
		return "游戏服务器启动失败"
	default:
		return "未知状态"
	}
}

// String 返回状态名称
func (s State) String() string {
	switch s {
	case StatePreparations:
		return "Preparations"
	case StateStartingGameServer:
		return "StartingGameServer"
	case StateGameInProgress:
		return "GameInProgress"
	case StateGameOver:
		return "GameOver"
	case StateFailedToStart:
		return "FailedToStart"
	default:
		return "Unknown"
	}
}
