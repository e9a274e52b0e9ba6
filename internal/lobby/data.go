package lobby

import (
	"github.com/palemoky/lobby-master/internal/protocol"
	"github.com/palemoky/lobby-master/internal/types"
)

// AddControl 声明一个大厅属性控件并用默认值填充属性
// defaultValue 为空时取第一个选项（如有）
func (l *Lobby) AddControl(control protocol.LobbyPropertyData, defaultValue string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if defaultValue == "" && len(control.Options) > 0 {
		defaultValue = control.Options[0]
	}

	l.properties.Set(control.PropertyKey, defaultValue)
	l.controls = append(l.controls, control)
}

// GenerateLobbyData 生成大厅完整快照
// forClient 非 nil 时填充 CurrentUserUsername
func (l *Lobby) GenerateLobbyData(forClient types.ClientInterface) protocol.LobbyData {
	l.mu.Lock()
	defer l.mu.Unlock()

	members := make(map[string]protocol.MemberData, len(l.members))
	for username, m := range l.members {
		members[username] = m.GenerateData()
	}

	teams := make(map[string]protocol.TeamData, len(l.teams))
	for name, t := range l.teams {
		teams[name] = t.GenerateData()
	}

	master := ""
	if l.gameMaster != nil {
		master = l.gameMaster.Username
	}

	currentUser := ""
	if forClient != nil {
		currentUser = forClient.GetUsername()
	}

	return protocol.LobbyData{
		LobbyID:             l.ID,
		LobbyName:           l.Name,
		LobbyType:           l.Type,
		GameMaster:          master,
		LobbyProperties:     l.properties.ToMap(),
		Members:             members,
		Teams:               teams,
		Controls:            l.controls,
		LobbyState:          int(l.state),
		StatusText:          l.statusText,
		MaxPlayers:          l.MaxPlayers,
		EnableTeamSwitching: l.cfg.EnableTeamSwitching,
		EnableReadySystem:   l.cfg.EnableReadySystem,
		EnableManualStart:   l.cfg.EnableManualStart,
		CurrentUserUsername: currentUser,
	}
}

// GenerateListItem 生成大厅列表条目
func (l *Lobby) GenerateListItem() protocol.LobbyListItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	return protocol.LobbyListItem{
		LobbyID:     l.ID,
		LobbyName:   l.Name,
		LobbyType:   l.Type,
		PlayerCount: len(l.members),
		MaxPlayers:  l.MaxPlayers,
	}
}
