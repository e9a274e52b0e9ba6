package lobby

import "github.com/palemoky/lobby-master/internal/protocol"

// Team 大厅内的队伍
// 成员列表按加入顺序维护，保证"首位成员"等规则是确定性的
type Team struct {
	Name       string
	MinPlayers int
	MaxPlayers int

	// CanAddPlayer 准入谓词，nil 表示不限制
	CanAddPlayer func(member *Member) bool

	members []*Member // 按加入顺序
}

// NewTeam 创建队伍
func NewTeam(name string, minPlayers, maxPlayers int) *Team {
	return &Team{
		Name:       name,
		MinPlayers: minPlayers,
		MaxPlayers: maxPlayers,
	}
}

// PlayerCount 当前成员数
func (t *Team) PlayerCount() int {
	return len(t.members)
}

// Members 成员列表（按加入顺序，副本）
func (t *Team) Members() []*Member {
	out := make([]*Member, len(t.members))
	copy(out, t.members)
	return out
}

// CanAccept 队伍是否能接纳该成员（容量 + 准入谓词）
func (t *Team) CanAccept(member *Member) bool {
	if len(t.members) >= t.MaxPlayers {
		return false
	}
	if t.CanAddPlayer != nil && !t.CanAddPlayer(member) {
		return false
	}
	return true
}

// AddMember 加入成员，成功时设置成员的队伍引用
func (t *Team) AddMember(member *Member) bool {
	if !t.CanAccept(member) {
		return false
	}

	t.members = append(t.members, member)
	member.Team = t

	return true
}

// RemoveMember 移除成员并清空其队伍引用
// 成员不在队伍中时为空操作
func (t *Team) RemoveMember(member *Member) {
	for i, m := range t.members {
		if m == member {
			t.members = append(t.members[:i], t.members[i+1:]...)
			if member.Team == t {
				member.Team = nil
			}
			return
		}
	}
}

// GenerateData 生成队伍数据包
func (t *Team) GenerateData() protocol.TeamData {
	return protocol.TeamData{
		Name:       t.Name,
		MinPlayers: t.MinPlayers,
		MaxPlayers: t.MaxPlayers,
	}
}
