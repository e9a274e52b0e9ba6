package lobby

import (
	"github.com/palemoky/lobby-master/internal/protocol"
	"github.com/palemoky/lobby-master/internal/types"
)

// Member 玩家在一个大厅中的参与记录
// 离开后不会复用，重新加入会构造全新的 Member
type Member struct {
	Username string
	Client   types.ClientInterface
	Team     *Team // 加入队伍前为 nil
	IsReady  bool

	properties map[string]string
}

// NewMember 创建成员
func NewMember(username string, client types.ClientInterface) *Member {
	return &Member{
		Username:   username,
		Client:     client,
		properties: make(map[string]string),
	}
}

// SetProperty 覆盖写成员私有属性
func (m *Member) SetProperty(key, value string) {
	m.properties[key] = value
}

// GetProperty 读取成员私有属性，缺失返回空字符串
func (m *Member) GetProperty(key string) string {
	return m.properties[key]
}

// GenerateData 生成成员数据包
func (m *Member) GenerateData() protocol.MemberData {
	teamName := ""
	if m.Team != nil {
		teamName = m.Team.Name
	}

	props := make(map[string]string, len(m.properties))
	for k, v := range m.properties {
		props[k] = v
	}

	return protocol.MemberData{
		Username:   m.Username,
		Team:       teamName,
		IsReady:    m.IsReady,
		Properties: props,
	}
}
