package rooms

import "time"

// Options 房间注册时携带的选项
type Options struct {
	Name string // 房间名称

	RoomIP   string // 游戏服务器地址
	RoomPort int    // 游戏服务器端口

	IsPublic       bool   // 是否出现在公开列表中
	MaxConnections int    // 0 表示不限人数
	Password       string // 房间密码，空表示无密码

	// 未确认（pending）的访问令牌超时后被清除，为新玩家腾位
	AccessTimeout time.Duration

	// 为 false 时玩家不能直接请求访问，只能通过大厅等其他途径获取
	AllowUsersRequestAccess bool

	Region string // 房间所属区域

	Properties map[string]string // 附加属性
}

// DefaultOptions 返回默认房间选项
func DefaultOptions() Options {
	return Options{
		Name:                    "Unnamed",
		RoomPort:                -1,
		IsPublic:                true,
		AccessTimeout:           10 * time.Second,
		AllowUsersRequestAccess: true,
		Region:                  "International",
	}
}
