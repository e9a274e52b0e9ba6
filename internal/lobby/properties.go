package lobby

import "strconv"

// 公认的属性键
const (
	PropertyRegion   = "region"   // 生成游戏服务器的目标区域
	PropertyIsPublic = "isPublic" // 大厅是否公开可见
	PropertyRoomID   = "roomId"   // 完成数据中携带的房间 ID
	PropertyLobbyID  = "lobbyId"  // 生成选项中携带的大厅 ID
)

// Properties 属性存储
// 整值覆盖写，每次变更触发一次回调；非并发安全，由持有者串行访问
type Properties struct {
	values   map[string]string
	onChange func(key string)
}

// NewProperties 创建属性存储
func NewProperties() *Properties {
	return &Properties{
		values: make(map[string]string),
	}
}

// SetObserver 注册变更回调，每次单键覆盖触发一次
func (p *Properties) SetObserver(fn func(key string)) {
	p.onChange = fn
}

// Set 覆盖写单个键
func (p *Properties) Set(key, value string) {
	p.values[key] = value
	if p.onChange != nil {
		p.onChange(key)
	}
}

// Append 批量覆盖写，等价于逐键 Set，无跨键事务
func (p *Properties) Append(values map[string]string) {
	for key, value := range values {
		p.Set(key, value)
	}
}

// Has 键是否存在
func (p *Properties) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// AsString 按字符串读取，缺失返回空字符串
func (p *Properties) AsString(key string) string {
	return p.values[key]
}

// AsInt 按整数读取，缺失或格式非法返回 0
func (p *Properties) AsInt(key string) int {
	n, err := strconv.Atoi(p.values[key])
	if err != nil {
		return 0
	}
	return n
}

// AsBool 按布尔读取，缺失或格式非法返回 false
func (p *Properties) AsBool(key string) bool {
	b, err := strconv.ParseBool(p.values[key])
	if err != nil {
		return false
	}
	return b
}

// Len 键数量
func (p *Properties) Len() int {
	return len(p.values)
}

// ToMap 导出为普通 map（副本）
func (p *Properties) ToMap() map[string]string {
	out := make(map[string]string, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}
