package rooms

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/palemoky/lobby-master/internal/types"
)

var (
	ErrRoomDestroyed      = errors.New("room is destroyed")
	ErrWrongPassword      = errors.New("wrong password")
	ErrDirectAccessDenied = errors.New("direct access requests are not allowed")
	ErrRoomFull           = errors.New("room is full")
	ErrInvalidAccessToken = errors.New("invalid access token")
)

// Access 已签发的房间访问权
type Access struct {
	Token    string
	RoomIP   string
	RoomPort int
	RoomID   int
}

// AccessCallback 访问请求结果回调
type AccessCallback func(access *Access, err error)

// pendingAccess 尚未被游戏服务器确认的访问令牌
type pendingAccess struct {
	clientID  string
	expiresAt time.Time
}

// RegisteredRoom 已注册的游戏房间
// 由完成启动的游戏服务器在注册表中创建，销毁时通知所有订阅者
type RegisteredRoom struct {
	ID      int
	Options Options

	mu          sync.Mutex
	destroyed   bool
	subscribers map[int]func(*RegisteredRoom)
	nextSub     int
	pending     map[string]pendingAccess
	confirmed   map[string]string // token -> clientID
}

func newRegisteredRoom(id int, options Options) *RegisteredRoom {
	return &RegisteredRoom{
		ID:          id,
		Options:     options,
		subscribers: make(map[int]func(*RegisteredRoom)),
		pending:     make(map[string]pendingAccess),
		confirmed:   make(map[string]string),
	}
}

// OnDestroyed 订阅房间销毁通知，返回取消订阅函数
func (r *RegisteredRoom) OnDestroyed(fn func(*RegisteredRoom)) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subscribers[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subscribers, id)
		r.mu.Unlock()
	}
}

// IsDestroyed 房间是否已销毁
func (r *RegisteredRoom) IsDestroyed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.destroyed
}

// destroy 标记销毁并通知订阅者，只生效一次
func (r *RegisteredRoom) destroy() {
	r.mu.Lock()
	if r.destroyed {
		r.mu.Unlock()
		return
	}
	r.destroyed = true

	subs := make([]func(*RegisteredRoom), 0, len(r.subscribers))
	for _, fn := range r.subscribers {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	for _, fn := range subs {
		fn(r)
	}
}

// GetAccess 为玩家签发访问令牌
// requestData 可携带密码等附加数据；结果通过回调返回
func (r *RegisteredRoom) GetAccess(client types.ClientInterface, requestData map[string]string, callback AccessCallback) {
	r.mu.Lock()

	if r.destroyed {
		r.mu.Unlock()
		callback(nil, ErrRoomDestroyed)
		return
	}

	if r.Options.Password != "" && requestData["password"] != r.Options.Password {
		r.mu.Unlock()
		callback(nil, ErrWrongPassword)
		return
	}

	r.purgeExpiredLocked()

	// 已确认 + 未确认的访问都占名额
	if r.Options.MaxConnections > 0 && len(r.pending)+len(r.confirmed) >= r.Options.MaxConnections {
		r.mu.Unlock()
		callback(nil, ErrRoomFull)
		return
	}

	token := uuid.New().String()
	r.pending[token] = pendingAccess{
		clientID:  client.GetID(),
		expiresAt: time.Now().Add(r.Options.AccessTimeout),
	}

	access := &Access{
		Token:    token,
		RoomIP:   r.Options.RoomIP,
		RoomPort: r.Options.RoomPort,
		RoomID:   r.ID,
	}
	r.mu.Unlock()

	callback(access, nil)
}

// RequestAccess 玩家绕过大厅直接请求访问
// 房间未开放直接访问时拒绝，否则与 GetAccess 相同
func (r *RegisteredRoom) RequestAccess(client types.ClientInterface, requestData map[string]string, callback AccessCallback) {
	r.mu.Lock()
	allowed := r.Options.AllowUsersRequestAccess
	r.mu.Unlock()

	if !allowed {
		callback(nil, ErrDirectAccessDenied)
		return
	}

	r.GetAccess(client, requestData, callback)
}

// ConfirmAccess 游戏服务器确认玩家连入，消费待定令牌
func (r *RegisteredRoom) ConfirmAccess(token string) (clientID string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.purgeExpiredLocked()

	p, ok := r.pending[token]
	if !ok {
		return "", ErrInvalidAccessToken
	}

	delete(r.pending, token)
	r.confirmed[token] = p.clientID

	return p.clientID, nil
}

// purgeExpiredLocked 清除过期的待定令牌，调用方需持锁
func (r *RegisteredRoom) purgeExpiredLocked() {
	now := time.Now()
	for token, p := range r.pending {
		if now.After(p.expiresAt) {
			delete(r.pending, token)
		}
	}
}
