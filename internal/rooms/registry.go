package rooms

import (
	"log"
	"sync"
)

// Registry 房间注册表
// 完成启动的游戏服务器在这里注册自己，供大厅按 roomId 绑定
type Registry struct {
	mu     sync.RWMutex
	rooms  map[int]*RegisteredRoom
	nextID int
}

// NewRegistry 创建房间注册表
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[int]*RegisteredRoom),
	}
}

// Register 注册房间
func (reg *Registry) Register(options Options) *RegisteredRoom {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.nextID++
	room := newRegisteredRoom(reg.nextID, options)
	reg.rooms[room.ID] = room

	log.Printf("🎮 房间已注册: id=%d addr=%s:%d region=%s", room.ID, options.RoomIP, options.RoomPort, options.Region)

	return room
}

// GetRoom 按 ID 查找房间，不存在时返回 nil
func (reg *Registry) GetRoom(id int) *RegisteredRoom {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.rooms[id]
}

// DestroyRoom 销毁房间并从注册表移除
// 对不存在的房间调用是空操作
func (reg *Registry) DestroyRoom(id int) {
	reg.mu.Lock()
	room, exists := reg.rooms[id]
	if exists {
		delete(reg.rooms, id)
	}
	reg.mu.Unlock()

	if !exists {
		return
	}

	room.destroy()

	log.Printf("🎮 房间已销毁: id=%d", id)
}

// Count 当前注册的房间数
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}
