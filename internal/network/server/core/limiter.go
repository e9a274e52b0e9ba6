package core

import (
	"fmt"
	"sync"
	"time"
)

// MessageRateLimiter 消息速率限制器（按客户端 ID，秒级窗口）
type MessageRateLimiter struct {
	maxPerSecond int
	mu           sync.Mutex
	clients      map[string]*messageRate
}

type messageRate struct {
	count      int
	lastSecond time.Time
	warnings   int
}

// NewMessageRateLimiter 创建消息速率限制器
func NewMessageRateLimiter(maxPerSecond int) *MessageRateLimiter {
	return &MessageRateLimiter{
		maxPerSecond: maxPerSecond,
		clients:      make(map[string]*messageRate),
	}
}

// AllowMessage 检查是否允许该客户端继续发消息
func (l *MessageRateLimiter) AllowMessage(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	rate, exists := l.clients[clientID]
	if !exists {
		l.clients[clientID] = &messageRate{count: 1, lastSecond: now}
		return true
	}

	if now.Sub(rate.lastSecond) >= time.Second {
		rate.count = 0
		rate.lastSecond = now
	}

	rate.count++
	if rate.count > l.maxPerSecond {
		rate.warnings++
		return false
	}

	return true
}

// GetWarningCount 获取客户端累计超速次数
func (l *MessageRateLimiter) GetWarningCount(clientID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rate, exists := l.clients[clientID]; exists {
		return rate.warnings
	}
	return 0
}

// RemoveClient 客户端断开时清理记录
func (l *MessageRateLimiter) RemoveClient(clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.clients, clientID)
}

// ChatRateLimiter 聊天速率限制器
// 超限后进入冷却期，冷却期内所有聊天被拒绝
type ChatRateLimiter struct {
	maxPerSecond int
	maxPerMinute int
	cooldown     time.Duration

	mu      sync.Mutex
	clients map[string]*chatRate
}

type chatRate struct {
	secondCount   int
	minuteCount   int
	lastSecond    time.Time
	lastMinute    time.Time
	cooldownUntil time.Time
}

// NewChatRateLimiter 创建聊天速率限制器
func NewChatRateLimiter(maxPerSecond, maxPerMinute int, cooldown time.Duration) *ChatRateLimiter {
	return &ChatRateLimiter{
		maxPerSecond: maxPerSecond,
		maxPerMinute: maxPerMinute,
		cooldown:     cooldown,
		clients:      make(map[string]*chatRate),
	}
}

// AllowChat 检查是否允许该客户端发送聊天
func (l *ChatRateLimiter) AllowChat(clientID string) (allowed bool, reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	rate, exists := l.clients[clientID]
	if !exists {
		l.clients[clientID] = &chatRate{
			secondCount: 1,
			minuteCount: 1,
			lastSecond:  now,
			lastMinute:  now,
		}
		return true, ""
	}

	if now.Before(rate.cooldownUntil) {
		remain := int(time.Until(rate.cooldownUntil).Seconds()) + 1
		return false, fmt.Sprintf("发言过于频繁，请 %d 秒后再试", remain)
	}

	if now.Sub(rate.lastSecond) >= time.Second {
		rate.secondCount = 0
		rate.lastSecond = now
	}
	if now.Sub(rate.lastMinute) >= time.Minute {
		rate.minuteCount = 0
		rate.lastMinute = now
	}

	rate.secondCount++
	rate.minuteCount++

	if rate.secondCount > l.maxPerSecond || rate.minuteCount > l.maxPerMinute {
		rate.cooldownUntil = now.Add(l.cooldown)
		return false, "发言过于频繁，已进入冷却"
	}

	return true, ""
}

// RemoveClient 客户端断开时清理记录
func (l *ChatRateLimiter) RemoveClient(clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.clients, clientID)
}
