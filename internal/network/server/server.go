package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/lobby-master/internal/config"
	"github.com/palemoky/lobby-master/internal/lobby"
	"github.com/palemoky/lobby-master/internal/network/server/core"
	"github.com/palemoky/lobby-master/internal/network/server/handlers"
	"github.com/palemoky/lobby-master/internal/network/server/storage"
	"github.com/palemoky/lobby-master/internal/protocol"
	"github.com/palemoky/lobby-master/internal/protocol/codec"
	"github.com/palemoky/lobby-master/internal/rooms"
	"github.com/palemoky/lobby-master/internal/spawner"
	"github.com/palemoky/lobby-master/internal/types"
)

// Server WebSocket 服务器
type Server struct {
	config       *config.Config
	redis        *redis.Client
	redisStore   *storage.RedisStore
	lobbyManager *lobby.Manager
	spawnModule  *spawner.Module
	roomRegistry *rooms.Registry
	clients      map[string]*Client
	clientsMu    sync.RWMutex
	handler      *handlers.Handler

	// 安全组件
	originChecker  *core.OriginChecker
	messageLimiter *core.MessageRateLimiter
	chatLimiter    *core.ChatRateLimiter

	// 连接控制
	maxConnections int
	semaphore      chan struct{} // 信号量控制并发连接数

	// 维护模式
	maintenanceMode bool
	maintenanceMu   sync.RWMutex

	upgrader websocket.Upgrader
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) (*Server, error) {
	// 初始化 Redis 客户端
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// 测试 Redis 连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis 连接失败: %w", err)
	}

	s := &Server{
		config:     cfg,
		redis:      rdb,
		redisStore: storage.NewRedisStore(rdb),
		clients:    make(map[string]*Client),
		// 初始化安全组件
		originChecker:  core.NewOriginChecker(cfg.Security.AllowedOrigins),
		messageLimiter: core.NewMessageRateLimiter(cfg.Security.MessageLimit.MaxPerSecond),
		chatLimiter: core.NewChatRateLimiter(
			cfg.Security.ChatLimit.MaxPerSecond,
			cfg.Security.ChatLimit.MaxPerMinute,
			cfg.Security.ChatLimit.CooldownDuration(),
		),
		// 初始化连接控制
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.originChecker.Check,
	}

	// 初始化生成器，按配置注册机器
	s.spawnModule = spawner.NewModule()
	for _, m := range cfg.Spawner.Machines {
		s.spawnModule.RegisterMachine(m.Region, m.MaxProcesses)
	}

	// 初始化房间注册表与大厅管理器
	s.roomRegistry = rooms.NewRegistry()
	s.lobbyManager = lobby.NewManager(s.spawnModule, s.roomRegistry, nil)
	s.lobbyManager.SetDestroyListener(func(l *lobby.Lobby) {
		s.DeleteLobbySnapshot(l.ID)
	})

	// 初始化消息处理器
	s.handler = handlers.NewHandler(s)

	log.Printf("🔒 安全配置: 消息限制=%d/s, 聊天限制=%d/s, 最大连接数=%d",
		cfg.Security.MessageLimit.MaxPerSecond, cfg.Security.ChatLimit.MaxPerSecond, cfg.Server.MaxConnections)

	return s, nil
}

// Start 启动服务器
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	http.HandleFunc("/ws", s.handleWebSocket)
	http.HandleFunc("/health", s.handleHealth)

	// 启动监控 goroutine
	go s.monitorStats()

	log.Printf("🚀 服务器启动在 ws://%s/ws (CPU核心数: %d)", addr, runtime.NumCPU())
	server := &http.Server{
		Addr:              addr,
		Handler:           nil,
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return server.ListenAndServe()
}

// handleWebSocket 处理 WebSocket 连接
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// 维护模式检查（最优先）
	if s.IsMaintenanceMode() {
		log.Printf("🔧 维护模式，拒绝新连接: %s", r.RemoteAddr)
		http.Error(w, "Server is under maintenance, please try again later",
			http.StatusServiceUnavailable)
		return
	}

	// 连接数限制检查
	select {
	case s.semaphore <- struct{}{}:
		// 成功获取信号量，连接断开后释放
	default:
		log.Printf("🚫 达到最大连接数限制 (%d), 来源: %s", s.maxConnections, r.RemoteAddr)
		http.Error(w, "Server Full", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		<-s.semaphore
		log.Printf("WebSocket 升级失败: %v", err)
		return
	}

	// 创建客户端
	client := NewClient(s, conn)
	client.IP = r.RemoteAddr
	s.registerClient(client)

	// 发送连接成功消息
	client.SendMessage(codec.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		PeerID:   client.ID,
		Username: client.Username,
	}))

	log.Printf("✅ 玩家 %s (%s) 已连接", client.Username, client.ID)

	// 启动客户端读写协程
	go client.ReadPump()
	go client.WritePump()
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// registerClient 注册客户端
func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ID] = client
}

// unregisterClient 注销客户端并释放连接槽
func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[client.ID]; ok {
		delete(s.clients, client.ID)
		<-s.semaphore
		log.Printf("❌ 玩家 %s (%s) 已断开", client.Username, client.ID)
	}
}

// GetOnlineCount 获取在线人数
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Broadcast 广播消息给所有客户端
func (s *Server) Broadcast(msg *protocol.Message) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, client := range s.clients {
		client.SendMessage(msg)
	}
}

// monitorStats 定期监控服务器状态
func (s *Server) monitorStats() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		log.Printf("📊 [监控] 在线: %d | 大厅: %d | 房间: %d | Goroutines: %d | 连接: %d/%d | 内存: %.2f MB",
			s.GetOnlineCount(),
			s.lobbyManager.Count(),
			s.roomRegistry.Count(),
			runtime.NumGoroutine(),
			len(s.semaphore),
			s.maxConnections,
			float64(m.Alloc)/1024/1024)
	}
}

// EnterMaintenanceMode 进入维护模式
func (s *Server) EnterMaintenanceMode() {
	s.maintenanceMu.Lock()
	s.maintenanceMode = true
	s.maintenanceMu.Unlock()

	// 通知所有在线玩家
	s.Broadcast(codec.MustNewMessage(protocol.MsgError, protocol.ErrorPayload{
		Code:    protocol.ErrCodeServerMaintenance,
		Message: "👷🏻‍♂️ 维护模式：停止创建和加入大厅",
	}))

	log.Println("🔧 进入维护模式：停止新连接和大厅创建")
}

// IsMaintenanceMode 检查是否在维护模式
func (s *Server) IsMaintenanceMode() bool {
	s.maintenanceMu.RLock()
	defer s.maintenanceMu.RUnlock()
	return s.maintenanceMode
}

// GracefulShutdown 优雅关闭服务器
// 先进维护模式，等进行中的对局结束或超时后关闭
func (s *Server) GracefulShutdown(timeout time.Duration) {
	s.EnterMaintenanceMode()

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		if live := s.liveGameCount(); live == 0 {
			log.Println("✅ 所有对局已结束，关闭服务器")
			break
		} else {
			log.Printf("⏳ 等待 %d 个对局结束...", live)
		}
		<-ticker.C
	}

	if live := s.liveGameCount(); live > 0 {
		log.Printf("⚠️ 超时，仍有 %d 个对局进行中，强制关闭", live)
	}

	s.Shutdown()
}

// liveGameCount 统计有对局正在启动或进行中的大厅数
func (s *Server) liveGameCount() int {
	count := 0
	for _, l := range s.lobbyManager.List() {
		switch l.State() {
		case lobby.StateStartingGameServer, lobby.StateGameInProgress:
			count++
		}
	}
	return count
}

// Shutdown 关闭服务器
func (s *Server) Shutdown() {
	// 销毁所有大厅（顺带清理 Redis 快照）
	for _, l := range s.lobbyManager.List() {
		l.Destroy()
	}

	// 关闭所有客户端连接
	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clientsMu.Unlock()

	// 关闭 Redis
	_ = s.redis.Close()

	log.Println("服务器已关闭")
}

// --- types.ServerContext 实现 ---

func (s *Server) GetConfig() *config.Config         { return s.config }
func (s *Server) GetLobbyManager() *lobby.Manager   { return s.lobbyManager }
func (s *Server) GetChatLimiter() types.ChatLimiter { return s.chatLimiter }
func (s *Server) GetSpawnModule() *spawner.Module   { return s.spawnModule }
func (s *Server) GetRoomRegistry() *rooms.Registry  { return s.roomRegistry }

// SaveLobbySnapshot 把大厅快照写入 Redis，失败只记日志
func (s *Server) SaveLobbySnapshot(l *lobby.Lobby) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.redisStore.SaveLobby(ctx, l.GenerateLobbyData(nil)); err != nil {
		log.Printf("保存大厅 %d 快照失败: %v", l.ID, err)
	}
}

// DeleteLobbySnapshot 删除大厅快照
func (s *Server) DeleteLobbySnapshot(lobbyID int) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.redisStore.DeleteLobby(ctx, lobbyID); err != nil {
		log.Printf("删除大厅 %d 快照失败: %v", lobbyID, err)
	}
}

// RecordLobbyCreated 累计大厅创建数
func (s *Server) RecordLobbyCreated() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.redisStore.IncrLobbiesCreated(ctx)
}

// RecordGameStarted 累计开局数
func (s *Server) RecordGameStarted() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.redisStore.IncrGamesStarted(ctx)
}
