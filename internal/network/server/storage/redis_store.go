package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/lobby-master/internal/protocol"
)

const (
	// Redis key 前缀
	lobbyKeyPrefix = "lobby:snapshot:"
	statsKey       = "lobby:stats"

	// 大厅快照过期时间
	lobbyExpiration = 2 * time.Hour
)

// RedisStore Redis 存储
// 大厅快照用于重启后的状态巡检与运维排查，不参与在线路径
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// --- 大厅快照 ---

// SaveLobby 保存大厅快照到 Redis
func (rs *RedisStore) SaveLobby(ctx context.Context, data protocol.LobbyData) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("序列化大厅快照失败: %w", err)
	}

	key := lobbyKeyPrefix + strconv.Itoa(data.LobbyID)
	return rs.client.Set(ctx, key, jsonData, lobbyExpiration).Err()
}

// LoadLobby 从 Redis 加载大厅快照，不存在时返回 nil
func (rs *RedisStore) LoadLobby(ctx context.Context, lobbyID int) (*protocol.LobbyData, error) {
	key := lobbyKeyPrefix + strconv.Itoa(lobbyID)
	data, err := rs.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var lobbyData protocol.LobbyData
	if err := json.Unmarshal(data, &lobbyData); err != nil {
		return nil, fmt.Errorf("反序列化大厅快照失败: %w", err)
	}

	return &lobbyData, nil
}

// DeleteLobby 从 Redis 删除大厅快照
func (rs *RedisStore) DeleteLobby(ctx context.Context, lobbyID int) error {
	key := lobbyKeyPrefix + strconv.Itoa(lobbyID)
	return rs.client.Del(ctx, key).Err()
}

// GetAllLobbyIDs 获取所有有快照的大厅 ID
func (rs *RedisStore) GetAllLobbyIDs(ctx context.Context) ([]int, error) {
	keys, err := rs.client.Keys(ctx, lobbyKeyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(keys))
	for _, key := range keys {
		id, err := strconv.Atoi(key[len(lobbyKeyPrefix):])
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// --- 运营统计 ---

// IncrLobbiesCreated 记录创建过的大厅总数
func (rs *RedisStore) IncrLobbiesCreated(ctx context.Context) error {
	return rs.client.HIncrBy(ctx, statsKey, "lobbies_created", 1).Err()
}

// IncrGamesStarted 记录成功进入启动流程的对局总数
func (rs *RedisStore) IncrGamesStarted(ctx context.Context) error {
	return rs.client.HIncrBy(ctx, statsKey, "games_started", 1).Err()
}

// GetStats 读取运营统计
func (rs *RedisStore) GetStats(ctx context.Context) (map[string]string, error) {
	return rs.client.HGetAll(ctx, statsKey).Result()
}
