// redis.go
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"color-engine/entities"

	"github.com/go-redis/redis/v8"
)

// RedisStore implements RoomStore on Redis hashes and lists keyed room:<code>:*.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore connects and pings. Keys expire after ttl (0 keeps them).
func NewRedisStore(ctx context.Context, addr string, db int, ttl time.Duration) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "",
		DB:       db,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func roomInfoKey(roomCode string) string {
	return fmt.Sprintf("room:%s:roomInfo", roomCode)
}

func gameLogKey(roomCode string) string {
	return fmt.Sprintf("room:%s:log", roomCode)
}

// SaveRoomInfo writes the whole room info hash.
func (s *RedisStore) SaveRoomInfo(ctx context.Context, info entities.RoomInfo) error {
	key := roomInfoKey(info.RoomCode)
	data := map[string]interface{}{
		"roomCode":   info.RoomCode,
		"status":     string(info.Status),
		"maxPlayers": strconv.Itoa(info.MaxPlayers),
		"host":       info.Host,
		"players":    strings.Join(info.Players, ","),
		"winner":     info.Winner,
		"createdAt":  info.CreatedAt.Format(time.RFC3339Nano),
		"updatedAt":  info.UpdatedAt.Format(time.RFC3339Nano),
	}

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, data)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save room info: %w", err)
	}
	return nil
}

// GetRoomInfo reads the room info hash.
func (s *RedisStore) GetRoomInfo(ctx context.Context, roomCode string) (*entities.RoomInfo, error) {
	m, err := s.rdb.HGetAll(ctx, roomInfoKey(roomCode)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get room info: %w", err)
	}
	if len(m) == 0 {
		return nil, ErrRoomNotFound
	}

	info := &entities.RoomInfo{
		RoomCode: m["roomCode"],
		Status:   entities.RoomStatus(m["status"]),
		Host:     m["host"],
		Winner:   m["winner"],
	}
	if m["players"] != "" {
		info.Players = strings.Split(m["players"], ",")
	}
	if info.MaxPlayers, err = strconv.Atoi(m["maxPlayers"]); err != nil {
		return nil, fmt.Errorf("maxPlayers field: %w", err)
	}
	info.CreatedAt, _ = time.Parse(time.RFC3339Nano, m["createdAt"])
	info.UpdatedAt, _ = time.Parse(time.RFC3339Nano, m["updatedAt"])
	return info, nil
}

// DeleteRoom removes every key under room:<code>: using SCAN.
func (s *RedisStore) DeleteRoom(ctx context.Context, roomCode string) error {
	prefix := fmt.Sprintf("room:%s:", roomCode)
	var cursor uint64
	var keysToDelete []string

	for {
		keys, cur, err := s.rdb.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan room keys: %w", err)
		}
		keysToDelete = append(keysToDelete, keys...)
		cursor = cur
		if cursor == 0 {
			break
		}
	}

	if len(keysToDelete) == 0 {
		return ErrRoomNotFound
	}
	if err := s.rdb.Del(ctx, keysToDelete...).Err(); err != nil {
		return fmt.Errorf("failed to delete room keys: %w", err)
	}
	return nil
}

// AppendGameLog pushes JSON-encoded entries onto the room's log list.
func (s *RedisStore) AppendGameLog(ctx context.Context, roomCode string, entries []entities.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		b, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to encode log entry: %w", err)
		}
		values = append(values, b)
	}

	key := gameLogKey(roomCode)
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key, values...)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append game log: %w", err)
	}
	return nil
}

func (s *RedisStore) GameLog(ctx context.Context, roomCode string) ([]entities.LogEntry, error) {
	raw, err := s.rdb.LRange(ctx, gameLogKey(roomCode), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read game log: %w", err)
	}
	entries := make([]entities.LogEntry, 0, len(raw))
	for _, r := range raw {
		var entry entities.LogEntry
		if err := json.Unmarshal([]byte(r), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
