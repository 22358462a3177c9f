package recency

import (
	"Abode/internal/pkg/consts"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/redis/go-redis/v9"
)

// MemoryStorage 进程内存储
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryStorage) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// RedisStorage 按客户端 key 存 Redis，带过期时间
type RedisStorage struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStorage(rdb *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{rdb: rdb, ttl: ttl}
}

func (r *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.rdb.Get(ctx, consts.RecencyCacheKey+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return v, err
}

func (r *RedisStorage) Set(ctx context.Context, key string, value []byte) error {
	return r.rdb.Set(ctx, consts.RecencyCacheKey+key, value, r.ttl).Err()
}

func (r *RedisStorage) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, consts.RecencyCacheKey+key).Err()
}

// SessionStorage 存浏览器会话 cookie，每次写入立即 Save
type SessionStorage struct {
	session sessions.Session
}

func NewSessionStorage(session sessions.Session) *SessionStorage {
	return &SessionStorage{session: session}
}

func (s *SessionStorage) Get(_ context.Context, key string) ([]byte, error) {
	switch v := s.session.Get(key).(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, nil
	}
}

func (s *SessionStorage) Set(_ context.Context, key string, value []byte) error {
	s.session.Set(key, string(value))
	return s.session.Save()
}

func (s *SessionStorage) Delete(_ context.Context, key string) error {
	s.session.Delete(key)
	return s.session.Save()
}
