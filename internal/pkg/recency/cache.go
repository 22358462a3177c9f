package recency

import (
	"Abode/internal/pkg/consts"
	"context"
	log "log/slog"

	"github.com/goccy/go-json"
)

// Storage 最近浏览的持久化后端，按 key 读写原始字节
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Cache 客户端最近浏览列表，最近的在前，容量固定
type Cache struct {
	storage  Storage
	key      string
	capacity int
}

// NewCache capacity <= 0 时使用默认容量
func NewCache(storage Storage, key string, capacity int) *Cache {
	if capacity <= 0 {
		capacity = consts.DefaultRecencyCapacity
	}
	return &Cache{storage: storage, key: key, capacity: capacity}
}

// Touch 移到队首，超出容量时淘汰最旧的
func (c *Cache) Touch(ctx context.Context, id uint64) error {
	ids := c.List(ctx)

	next := make([]uint64, 0, c.capacity)
	next = append(next, id)
	for _, existing := range ids {
		if existing == id {
			continue
		}
		if len(next) >= c.capacity {
			break
		}
		next = append(next, existing)
	}

	data, err := json.Marshal(next)
	if err != nil {
		return err
	}
	return c.storage.Set(ctx, c.key, data)
}

// List 读取失败或数据损坏时视为空列表
func (c *Cache) List(ctx context.Context) []uint64 {
	raw, err := c.storage.Get(ctx, c.key)
	if err != nil {
		log.WarnContext(ctx, "recency storage read failed", "key", c.key, "err", err)
		return []uint64{}
	}
	if len(raw) == 0 {
		return []uint64{}
	}

	var ids []uint64
	if err = json.Unmarshal(raw, &ids); err != nil {
		log.WarnContext(ctx, "recency payload corrupt, reset", "key", c.key, "err", err)
		return []uint64{}
	}

	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		if len(out) >= c.capacity {
			break
		}
	}
	return out
}

func (c *Cache) Clear(ctx context.Context) error {
	return c.storage.Delete(ctx, c.key)
}
