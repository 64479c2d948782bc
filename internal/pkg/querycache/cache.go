package querycache

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
)

// 查询结果的新鲜度档位。未读数这类必须"跟手"的查询走短档位，
// 资料信息等低频变更数据走长档位。
const (
	TierRealtime = 1 * time.Minute
	TierStandard = 5 * time.Minute
	TierModerate = 10 * time.Minute
	TierStable   = 30 * time.Minute
	TierStatic   = 24 * time.Hour
)

type entry struct {
	data      []byte
	fetchedAt time.Time
	ttl       time.Duration
}

func (e *entry) stale(now time.Time) bool {
	return now.Sub(e.fetchedAt) > e.ttl
}

// Cache 进程内查询缓存。键为 (查询类型, 参数, 查看者)，
// 相同键的并发加载合并为一次，写路径通过 Snapshot/Restore 支持乐观更新回滚。
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group

	// now 可在测试中替换以控制时钟
	now func() time.Time
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Key 组装缓存键：kind:viewerID:params...
func Key(kind string, viewerID uint64, params ...string) string {
	parts := make([]string, 0, len(params)+2)
	parts = append(parts, kind, strconv.FormatUint(viewerID, 10))
	parts = append(parts, params...)
	return strings.Join(parts, ":")
}

func (c *Cache) lookup(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.stale(c.now()) {
		return nil, false
	}
	return e.data, true
}

func (c *Cache) store(key string, data []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry{data: data, fetchedAt: c.now(), ttl: ttl}
}

// Do 经缓存执行查询：命中新鲜条目直接反序列化返回，
// 未命中时相同键的并发调用只触发一次 loader。
func Do[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, loader func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if data, ok := c.lookup(key); ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return v, nil
		}
		// 反序列化失败按未命中处理，重新加载覆盖
	}

	res, err, _ := c.group.Do(key, func() (interface{}, error) {
		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		c.store(key, data, ttl)
		return data, nil
	})
	if err != nil {
		return zero, err
	}

	var v T
	if err := json.Unmarshal(res.([]byte), &v); err != nil {
		return zero, err
	}
	return v, nil
}

// Snapshot 某个键的完整缓存快照，用于乐观更新失败后的精确回滚
type Snapshot struct {
	key       string
	data      []byte
	fetchedAt time.Time
	ttl       time.Duration
	present   bool
}

// Snapshot 捕获键当前的条目字节，条目不存在时记录缺席状态
func (c *Cache) Snapshot(key string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Snapshot{key: key}
	}
	data := make([]byte, len(e.data))
	copy(data, e.data)
	return Snapshot{key: key, data: data, fetchedAt: e.fetchedAt, ttl: e.ttl, present: true}
}

// Restore 将键恢复到快照时刻的确切状态，快照时不存在则删除
func (c *Cache) Restore(snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !snap.present {
		delete(c.entries, snap.key)
		return
	}
	c.entries[snap.key] = &entry{data: snap.data, fetchedAt: snap.fetchedAt, ttl: snap.ttl}
}

// Mutate 对已缓存的值应用本地变更（乐观更新）。键不存在时不做任何事。
func Mutate[T any](c *Cache, key string, fn func(T) T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil
	}

	var v T
	if err := json.Unmarshal(e.data, &v); err != nil {
		return err
	}
	data, err := json.Marshal(fn(v))
	if err != nil {
		return err
	}
	e.data = data
	return nil
}

// Invalidate 删除单个键
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidatePrefix 删除某一前缀下的所有键（如某会话的全部线程页）
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

// Sweep 清理过期条目，返回清理数量，由定时任务周期调用
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if e.stale(now) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}
