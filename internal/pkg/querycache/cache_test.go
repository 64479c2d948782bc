package querycache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inboxView struct {
	Items  []string `json:"items"`
	Unread int64    `json:"unread"`
}

func TestKey(t *testing.T) {
	assert.Equal(t, "inbox:42:starred:boiler", Key("inbox", 42, "starred", "boiler"))
	assert.Equal(t, "unread:7", Key("unread", 7))
}

func TestDoCachesWithinTTL(t *testing.T) {
	c := New()
	var calls int32

	loader := func(ctx context.Context) (*inboxView, error) {
		atomic.AddInt32(&calls, 1)
		return &inboxView{Items: []string{"a"}, Unread: 3}, nil
	}

	first, err := Do(context.Background(), c, "inbox:1:inbox:", TierStandard, loader)
	require.NoError(t, err)
	second, err := Do(context.Background(), c, "inbox:1:inbox:", TierStandard, loader)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, first, second)
	assert.Equal(t, int64(3), second.Unread)
}

func TestDoReloadsAfterTierExpiry(t *testing.T) {
	c := New()
	now := time.Now()
	c.now = func() time.Time { return now }

	var calls int32
	loader := func(ctx context.Context) (*inboxView, error) {
		atomic.AddInt32(&calls, 1)
		return &inboxView{Unread: int64(atomic.LoadInt32(&calls))}, nil
	}

	_, err := Do(context.Background(), c, "k", TierRealtime, loader)
	require.NoError(t, err)

	// 档位内命中
	now = now.Add(30 * time.Second)
	v, err := Do(context.Background(), c, "k", TierRealtime, loader)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Unread)

	// 过档位后回源
	now = now.Add(TierRealtime)
	v, err = Do(context.Background(), c, "k", TierRealtime, loader)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Unread)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDoCoalescesConcurrentLoads(t *testing.T) {
	c := New()
	var calls int32
	release := make(chan struct{})

	loader := func(ctx context.Context) (*inboxView, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return &inboxView{Unread: 9}, nil
	}

	var wg sync.WaitGroup
	results := make([]*inboxView, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			v, err := Do(context.Background(), c, "shared", TierStandard, loader)
			assert.NoError(t, err)
			results[idx] = v
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, int64(9), v.Unread)
	}
}

func TestDoLoaderErrorNotCached(t *testing.T) {
	c := New()
	var calls int32

	_, err := Do(context.Background(), c, "boom", TierStandard, func(ctx context.Context) (*inboxView, error) {
		atomic.AddInt32(&calls, 1)
		return nil, assert.AnError
	})
	require.Error(t, err)

	v, err := Do(context.Background(), c, "boom", TierStandard, func(ctx context.Context) (*inboxView, error) {
		atomic.AddInt32(&calls, 1)
		return &inboxView{Unread: 1}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Unread)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSnapshotRestoreExactBytes(t *testing.T) {
	c := New()

	_, err := Do(context.Background(), c, "thread:5:1", TierRealtime, func(ctx context.Context) (*inboxView, error) {
		return &inboxView{Items: []string{"m1", "m2"}, Unread: 2}, nil
	})
	require.NoError(t, err)

	snap := c.Snapshot("thread:5:1")
	before := c.entries["thread:5:1"].data

	// 乐观变更
	err = Mutate(c, "thread:5:1", func(v *inboxView) *inboxView {
		v.Items = append(v.Items, "tmp-abc")
		return v
	})
	require.NoError(t, err)
	assert.NotEqual(t, string(before), string(c.entries["thread:5:1"].data))

	// 回滚后逐字节一致
	c.Restore(snap)
	assert.Equal(t, string(before), string(c.entries["thread:5:1"].data))
}

func TestRestoreAbsentSnapshotDeletes(t *testing.T) {
	c := New()

	snap := c.Snapshot("ghost")
	assert.False(t, snap.present)

	_, err := Do(context.Background(), c, "ghost", TierStandard, func(ctx context.Context) (*inboxView, error) {
		return &inboxView{Unread: 1}, nil
	})
	require.NoError(t, err)

	c.Restore(snap)
	_, ok := c.entries["ghost"]
	assert.False(t, ok)
}

func TestMutateMissingKeyIsNoop(t *testing.T) {
	c := New()
	err := Mutate(c, "missing", func(v *inboxView) *inboxView {
		v.Unread = 99
		return v
	})
	assert.NoError(t, err)
	_, ok := c.entries["missing"]
	assert.False(t, ok)
}

func TestInvalidatePrefix(t *testing.T) {
	c := New()
	for _, key := range []string{"thread:5:1", "thread:5:2", "thread:6:1", "inbox:1:inbox:"} {
		k := key
		_, err := Do(context.Background(), c, k, TierStandard, func(ctx context.Context) (*inboxView, error) {
			return &inboxView{}, nil
		})
		require.NoError(t, err)
	}

	c.InvalidatePrefix("thread:5:")

	_, ok := c.entries["thread:5:1"]
	assert.False(t, ok)
	_, ok = c.entries["thread:5:2"]
	assert.False(t, ok)
	_, ok = c.entries["thread:6:1"]
	assert.True(t, ok)
	_, ok = c.entries["inbox:1:inbox:"]
	assert.True(t, ok)
}

func TestSweepRemovesOnlyStale(t *testing.T) {
	c := New()
	now := time.Now()
	c.now = func() time.Time { return now }

	_, err := Do(context.Background(), c, "short", TierRealtime, func(ctx context.Context) (*inboxView, error) {
		return &inboxView{}, nil
	})
	require.NoError(t, err)
	_, err = Do(context.Background(), c, "long", TierStatic, func(ctx context.Context) (*inboxView, error) {
		return &inboxView{}, nil
	})
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	removed := c.Sweep()

	assert.Equal(t, 1, removed)
	_, ok := c.entries["short"]
	assert.False(t, ok)
	_, ok = c.entries["long"]
	assert.True(t, ok)
}
