package job

import (
	"Homeport/internal/pkg/querycache"
	log "log/slog"
)

// CacheSweepJob 周期清理查询缓存里的过期条目，控制常驻内存
type CacheSweepJob struct {
	cache *querycache.Cache
}

func NewCacheSweepJob(cache *querycache.Cache) *CacheSweepJob {
	return &CacheSweepJob{cache: cache}
}

func (s *CacheSweepJob) Run() {
	removed := s.cache.Sweep()
	if removed > 0 {
		log.Info("CacheSweepJob done", "removed", removed)
	}
}
