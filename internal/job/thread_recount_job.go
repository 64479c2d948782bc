package job

import (
	"Homeport/internal/pkg/consts"
	"Homeport/internal/pkg/logger"
	"Homeport/internal/pkg/redis"
	"Homeport/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// ThreadRecountJob 对账冗余的 thread_count。
// 计数平时靠数据库自增表达式维护，这里兜底修正漂移。
type ThreadRecountJob struct {
	convRepo repository.ConversationRepo
}

func NewThreadRecountJob(convRepo repository.ConversationRepo) *ThreadRecountJob {
	return &ThreadRecountJob{convRepo: convRepo}
}

func (s *ThreadRecountJob) Run() {
	traceID := "job-recount-" + uuid.NewString()
	ctx := logger.WithTraceID(context.Background(), traceID)

	// 多实例部署时同一轮只跑一个
	lockValue := traceID
	locked, err := redis.TryLock(ctx, consts.ThreadRecountLock, lockValue, 10*time.Minute, 1)
	if err != nil {
		log.ErrorContext(ctx, "acquire recount lock error", "err", err)
		return
	}
	if !locked {
		return
	}
	defer redis.UnLock(ctx, consts.ThreadRecountLock, lockValue)

	affected, err := s.convRepo.RecountThreads(ctx)
	if err != nil {
		log.ErrorContext(ctx, "thread recount error", "err", err)
		return
	}
	log.InfoContext(ctx, "ThreadRecountJob done", "affected", affected)
}
