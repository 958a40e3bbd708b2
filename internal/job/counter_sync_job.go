package job

import (
	"Ripple/internal/pkg/consts"
	"Ripple/internal/pkg/logger"
	"Ripple/internal/pkg/redis"
	"Ripple/internal/pkg/util"
	"Ripple/internal/repository"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// CounterSyncJob 定期把脏帖子的点赞数、评论数回写到 posts 表
type CounterSyncJob struct {
	postRepo   repository.PostRepo
	actionRepo repository.PostActionRepo
}

func NewCounterSyncJob(postRepo repository.PostRepo, actionRepo repository.PostActionRepo) *CounterSyncJob {
	return &CounterSyncJob{
		postRepo:   postRepo,
		actionRepo: actionRepo,
	}
}

func (s *CounterSyncJob) Run() {
	traceID := "job-counter-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	// 原子地把脏集合换名为 processing，避免和在线请求写入竞争
	processingKey := consts.PostDirtyKey + ":processing"
	err := redis.Rename(ctx, consts.PostDirtyKey, processingKey)
	if err != nil {
		// 脏集合为空是常态，真正的 redis 故障要暴露出来
		if !redis.IsNoSuchKey(err) {
			log.ErrorContext(ctx, "rotate post dirty set error", "err", err)
		}
		return
	}

	tempSet, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get post dirty set error", "err", err)
		return
	}

	postIDs, err := util.StrSliceToUInt64Slice(tempSet)
	if err != nil {
		log.ErrorContext(ctx, "convert post set to int slice error", "err", err)
		return
	}

	synced := 0
	for _, pid := range postIDs {
		likes, err := s.actionRepo.GetLikeCountByPostID(ctx, pid)
		if err != nil {
			log.ErrorContext(ctx, "count post likes error", "pid", pid, "err", err)
			continue
		}
		comments, err := s.actionRepo.GetCommentCountByPostID(ctx, pid)
		if err != nil {
			log.ErrorContext(ctx, "count post comments error", "pid", pid, "err", err)
			continue
		}

		if err = s.postRepo.UpdateCounters(ctx, pid, likes, comments); err != nil {
			log.ErrorContext(ctx, "update post counters error", "pid", pid, "err", err)
			continue
		}
		synced++
	}

	if err = redis.DeleteKey(ctx, processingKey); err != nil {
		log.ErrorContext(ctx, "delete post processing set error", "err", err)
	}

	log.InfoContext(ctx, "sync post counters success",
		"dirty_count", len(postIDs),
		"synced_count", synced)
}
