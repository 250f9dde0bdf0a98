package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spakle/amarquiz-backend/internal/config"
	"github.com/spakle/amarquiz-backend/internal/logger"
	"github.com/spakle/amarquiz-backend/internal/model"
	"github.com/spakle/amarquiz-backend/internal/repository"
)

const (
	SubmissionBatchSize    = 50
	SubmissionBatchTimeout = 2 * time.Second
	SubmissionPollTimeout  = 1 * time.Second
)

// SubmissionWorker drains the persist queue into Postgres. Submit handlers
// only ever touch Redis; this worker is the single writer of the submissions
// table.
type SubmissionWorker struct {
	repo *repository.SubmissionRepository
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewSubmissionWorker creates a new SubmissionWorker.
func NewSubmissionWorker(repo *repository.SubmissionRepository, rdb *redis.Client, log zerolog.Logger) *SubmissionWorker {
	return &SubmissionWorker{
		repo: repo,
		rdb:  rdb,
		log:  logger.Component(log, "submission_worker"),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *SubmissionWorker) Start(ctx context.Context) {
	w.log.Info().Msg("SubmissionWorker started")

	batch := make([]*model.Submission, 0, SubmissionBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= SubmissionBatchSize || time.Since(lastFlush) >= SubmissionBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, SubmissionPollTimeout, config.WorkerKey.PersistSubmissionsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var sub model.Submission
			if err := json.Unmarshal([]byte(item[1]), &sub); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &sub)
		}
	}
}

// ----------------------------------------------------------------
// Batch insert wrapper
// ----------------------------------------------------------------

func (w *SubmissionWorker) flushSafe(ctx context.Context, batch []*model.Submission) {
	if len(batch) == 0 {
		return
	}

	if err := w.repo.InsertBatch(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("bulk submission insert failed, using fallback")

		for _, sub := range batch {
			if err := w.repo.Insert(ctx, sub); err != nil {
				w.log.Error().Err(err).Str("submission_id", sub.ID.String()).Msg("single insert failed — requeueing")
				raw, _ := json.Marshal(sub)
				w.rdb.RPush(ctx, config.WorkerKey.PersistSubmissionsQueue, raw)
				continue
			}
			w.clearAutosave(ctx, sub)
		}
		return
	}

	// Persisted rows no longer need their Redis autosave buffers.
	for _, sub := range batch {
		w.clearAutosave(ctx, sub)
	}

	w.log.Info().Int("count", len(batch)).Msg("Submissions persisted")
}

func (w *SubmissionWorker) clearAutosave(ctx context.Context, sub *model.Submission) {
	sid := sub.SessionID.String()
	if err := w.rdb.Del(ctx,
		config.CacheKey.SessionAnswersKey(sid),
		config.CacheKey.SessionStartKey(sid),
	).Err(); err != nil {
		w.log.Warn().Err(err).Str("session_id", sid).Msg("Autosave cleanup failed")
	}
}
