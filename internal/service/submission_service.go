package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spakle/amarquiz-backend/internal/config"
	"github.com/spakle/amarquiz-backend/internal/model"
	"github.com/spakle/amarquiz-backend/internal/repository"
)

// SubjectHistory summarizes one subject on the history page.
type SubjectHistory struct {
	SubjectID string `json:"subject_id"`
	Attempts  int    `json:"attempts"`
}

// History is the student's full submission log plus per-subject counts.
type History struct {
	PersonalKey string             `json:"personal_key"`
	Submissions []model.Submission `json:"submissions"`
	Subjects    []SubjectHistory   `json:"subjects"`
}

// SubmissionService accepts finished submissions and serves the history view.
// Accepting is a Redis enqueue only — the persist worker owns the database
// write, so a slow Postgres never blocks the submit path.
type SubmissionService struct {
	rdb  *redis.Client
	repo *repository.SubmissionRepository
	log  zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(rdb *redis.Client, repo *repository.SubmissionRepository, log zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		rdb:  rdb,
		repo: repo,
		log:  log.With().Str("component", "submission_service").Logger(),
	}
}

// Enqueue pushes a finished submission onto the persist queue.
func (s *SubmissionService) Enqueue(ctx context.Context, sub *model.Submission) error {
	raw, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistSubmissionsQueue, raw).Err(); err != nil {
		return fmt.Errorf("enqueue submission: %w", err)
	}
	return nil
}

// History loads the student's submissions, newest first.
func (s *SubmissionService) History(ctx context.Context, personalKey string) (*History, error) {
	subs, err := s.repo.ListByPersonalKey(ctx, personalKey)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	counts, err := s.repo.CountBySubject(ctx, personalKey)
	if err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}

	subjects := make([]SubjectHistory, 0, len(counts))
	for id, n := range counts {
		subjects = append(subjects, SubjectHistory{SubjectID: id, Attempts: n})
	}

	return &History{
		PersonalKey: personalKey,
		Submissions: subs,
		Subjects:    subjects,
	}, nil
}
