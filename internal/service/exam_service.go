package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spakle/amarquiz-backend/internal/config"
	"github.com/spakle/amarquiz-backend/internal/model"
	"github.com/spakle/amarquiz-backend/internal/paper"
	"github.com/spakle/amarquiz-backend/internal/session"
)

// ExamInfo describes today's exam to a student before they open a session.
// The paper payload never rides along here: questions are only handed out
// through an opened session. Degraded means the paper data could not be
// loaded; the window and countdown fields are still valid.
type ExamInfo struct {
	Date            string         `json:"date"`
	SubjectID       string         `json:"subject_id"`
	SubjectName     string         `json:"subject_name"`
	DurationMinutes int            `json:"duration_minutes"`
	StartsAt        string         `json:"starts_at"`
	EndsAt          string         `json:"ends_at"`
	Status          session.Status `json:"status"`
	PaperCount      int            `json:"paper_count"`
	Degraded        bool           `json:"degraded,omitempty"`
}

// ExamService resolves today's exam and selects the day's paper.
type ExamService struct {
	cfg      *config.Config
	rdb      *redis.Client
	schedule *ScheduleService
	loader   *paper.Loader
	log      zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(cfg *config.Config, rdb *redis.Client, scheduleService *ScheduleService, loader *paper.Loader, log zerolog.Logger) *ExamService {
	return &ExamService{
		cfg:      cfg,
		rdb:      rdb,
		schedule: scheduleService,
		loader:   loader,
		log:      log.With().Str("component", "exam_service").Logger(),
	}
}

// Today describes the exam for the calendar day containing now. Broken or
// missing paper data never hides the window: the info comes back with
// Degraded set so the client can show a no-data state while the countdown
// keeps running.
func (s *ExamService) Today(ctx context.Context, now time.Time) (*ExamInfo, error) {
	entry, window, err := s.schedule.TodayEntry(ctx, now)
	if err != nil {
		return nil, err
	}

	info := &ExamInfo{
		Date:            s.schedule.DateKey(now),
		SubjectID:       entry.Subject.ID,
		SubjectName:     entry.Subject.Name,
		DurationMinutes: window.DurationMinutes,
		StartsAt:        window.Start.Format(time.RFC3339),
		EndsAt:          window.End.Format(time.RFC3339),
		Status:          session.StatusAt(window, now),
	}

	pool, err := s.loader.Load(entry.Subject)
	if err != nil {
		s.log.Warn().Err(err).Str("subject", entry.Subject.ID).Msg("Paper data unavailable, serving degraded exam info")
		info.Degraded = true
		return info, nil
	}
	info.PaperCount = pool.Count()
	return info, nil
}

// SelectPaper picks today's paper for a subject. In deterministic mode the
// pick is seeded from (date, subject) so every device lands on the same
// variant; in random mode each call draws uniformly.
func (s *ExamService) SelectPaper(ctx context.Context, now time.Time, subject model.Subject) (*paper.Paper, error) {
	pool, err := s.loader.Load(subject)
	if err != nil {
		return nil, err
	}

	var idx int
	if s.cfg.RandomizePaper {
		idx = paper.PickRandom(pool.Count())
	} else {
		year, month, day := s.schedule.Calculator().LocalDate(now)
		idx = paper.PickIndex(paper.SessionSeed(year, month, day, subject.ID), pool.Count())
	}
	return pool.PaperAt(idx)
}

// StudentPayload returns the answer-stripped view of today's paper, cached in
// Redis for the deterministic mode (the pick is fixed for the whole day, so
// one render serves every student).
func (s *ExamService) StudentPayload(ctx context.Context, now time.Time, subject model.Subject, window model.ExamWindow) (*paper.Paper, error) {
	if s.cfg.RandomizePaper {
		p, err := s.SelectPaper(ctx, now, subject)
		if err != nil {
			return nil, err
		}
		return p.StudentView(), nil
	}

	key := config.CacheKey.PaperPayloadKey(s.schedule.DateKey(now), subject.ID)
	if raw, err := s.rdb.Get(ctx, key).Result(); err == nil {
		var p paper.Paper
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			return &p, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Paper payload cache read failed")
	}

	p, err := s.SelectPaper(ctx, now, subject)
	if err != nil {
		return nil, err
	}
	view := p.StudentView()

	if raw, err := json.Marshal(view); err == nil {
		// Keep it until well past the window close.
		ttl := window.End.Add(time.Hour).Sub(now)
		if ttl > 0 {
			_ = s.rdb.Set(ctx, key, raw, ttl).Err()
		}
	}
	return view, nil
}
