package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spakle/amarquiz-backend/internal/clock"
	"github.com/spakle/amarquiz-backend/internal/config"
	"github.com/spakle/amarquiz-backend/internal/model"
	"github.com/spakle/amarquiz-backend/internal/paper"
	"github.com/spakle/amarquiz-backend/internal/prng"
	"github.com/spakle/amarquiz-backend/internal/session"
)

// Session-related service errors.
var (
	ErrWindowNotOpen   = errors.New("exam window has not opened yet")
	ErrWindowClosed    = errors.New("exam window has already closed")
	ErrSessionNotFound = errors.New("no live session for this id")
)

// SessionDTO is the opened-session payload handed to the student. Paper holds
// the answer-stripped question list in the order fixed for this session.
type SessionDTO struct {
	SessionID        string         `json:"session_id"`
	SubjectID        string         `json:"subject_id"`
	SubjectName      string         `json:"subject_name"`
	PaperID          string         `json:"paper_id"`
	Alias            string         `json:"alias,omitempty"`
	Status           session.Status `json:"status"`
	RemainingSeconds int            `json:"remaining_seconds"`
	EndsAt           string         `json:"ends_at"`
	Paper            *paper.Paper   `json:"paper"`
	Answers          map[string]int `json:"answers"`
	Resumed          bool           `json:"resumed"`
}

// StateDTO is the lightweight countdown/state poll payload.
type StateDTO struct {
	SessionID        string         `json:"session_id"`
	Status           session.Status `json:"status"`
	RemainingSeconds int            `json:"remaining_seconds"`
	Submitted        bool           `json:"submitted"`
	Answers          map[string]int `json:"answers"`
}

// SessionService owns the live attempts: opening (idempotent per student per
// exam day), answer recording, and the submit path. Redis mirrors enough
// state — session mapping, start instant, autosaved answers — for an attempt
// to survive a process restart.
type SessionService struct {
	cfg         *config.Config
	rdb         *redis.Client
	clk         clock.Clock
	schedule    *ScheduleService
	exams       *ExamService
	submissions *SubmissionService
	registry    *session.Registry
	log         zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(cfg *config.Config, rdb *redis.Client, clk clock.Clock, scheduleService *ScheduleService, examService *ExamService, submissionService *SubmissionService, log zerolog.Logger) *SessionService {
	return &SessionService{
		cfg:         cfg,
		rdb:         rdb,
		clk:         clk,
		schedule:    scheduleService,
		exams:       examService,
		submissions: submissionService,
		registry:    session.NewRegistry(),
		log:         log.With().Str("component", "session_service").Logger(),
	}
}

// Registry exposes the live-session registry for shutdown teardown.
func (s *SessionService) Registry() *session.Registry { return s.registry }

// StartJanitor reclaims expired controllers until ctx is cancelled. A session
// stays resolvable for an hour past its window close — the same horizon as
// its Redis mirrors — and is then evicted from memory.
func (s *SessionService) StartJanitor(ctx context.Context, interval time.Duration) {
	s.log.Info().Dur("interval", interval).Msg("Session janitor started")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("Session janitor stopped")
			return
		case <-ticker.C:
			if n := s.registry.Evict(s.clk.Now(), time.Hour); n > 0 {
				s.log.Info().Int("evicted", n).Msg("Expired sessions reclaimed")
			}
		}
	}
}

// Open starts (or resumes) the student's attempt for today's exam. One
// identity gets one live session per exam day: a reload reattaches to the
// running countdown instead of restarting it.
func (s *SessionService) Open(ctx context.Context, id model.Identity) (*SessionDTO, error) {
	now := s.clk.Now()

	entry, window, err := s.schedule.TodayEntry(ctx, now)
	if err != nil {
		return nil, err
	}
	switch session.StatusAt(window, now) {
	case session.StatusPending:
		return nil, ErrWindowNotOpen
	case session.StatusElapsed:
		return nil, ErrWindowClosed
	}

	dateKey := s.schedule.DateKey(now)
	mapKey := config.CacheKey.StudentSessionKey(id.PersonalKey(), dateKey)

	// Reattach to a live controller if one exists for this identity today.
	if sidStr, err := s.rdb.Get(ctx, mapKey).Result(); err == nil {
		if sid, perr := uuid.Parse(sidStr); perr == nil {
			if c, ok := s.registry.Get(sid); ok {
				return s.sessionDTO(c, true), nil
			}
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Session mapping read failed")
	}

	p, err := s.exams.SelectPaper(ctx, now, entry.Subject)
	if err != nil {
		return nil, err
	}
	if s.cfg.RandomizeQuestions {
		// Shuffled once here; the order is fixed for the session's lifetime.
		shuffled := *p
		shuffled.Questions = prng.ShuffleRandom(p.Questions)
		p = &shuffled
	}

	c := session.New(session.Config{
		Identity:  id,
		Window:    window,
		Paper:     p,
		Clock:     s.clk,
		Log:       s.log,
		Submitter: s.submissions.Enqueue,
		Sink:      s.mirrorAnswer,
		Tick:      s.cfg.TimerTick,
	})
	s.registry.Put(c)

	// Mirror the mapping and start instant so a restarted process can restore.
	ttl := window.End.Add(time.Hour).Sub(now)
	_ = s.rdb.Set(ctx, mapKey, c.ID.String(), ttl).Err()
	_ = s.rdb.Set(ctx, config.CacheKey.SessionStartKey(c.ID.String()), strconv.FormatInt(now.Unix(), 10), ttl).Err()

	// A crashed process may have left autosaved answers for this identity's
	// earlier attempt; restoring them is handled by the reattach path above,
	// so a fresh controller starts empty.

	s.log.Info().
		Str("session_id", c.ID.String()).
		Str("subject", entry.Subject.ID).
		Str("personal_key", id.PersonalKey()).
		Msg("Session opened")

	return s.sessionDTO(c, false), nil
}

// Get resolves a live controller by its string id.
func (s *SessionService) Get(sessionID string) (*session.Controller, error) {
	sid, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	c, ok := s.registry.Get(sid)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return c, nil
}

// State returns the countdown poll payload for a session.
func (s *SessionService) State(sessionID string) (*StateDTO, error) {
	c, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return &StateDTO{
		SessionID:        c.ID.String(),
		Status:           c.Status(),
		RemainingSeconds: int(c.Remaining() / time.Second),
		Submitted:        c.Submitted(),
		Answers:          c.Answers(),
	}, nil
}

// Answer records one option choice on a live session.
func (s *SessionService) Answer(sessionID, questionID string, optionIndex int) error {
	c, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	return c.RecordAnswer(questionID, optionIndex)
}

// Submit runs the manual submit path and returns the accepted record.
func (s *SessionService) Submit(ctx context.Context, sessionID string) (*model.Submission, error) {
	c, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := c.TrySubmit(ctx, session.TriggerManual); err != nil {
		// An elapsed session may already hold an accepted auto-submission;
		// surface that record instead of an error.
		if errors.Is(err, session.ErrAlreadySubmitted) {
			if final := c.Final(); final != nil {
				return final, nil
			}
		}
		return nil, err
	}
	return c.Final(), nil
}

// Result returns the accepted submission for a session, or nil while open.
func (s *SessionService) Result(sessionID string) (*model.Submission, error) {
	c, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return c.Final(), nil
}

// mirrorAnswer autosaves an accepted answer into Redis so state survives a
// process restart. Best effort: the in-memory controller stays authoritative.
func (s *SessionService) mirrorAnswer(sessionID uuid.UUID, questionID string, optionIndex int) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	key := config.CacheKey.SessionAnswersKey(sessionID.String())
	if err := s.rdb.HSet(ctx, key, questionID, optionIndex).Err(); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("Answer autosave failed")
	}
}

func (s *SessionService) sessionDTO(c *session.Controller, resumed bool) *SessionDTO {
	return &SessionDTO{
		SessionID:        c.ID.String(),
		SubjectID:        c.Window.Subject.ID,
		SubjectName:      c.Window.Subject.Name,
		PaperID:          c.Paper.PaperID,
		Alias:            c.Paper.Alias,
		Status:           c.Status(),
		RemainingSeconds: int(c.Remaining() / time.Second),
		EndsAt:           c.Window.End.Format(time.RFC3339),
		Paper:            c.Paper.StudentView(),
		Answers:          c.Answers(),
		Resumed:          resumed,
	}
}
