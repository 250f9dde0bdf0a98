package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spakle/amarquiz-backend/internal/config"
	"github.com/spakle/amarquiz-backend/internal/model"
	"github.com/spakle/amarquiz-backend/internal/schedule"
)

// Schedule-related service errors.
var (
	ErrScheduleNotPublished = errors.New("schedule not yet published")
	ErrNoExamToday          = errors.New("no exam scheduled today")
)

// ScheduleEntryDTO is one published routine row.
type ScheduleEntryDTO struct {
	Day             int    `json:"day"`
	Date            string `json:"date"`
	SubjectID       string `json:"subject_id"`
	SubjectName     string `json:"subject_name"`
	DurationMinutes int    `json:"duration_minutes"`
	StartsAt        string `json:"starts_at"`
	EndsAt          string `json:"ends_at"`
}

// ScheduleDTO is the published routine for one month.
type ScheduleDTO struct {
	Year        int                `json:"year"`
	Month       int                `json:"month"`
	StartDay    int                `json:"start_day"`
	LastDay     int                `json:"last_day"`
	Timezone    string             `json:"timezone"`
	PublishedAt string             `json:"published_at"`
	Entries     []ScheduleEntryDTO `json:"entries"`
}

// ScheduleService derives and publishes the monthly routine. The routine is a
// pure function of (year, month, roster), so Redis here is a recompute guard,
// not a source of truth: any cache failure falls back to deriving it again.
type ScheduleService struct {
	cfg    *config.Config
	rdb    *redis.Client
	calc   *schedule.Calculator
	roster []model.Subject
	log    zerolog.Logger
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(cfg *config.Config, rdb *redis.Client, calc *schedule.Calculator, roster []model.Subject, log zerolog.Logger) *ScheduleService {
	return &ScheduleService{
		cfg:    cfg,
		rdb:    rdb,
		calc:   calc,
		roster: roster,
		log:    log.With().Str("component", "schedule_service").Logger(),
	}
}

// Calculator exposes the window calculator for collaborating services.
func (s *ScheduleService) Calculator() *schedule.Calculator { return s.calc }

// MonthFor returns the derived routine for the month containing now.
func (s *ScheduleService) MonthFor(ctx context.Context, now time.Time) (*schedule.Month, error) {
	year, month, _ := s.calc.LocalDate(now)
	key := config.CacheKey.MonthScheduleKey(year, int(month))

	if raw, err := s.rdb.Get(ctx, key).Result(); err == nil {
		var m schedule.Month
		if err := json.Unmarshal([]byte(raw), &m); err == nil {
			return &m, nil
		}
		// Corrupt cache entry: fall through and rebuild.
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Schedule cache read failed, rebuilding")
	}

	m, err := schedule.Build(s.roster, year, month, s.cfg.WindowDays)
	if err != nil {
		return nil, fmt.Errorf("build schedule: %w", err)
	}

	if raw, err := json.Marshal(m); err == nil {
		// Valid until the month rolls over.
		endOfMonth := time.Date(year, month+1, 1, 0, 0, 0, 0, s.calc.Zone())
		_ = s.rdb.Set(ctx, key, raw, endOfMonth.Sub(now)).Err()
	}
	return m, nil
}

// Published returns the month's routine as a client-facing DTO, or
// ErrScheduleNotPublished before the disclosure date.
func (s *ScheduleService) Published(ctx context.Context, now time.Time) (*ScheduleDTO, error) {
	m, err := s.MonthFor(ctx, now)
	if err != nil {
		return nil, err
	}
	if !s.calc.Published(now, m.Year, m.Month, m.StartDay) {
		return nil, ErrScheduleNotPublished
	}

	dto := &ScheduleDTO{
		Year:        m.Year,
		Month:       int(m.Month),
		StartDay:    m.StartDay,
		LastDay:     m.LastDay,
		Timezone:    s.calc.Zone().String(),
		PublishedAt: s.calc.PublishInstant(m.Year, m.Month, m.StartDay).Format(time.RFC3339),
		Entries:     make([]ScheduleEntryDTO, 0, len(m.Entries)),
	}
	for _, e := range m.Entries {
		w := s.calc.WindowFor(m.Year, m.Month, e.DayOfMonth, e.Subject)
		dto.Entries = append(dto.Entries, ScheduleEntryDTO{
			Day:             e.DayOfMonth,
			Date:            fmt.Sprintf("%04d-%02d-%02d", m.Year, int(m.Month), e.DayOfMonth),
			SubjectID:       e.Subject.ID,
			SubjectName:     e.Subject.Name,
			DurationMinutes: w.DurationMinutes,
			StartsAt:        w.Start.Format(time.RFC3339),
			EndsAt:          w.End.Format(time.RFC3339),
		})
	}
	return dto, nil
}

// PublishDate returns the disclosure instant of the month containing now.
func (s *ScheduleService) PublishDate(ctx context.Context, now time.Time) (time.Time, error) {
	m, err := s.MonthFor(ctx, now)
	if err != nil {
		return time.Time{}, err
	}
	return s.calc.PublishInstant(m.Year, m.Month, m.StartDay), nil
}

// TodayEntry resolves the schedule entry and exam window for the calendar day
// containing now, or ErrNoExamToday outside the window days.
func (s *ScheduleService) TodayEntry(ctx context.Context, now time.Time) (model.ScheduleEntry, model.ExamWindow, error) {
	m, err := s.MonthFor(ctx, now)
	if err != nil {
		return model.ScheduleEntry{}, model.ExamWindow{}, err
	}

	year, month, day := s.calc.LocalDate(now)
	entry, ok := m.EntryFor(day)
	if !ok {
		return model.ScheduleEntry{}, model.ExamWindow{}, ErrNoExamToday
	}
	return entry, s.calc.WindowFor(year, month, day, entry.Subject), nil
}

// DateKey formats now as the exam zone's calendar date, the key used for
// per-day caches and seeds.
func (s *ScheduleService) DateKey(now time.Time) string {
	year, month, day := s.calc.LocalDate(now)
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}
