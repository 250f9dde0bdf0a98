package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spakle/amarquiz-backend/internal/config"
	"github.com/spakle/amarquiz-backend/internal/model"
	"github.com/spakle/amarquiz-backend/internal/paper"
	"github.com/spakle/amarquiz-backend/internal/schedule"
	"github.com/spakle/amarquiz-backend/internal/session"
)

// testExamService wires an ExamService against a quizdata dir and a Redis
// client pointing nowhere. The schedule cache treats an unreachable Redis as
// a miss and rebuilds, so no real store is needed here.
func testExamService(t *testing.T, dir string) *ExamService {
	t.Helper()
	cfg := &config.Config{WindowDays: 10}
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })

	calc := schedule.NewCalculator(21, 6, 25, 30, 20)
	roster := []model.Subject{
		{ID: "physics", Name: "Physics", File: "physics.json", ShortDuration: true},
	}
	log := zerolog.Nop()
	scheduleService := NewScheduleService(cfg, rdb, calc, roster, log)
	return NewExamService(cfg, rdb, scheduleService, paper.NewLoader(dir), log)
}

func TestTodayDegradesWhenPaperFileMissing(t *testing.T) {
	svc := testExamService(t, t.TempDir())

	// 21:05 local on a window day, with no paper document on disk.
	now := time.Date(2025, time.July, 25, 15, 5, 0, 0, time.UTC)

	info, err := svc.Today(context.Background(), now)
	if err != nil {
		t.Fatalf("Today returned error: %v", err)
	}
	if !info.Degraded {
		t.Error("expected degraded info when the paper document is missing")
	}
	if info.PaperCount != 0 {
		t.Errorf("PaperCount = %d, want 0", info.PaperCount)
	}
	if info.Status != session.StatusActive {
		t.Errorf("Status = %s, want %s", info.Status, session.StatusActive)
	}
	if info.SubjectID != "physics" {
		t.Errorf("SubjectID = %q, want physics", info.SubjectID)
	}
	if info.Date != "2025-07-25" {
		t.Errorf("Date = %q, want 2025-07-25", info.Date)
	}

	// The countdown instants must survive the missing file.
	start, err := time.Parse(time.RFC3339, info.StartsAt)
	if err != nil {
		t.Fatalf("StartsAt %q does not parse: %v", info.StartsAt, err)
	}
	if !start.Equal(time.Date(2025, time.July, 25, 15, 0, 0, 0, time.UTC)) {
		t.Errorf("StartsAt = %s, want 21:00 local", info.StartsAt)
	}
	if _, err := time.Parse(time.RFC3339, info.EndsAt); err != nil {
		t.Fatalf("EndsAt %q does not parse: %v", info.EndsAt, err)
	}
	if info.DurationMinutes != 25 {
		t.Errorf("DurationMinutes = %d, want 25", info.DurationMinutes)
	}
}

func TestTodayWithPaperData(t *testing.T) {
	dir := t.TempDir()
	doc := `{"papers":[
		{"paperId":"p1","questions":[{"text":"Q1","options":["a","b"],"answer":0}]},
		{"paperId":"p2","questions":[{"text":"Q1","options":["a","b"],"answer":1}]}
	]}`
	if err := os.WriteFile(filepath.Join(dir, "physics.json"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	svc := testExamService(t, dir)

	now := time.Date(2025, time.July, 25, 15, 5, 0, 0, time.UTC)
	info, err := svc.Today(context.Background(), now)
	if err != nil {
		t.Fatalf("Today returned error: %v", err)
	}
	if info.Degraded {
		t.Error("info unexpectedly degraded")
	}
	if info.PaperCount != 2 {
		t.Errorf("PaperCount = %d, want 2", info.PaperCount)
	}
}
