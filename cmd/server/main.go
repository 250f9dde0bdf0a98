package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spakle/amarquiz-backend/internal/clock"
	"github.com/spakle/amarquiz-backend/internal/config"
	"github.com/spakle/amarquiz-backend/internal/database"
	"github.com/spakle/amarquiz-backend/internal/handler"
	"github.com/spakle/amarquiz-backend/internal/logger"
	"github.com/spakle/amarquiz-backend/internal/paper"
	"github.com/spakle/amarquiz-backend/internal/repository"
	"github.com/spakle/amarquiz-backend/internal/router"
	"github.com/spakle/amarquiz-backend/internal/schedule"
	"github.com/spakle/amarquiz-backend/internal/service"
	"github.com/spakle/amarquiz-backend/internal/validator"
	"github.com/spakle/amarquiz-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting AmarQuiz Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Load Subject Roster ───────────────────────────────────────────
	roster, err := config.LoadSubjects(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load subject roster")
	}
	log.Info().Int("subjects", len(roster)).Msg("Subject roster loaded")

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	submissionRepo := repository.NewSubmissionRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	clk := clock.System{}
	calc := schedule.NewCalculator(cfg.ExamHourLocal, cfg.UTCOffsetHours,
		cfg.ShortDurationMin, cfg.StandardDurationMin, cfg.PublishLeadDays)
	loader := paper.NewLoader(cfg.QuizdataDir)

	identityService := service.NewIdentityService(cfg)
	scheduleService := service.NewScheduleService(cfg, rdb, calc, roster, log)
	examService := service.NewExamService(cfg, rdb, scheduleService, loader, log)
	submissionService := service.NewSubmissionService(rdb, submissionRepo, log)
	sessionService := service.NewSessionService(cfg, rdb, clk, scheduleService, examService, submissionService, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Identity: handler.NewIdentityHandler(identityService),
		Schedule: handler.NewScheduleHandler(scheduleService, clk),
		Exam:     handler.NewExamHandler(examService, scheduleService, clk),
		Session:  handler.NewSessionHandler(sessionService),
		History:  handler.NewHistoryHandler(submissionService),
		WS:       handler.NewWSHandler(sessionService, log, cfg.AllowedOrigins),
		System:   handler.NewSystemHandler(pool, rdb, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	submissionWorker := worker.NewSubmissionWorker(submissionRepo, rdb, log)
	go submissionWorker.Start(workerCtx)

	// Reclaim finished session controllers once their retention lapses.
	go sessionService.StartJanitor(workerCtx, time.Minute)

	// ─── Prewarm the Month Schedule ───────────────────────────────────
	// Derive this month's routine into Redis before accepting traffic so
	// the first schedule hit never races a thundering herd.
	if _, err := scheduleService.MonthFor(ctx, clk.Now()); err != nil {
		log.Warn().Err(err).Msg("Schedule prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(identityService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop live session timers so no auto-submit fires mid-teardown.
	sessionService.Registry().CloseAll()

	// 3. Stop background workers and wait for the persist queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
