// Package session implements the timed exam attempt: the countdown state
// machine, the single-flight submission gate, and result-sheet compilation.
// One Controller owns everything transient about one attempt — there is no
// package-level mutable state, so attempts in different goroutines (or two
// tabs of the same student) never share flags.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spakle/amarquiz-backend/internal/clock"
	"github.com/spakle/amarquiz-backend/internal/model"
	"github.com/spakle/amarquiz-backend/internal/paper"
)

var (
	// ErrAlreadySubmitted marks a session whose gate closed permanently.
	ErrAlreadySubmitted = errors.New("session already submitted")
	// ErrSubmissionInFlight marks a duplicate trigger racing a live
	// submission; callers treat it as a logged no-op.
	ErrSubmissionInFlight = errors.New("submission already in progress")
	// ErrAnswersFrozen marks an answer arriving after the window elapsed.
	ErrAnswersFrozen = errors.New("window elapsed, answers are frozen")
)

// Trigger identifies which path requested a submission.
type Trigger string

const (
	TriggerManual Trigger = "manual"
	TriggerAuto   Trigger = "auto"
)

// Submitter is the external storage/relay collaborator boundary. It receives
// the finished submission record and persists or forwards it.
type Submitter func(ctx context.Context, sub *model.Submission) error

// AnswerSink observes accepted answers (used to mirror them into Redis so a
// reload can restore state). May be nil.
type AnswerSink func(sessionID uuid.UUID, questionID string, optionIndex int)

// Controller owns one exam attempt: its paper, window, answers, timer, and
// submission gate. All mutation goes through its mutex; the timer goroutine
// and HTTP handlers race only on TrySubmit, which the gate serializes.
type Controller struct {
	ID       uuid.UUID
	Identity model.Identity
	Window   model.ExamWindow
	Paper    *paper.Paper

	clk       clock.Clock
	log       zerolog.Logger
	submitter Submitter
	sink      AnswerSink
	startedAt time.Time

	timer *Timer

	mu        sync.Mutex
	answers   map[string]int
	status    Status
	inFlight  bool
	submitted bool
	final     *model.Submission
}

// Config carries everything needed to construct a Controller.
type Config struct {
	Identity  model.Identity
	Window    model.ExamWindow
	Paper     *paper.Paper
	Clock     clock.Clock
	Log       zerolog.Logger
	Submitter Submitter
	Sink      AnswerSink
	// Tick is the countdown re-evaluation interval (≤ 1s).
	Tick time.Duration
	// OnTick is forwarded to the timer for countdown streaming. May be nil.
	OnTick func(Status, time.Duration)
}

// New builds a Controller and starts its countdown. The initial status is
// derived from the clock, so a controller constructed before the window opens
// starts Pending.
func New(cfg Config) *Controller {
	c := &Controller{
		ID:        uuid.New(),
		Identity:  cfg.Identity,
		Window:    cfg.Window,
		Paper:     cfg.Paper,
		clk:       cfg.Clock,
		submitter: cfg.Submitter,
		sink:      cfg.Sink,
		startedAt: cfg.Clock.Now(),
		answers:   make(map[string]int),
	}
	c.log = cfg.Log.With().Str("session_id", c.ID.String()).Str("subject", cfg.Window.Subject.ID).Logger()
	c.status = StatusAt(cfg.Window, c.startedAt)

	c.timer = NewTimer(cfg.Clock, cfg.Window, cfg.Tick, c.makeTickHandler(cfg.OnTick), c.autoSubmit)
	go c.timer.Run()

	return c
}

func (c *Controller) makeTickHandler(forward func(Status, time.Duration)) func(Status, time.Duration) {
	return func(status Status, remaining time.Duration) {
		c.mu.Lock()
		// Never regress Closed back to a time-derived status.
		if c.status != StatusClosed {
			c.status = status
		}
		c.mu.Unlock()
		if forward != nil {
			forward(status, remaining)
		}
	}
}

// autoSubmit is the timer's elapsed callback. The timer guarantees it runs at
// most once; the gate below makes even that idempotent against a racing
// manual submit. Auto failures are logged, never retried.
func (c *Controller) autoSubmit() {
	c.mu.Lock()
	c.status = StatusElapsed
	c.mu.Unlock()

	if err := c.TrySubmit(context.Background(), TriggerAuto); err != nil {
		switch {
		case errors.Is(err, ErrAlreadySubmitted), errors.Is(err, ErrSubmissionInFlight):
			c.log.Debug().Err(err).Msg("Auto-submit skipped")
		default:
			c.log.Error().Err(err).Msg("Auto-submit failed")
		}
	}
}

// Status returns the current state of the attempt.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Remaining returns seconds left on the countdown, floored at zero.
func (c *Controller) Remaining() time.Duration {
	return c.timer.Remaining(c.clk.Now())
}

// Answers returns a copy of the recorded answers.
func (c *Controller) Answers() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.answers))
	for k, v := range c.answers {
		out[k] = v
	}
	return out
}

// RecordAnswer stores one option choice. Rejected once the window has
// elapsed: inputs to the result compiler are frozen from that point.
func (c *Controller) RecordAnswer(questionID string, optionIndex int) error {
	c.mu.Lock()
	if c.status == StatusElapsed || c.status == StatusClosed {
		c.mu.Unlock()
		return ErrAnswersFrozen
	}
	if c.inFlight || c.submitted {
		c.mu.Unlock()
		return ErrAnswersFrozen
	}
	c.answers[questionID] = optionIndex
	c.mu.Unlock()

	if c.sink != nil {
		c.sink(c.ID, questionID, optionIndex)
	}
	return nil
}

// TrySubmit runs the submission pipeline at most once per session. A second
// trigger while one is in flight is a logged no-op. On collaborator failure
// the gate releases so a manual retry can run; on success the gate closes
// permanently.
func (c *Controller) TrySubmit(ctx context.Context, trigger Trigger) error {
	c.mu.Lock()
	if c.submitted {
		c.mu.Unlock()
		return ErrAlreadySubmitted
	}
	if c.inFlight {
		c.mu.Unlock()
		c.log.Warn().Str("trigger", string(trigger)).Msg("Duplicate submit ignored")
		return ErrSubmissionInFlight
	}
	c.inFlight = true

	// Freeze inputs under the lock: the compiler must not observe answer
	// mutations that race the pipeline.
	answers := make(map[string]int, len(c.answers))
	for k, v := range c.answers {
		answers[k] = v
	}
	startedAt := c.startedAt
	c.mu.Unlock()

	// Stop the countdown before any slow work so a second auto-submit can
	// never fire while this one is completing.
	c.timer.Stop()

	now := c.clk.Now()
	sheet := CompileResult(c.Paper, answers, startedAt, now)

	sub := &model.Submission{
		ID:           uuid.New(),
		SessionID:    c.ID,
		PersonalKey:  c.Identity.PersonalKey(),
		SubjectID:    c.Window.Subject.ID,
		SubjectName:  c.Window.Subject.Name,
		PaperID:      c.Paper.PaperID,
		Alias:        c.Paper.Alias,
		StudentName:  c.Identity.Name,
		StudentEmail: c.Identity.Email,
		Totals:       sheet.Totals,
		ResultSheet:  sheet,
		Answers:      answers,
		IsAuto:       trigger == TriggerAuto,
		TimestampUTC: now.UTC(),
	}

	err := c.submitter(ctx, sub)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}
	c.submitted = true
	c.status = StatusClosed
	c.final = sub

	c.log.Info().
		Str("trigger", string(trigger)).
		Int("correct", sheet.Totals.Correct).
		Int("total", sheet.Totals.Total).
		Msg("Submission recorded")
	return nil
}

// Final returns the accepted submission record, or nil while the gate is
// still open.
func (c *Controller) Final() *model.Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.final
}

// Submitted reports whether the gate has closed permanently.
func (c *Controller) Submitted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitted
}

// Close tears the attempt down: the countdown stops and can no longer fire
// auto-submit.
func (c *Controller) Close() {
	c.timer.Stop()
}
