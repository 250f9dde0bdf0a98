package session

import (
	"sync"
	"time"

	"github.com/spakle/amarquiz-backend/internal/clock"
	"github.com/spakle/amarquiz-backend/internal/model"
)

// Status is the state of a timed session relative to its window.
type Status string

const (
	// StatusPending: now is before the window opens.
	StatusPending Status = "PENDING"
	// StatusActive: now is inside the window; countdown running.
	StatusActive Status = "ACTIVE"
	// StatusElapsed: the window has run out; auto-submit has been triggered.
	StatusElapsed Status = "ELAPSED"
	// StatusClosed: the elapsed transition was fully handled (submitted).
	StatusClosed Status = "CLOSED"
)

// StatusAt derives the timer status for an instant. Closed is not derivable
// from time alone — it is set by the controller after submission completes.
func StatusAt(w model.ExamWindow, now time.Time) Status {
	switch {
	case now.Before(w.Start):
		return StatusPending
	case now.After(w.End):
		return StatusElapsed
	default:
		return StatusActive
	}
}

// Timer re-evaluates a window against the clock on a fixed tick. The
// Active→Elapsed edge is one-way: it fires the elapsed callback exactly once
// and stops the loop. Stop cancels the loop at any time so a torn-down
// session can never auto-submit afterwards.
type Timer struct {
	clk    clock.Clock
	window model.ExamWindow
	tick   time.Duration

	onTick    func(status Status, remaining time.Duration)
	onElapsed func()

	stopCh   chan struct{}
	stopOnce sync.Once
	fireOnce sync.Once
}

// NewTimer builds a Timer. onTick may be nil; onElapsed is invoked exactly
// once when the window runs out while the timer is live.
func NewTimer(clk clock.Clock, window model.ExamWindow, tick time.Duration, onTick func(Status, time.Duration), onElapsed func()) *Timer {
	if tick <= 0 || tick > time.Second {
		tick = time.Second
	}
	return &Timer{
		clk:       clk,
		window:    window,
		tick:      tick,
		onTick:    onTick,
		onElapsed: onElapsed,
		stopCh:    make(chan struct{}),
	}
}

// Run drives the periodic check until the window elapses or Stop is called.
// Call in a goroutine.
func (t *Timer) Run() {
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()

	// Evaluate immediately so a session opened after the window end does not
	// wait one tick before elapsing.
	if t.step() {
		return
	}

	for {
		select {
		case <-t.stopCh:
			return
		case <-ticker.C:
			if t.step() {
				return
			}
		}
	}
}

// step evaluates the current instant. Returns true when the loop must exit.
func (t *Timer) step() bool {
	select {
	case <-t.stopCh:
		return true
	default:
	}

	now := t.clk.Now()
	status := StatusAt(t.window, now)

	if t.onTick != nil {
		t.onTick(status, t.Remaining(now))
	}

	if status == StatusElapsed {
		t.fireOnce.Do(func() {
			if t.onElapsed != nil {
				t.onElapsed()
			}
		})
		return true
	}
	return false
}

// Remaining returns the time left until the window closes, floored at zero.
// Before the window opens it returns the full span until the end.
func (t *Timer) Remaining(now time.Time) time.Duration {
	left := t.window.End.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Stop cancels the periodic check. Safe to call more than once and
// concurrently with Run.
func (t *Timer) Stop() {
	t.stopOnce.Do(func() { close(t.stopCh) })
}
