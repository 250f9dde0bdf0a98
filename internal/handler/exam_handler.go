package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spakle/amarquiz-backend/internal/clock"
	"github.com/spakle/amarquiz-backend/internal/response"
	"github.com/spakle/amarquiz-backend/internal/service"
	"github.com/spakle/amarquiz-backend/internal/session"
)

// ExamHandler serves the today's-exam lobby view.
type ExamHandler struct {
	examService     *service.ExamService
	scheduleService *service.ScheduleService
	clk             clock.Clock
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService, scheduleService *service.ScheduleService, clk clock.Clock) *ExamHandler {
	return &ExamHandler{examService: examService, scheduleService: scheduleService, clk: clk}
}

// GetToday godoc
// GET /api/v1/exams/today
// Describes today's exam: subject, window, and the student's gate status.
// The paper itself only travels through an opened session.
func (h *ExamHandler) GetToday(c *gin.Context) {
	info, err := h.examService.Today(c.Request.Context(), h.clk.Now())
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, info)
}

// GetTodayPaper godoc
// GET /api/v1/exams/today/paper
// Returns the answer-stripped paper for today's exam while the window is
// open. Sessions carry the same payload; this endpoint lets a read-only
// client render questions without opening an attempt.
func (h *ExamHandler) GetTodayPaper(c *gin.Context) {
	now := h.clk.Now()

	entry, window, err := h.scheduleService.TodayEntry(c.Request.Context(), now)
	if err != nil {
		failFromError(c, err)
		return
	}
	switch session.StatusAt(window, now) {
	case session.StatusPending:
		failFromError(c, service.ErrWindowNotOpen)
		return
	case session.StatusElapsed:
		failFromError(c, service.ErrWindowClosed)
		return
	}

	view, err := h.examService.StudentPayload(c.Request.Context(), now, entry.Subject, window)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}
