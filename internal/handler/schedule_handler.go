package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spakle/amarquiz-backend/internal/clock"
	"github.com/spakle/amarquiz-backend/internal/response"
	"github.com/spakle/amarquiz-backend/internal/service"
)

// ScheduleHandler serves the published monthly routine.
type ScheduleHandler struct {
	scheduleService *service.ScheduleService
	clk             clock.Clock
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService *service.ScheduleService, clk clock.Clock) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService, clk: clk}
}

// GetSchedule godoc
// GET /api/v1/schedule
// Returns this month's routine once its publish date has passed.
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	now := h.clk.Now()
	dto, err := h.scheduleService.Published(c.Request.Context(), now)
	if err != nil {
		// Before disclosure the only thing a client may learn is when the
		// routine becomes visible.
		if errors.Is(err, service.ErrScheduleNotPublished) {
			if publishAt, perr := h.scheduleService.PublishDate(c.Request.Context(), now); perr == nil {
				response.FailWithData(c, http.StatusNotFound, response.ErrScheduleNotPublished, gin.H{
					"publishes_on": publishAt.Format(time.RFC3339),
				})
				return
			}
		}
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto)
}
