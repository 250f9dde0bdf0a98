package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spakle/amarquiz-backend/internal/middleware"
	"github.com/spakle/amarquiz-backend/internal/model"
	"github.com/spakle/amarquiz-backend/internal/response"
	"github.com/spakle/amarquiz-backend/internal/service"
)

// HistoryHandler serves the student's past submissions.
type HistoryHandler struct {
	submissionService *service.SubmissionService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(submissionService *service.SubmissionService) *HistoryHandler {
	return &HistoryHandler{submissionService: submissionService}
}

// GetHistory godoc
// GET /api/v1/history
// Returns the submission log for the request's identity (anonymous history is
// shared by every anonymous student, matching how the personal key works).
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	id := middleware.GetIdentity(c)

	history, err := h.submissionService.History(c.Request.Context(), id.PersonalKey())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if history.Submissions == nil {
		history.Submissions = []model.Submission{}
	}
	response.Success(c, http.StatusOK, history)
}
