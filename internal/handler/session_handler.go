package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spakle/amarquiz-backend/internal/middleware"
	"github.com/spakle/amarquiz-backend/internal/model"
	"github.com/spakle/amarquiz-backend/internal/response"
	"github.com/spakle/amarquiz-backend/internal/service"
	"github.com/spakle/amarquiz-backend/internal/validator"
)

// SessionHandler drives a live exam attempt over HTTP. The WebSocket stream
// covers the same operations for clients that hold a connection open.
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// OpenSession godoc
// POST /api/v1/sessions
// Opens (or resumes) the identity's attempt for today's exam. Idempotent per
// identity per exam day.
func (h *SessionHandler) OpenSession(c *gin.Context) {
	dto, err := h.sessionService.Open(c.Request.Context(), middleware.GetIdentity(c))
	if err != nil {
		failFromError(c, err)
		return
	}

	status := http.StatusCreated
	if dto.Resumed {
		status = http.StatusOK
	}
	response.Success(c, status, dto)
}

// GetState godoc
// GET /api/v1/sessions/:session_id
// Countdown/state poll for a live session.
func (h *SessionHandler) GetState(c *gin.Context) {
	state, err := h.sessionService.State(c.Param("session_id"))
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

// PutAnswer godoc
// PUT /api/v1/sessions/:session_id/answers
// Records one option choice. Rejected after the window elapses.
func (h *SessionHandler) PutAnswer(c *gin.Context) {
	var req model.AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.sessionService.Answer(c.Param("session_id"), req.QuestionID, req.OptionIndex); err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"saved": true})
}

// Submit godoc
// POST /api/v1/sessions/:session_id/submit
// Manual submit. Returns the accepted record; if the timer already
// auto-submitted, the stored record comes back instead of a conflict.
func (h *SessionHandler) Submit(c *gin.Context) {
	sub, err := h.sessionService.Submit(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sub)
}

// GetResult godoc
// GET /api/v1/sessions/:session_id/result
// Returns the accepted submission for a closed session.
func (h *SessionHandler) GetResult(c *gin.Context) {
	sub, err := h.sessionService.Result(c.Param("session_id"))
	if err != nil {
		failFromError(c, err)
		return
	}
	if sub == nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, sub)
}
