package handler

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spakle/amarquiz-backend/internal/paper"
	"github.com/spakle/amarquiz-backend/internal/response"
	"github.com/spakle/amarquiz-backend/internal/service"
	"github.com/spakle/amarquiz-backend/internal/session"
)

// failFromError maps domain errors onto the response taxonomy. Anything
// unrecognized is a 500.
func failFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleNotPublished):
		response.Fail(c, http.StatusNotFound, response.ErrScheduleNotPublished)
	case errors.Is(err, service.ErrNoExamToday):
		response.Fail(c, http.StatusNotFound, response.ErrNoExamToday)
	case errors.Is(err, service.ErrWindowNotOpen):
		response.Fail(c, http.StatusConflict, response.ErrWindowNotOpen)
	case errors.Is(err, service.ErrWindowClosed):
		response.Fail(c, http.StatusConflict, response.ErrWindowClosed)
	case errors.Is(err, service.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
	case errors.Is(err, session.ErrAlreadySubmitted):
		response.Fail(c, http.StatusConflict, response.ErrSessionSubmitted)
	case errors.Is(err, session.ErrSubmissionInFlight):
		response.Fail(c, http.StatusConflict, response.ErrSubmitInFlight)
	case errors.Is(err, session.ErrAnswersFrozen):
		response.Fail(c, http.StatusConflict, response.ErrAnswersFrozen)
	case errors.Is(err, paper.ErrNoPaperData), errors.Is(err, paper.ErrEmptyPaper):
		response.Fail(c, http.StatusBadGateway, response.ErrPaperSchema)
	case errors.Is(err, fs.ErrNotExist):
		response.Fail(c, http.StatusBadGateway, response.ErrPaperLoad)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
