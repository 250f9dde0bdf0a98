package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spakle/amarquiz-backend/internal/model"
	"github.com/spakle/amarquiz-backend/internal/response"
	"github.com/spakle/amarquiz-backend/internal/service"
	"github.com/spakle/amarquiz-backend/internal/validator"
)

// IdentityHandler issues identity tokens. There is no login: the student
// states a name and optional email once and gets a long-lived signed token.
type IdentityHandler struct {
	identityService *service.IdentityService
}

// NewIdentityHandler creates a new IdentityHandler.
func NewIdentityHandler(identityService *service.IdentityService) *IdentityHandler {
	return &IdentityHandler{identityService: identityService}
}

// SaveIdentity godoc
// POST /api/v1/identity
// Issues a signed identity token for the submitted name/email.
func (h *IdentityHandler) SaveIdentity(c *gin.Context) {
	var req model.IdentityRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	id := model.Identity{Name: req.Name, Email: req.Email}
	token, err := h.identityService.IssueToken(id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":        token,
		"personal_key": id.PersonalKey(),
		"name":         id.Name,
		"email":        id.Email,
	})
}
