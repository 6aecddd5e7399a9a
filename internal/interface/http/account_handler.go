package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cornucopia-api/internal/application"
	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	"github.com/oksasatya/cornucopia-api/internal/interface/middleware"
	"github.com/oksasatya/cornucopia-api/pkg/apperror"
	"github.com/oksasatya/cornucopia-api/pkg/response"
)

type AccountHandler struct {
	Svc    *application.AccountService
	Logger *logrus.Logger
}

func NewAccountHandler(svc *application.AccountService, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{Svc: svc, Logger: logger}
}

type signupRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup POST /api/signup answers with the bearer token as text.
func (h *AccountHandler) Signup(c *gin.Context) {
	var req signupRequest
	if !bindJSON(c, &req) {
		return
	}
	token, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Text(c, http.StatusOK, token)
}

// Signin GET /api/signin (basic auth) rotates the user's token.
func (h *AccountHandler) Signin(c *gin.Context) {
	u, ok := h.account(c)
	if !ok {
		return
	}
	token, err := h.Svc.Signin(c.Request.Context(), u)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Text(c, http.StatusOK, token)
}

// Update PUT /api/account (basic auth).
func (h *AccountHandler) Update(c *gin.Context) {
	u, ok := h.account(c)
	if !ok {
		return
	}
	var patch entity.UserPatch
	if !bindPatch(c, &patch) {
		return
	}
	updated, err := h.Svc.Update(c.Request.Context(), u, patch)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, updated)
}

// Delete DELETE /api/account (basic auth) closes the account and cascades
// through its profile. Dependent-step failures are logged by the cascade and
// do not change the answer.
func (h *AccountHandler) Delete(c *gin.Context) {
	u, ok := h.account(c)
	if !ok {
		return
	}
	if _, err := h.Svc.Close(c.Request.Context(), u); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}

func (h *AccountHandler) account(c *gin.Context) (*entity.User, bool) {
	u := middleware.Account(c)
	if u == nil {
		fail(c, h.Logger, apperror.Auth("basic credentials required"))
		return nil, false
	}
	return u, true
}
