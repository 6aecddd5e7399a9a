package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cornucopia-api/internal/application"
	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	"github.com/oksasatya/cornucopia-api/internal/interface/middleware"
	"github.com/oksasatya/cornucopia-api/pkg/response"
)

type CommentHandler struct {
	Svc    *application.CommentService
	Logger *logrus.Logger
}

func NewCommentHandler(svc *application.CommentService, logger *logrus.Logger) *CommentHandler {
	return &CommentHandler{Svc: svc, Logger: logger}
}

type createCommentRequest struct {
	Comment string `json:"comment"`
}

// Create POST /api/comment/:id, where id is the recipe, answers {profile, recipe, comment}.
func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.Svc.Create(c.Request.Context(), middleware.Identity(c).UserID, c.Param("id"), req.Comment)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, out)
}

// Get GET /api/comment/:id
func (h *CommentHandler) Get(c *gin.Context) {
	cm, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, cm)
}

// Update PUT /api/comment/:id
func (h *CommentHandler) Update(c *gin.Context) {
	var patch entity.CommentPatch
	if !bindPatch(c, &patch) {
		return
	}
	cm, err := h.Svc.Update(c.Request.Context(), c.Param("id"), middleware.Identity(c).UserID, patch)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, cm)
}

// Delete DELETE /api/comment/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id"), middleware.Identity(c).UserID); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}
