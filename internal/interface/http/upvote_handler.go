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

type UpvoteHandler struct {
	Svc    *application.UpvoteService
	Logger *logrus.Logger
}

func NewUpvoteHandler(svc *application.UpvoteService, logger *logrus.Logger) *UpvoteHandler {
	return &UpvoteHandler{Svc: svc, Logger: logger}
}

type createUpvoteRequest struct {
	Upvote string `json:"upvote"`
}

// Create POST /api/upvote/:id, where id is the recipe, answers {profile, recipe, upvote}.
func (h *UpvoteHandler) Create(c *gin.Context) {
	var req createUpvoteRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.Svc.Create(c.Request.Context(), middleware.Identity(c).UserID, c.Param("id"), req.Upvote)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, out)
}

// Get GET /api/upvote/:id
func (h *UpvoteHandler) Get(c *gin.Context) {
	uv, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, uv)
}

// Update PUT /api/upvote/:id
func (h *UpvoteHandler) Update(c *gin.Context) {
	var patch entity.UpvotePatch
	if !bindPatch(c, &patch) {
		return
	}
	uv, err := h.Svc.Update(c.Request.Context(), c.Param("id"), middleware.Identity(c).UserID, patch)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, uv)
}

// Delete DELETE /api/upvote/:id
func (h *UpvoteHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id"), middleware.Identity(c).UserID); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}
