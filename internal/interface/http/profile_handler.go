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

type ProfileHandler struct {
	Svc    *application.ProfileService
	Logger *logrus.Logger
}

func NewProfileHandler(svc *application.ProfileService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Logger: logger}
}

type createProfileRequest struct {
	Name          string  `json:"name" binding:"max=100"`
	ProfilePicURI *string `json:"profilePicURI"`
}

// Create POST /api/profile
func (h *ProfileHandler) Create(c *gin.Context) {
	var req createProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	uid := middleware.Identity(c).UserID
	p, err := h.Svc.Create(c.Request.Context(), uid, application.CreateProfileInput{
		Name:          req.Name,
		ProfilePicURI: req.ProfilePicURI,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, p)
}

// Get GET /api/profile/:id
func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, p)
}

// List GET /api/allprofiles
func (h *ProfileHandler) List(c *gin.Context) {
	ps, err := h.Svc.List(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, ps)
}

// Update PUT /api/profile/:id
func (h *ProfileHandler) Update(c *gin.Context) {
	var patch entity.ProfilePatch
	if !bindPatch(c, &patch) {
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), c.Param("id"), middleware.Identity(c).UserID, patch)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, p)
}

// Delete DELETE /api/profile/:id removes the profile, its content and the
// owning account.
func (h *ProfileHandler) Delete(c *gin.Context) {
	if _, err := h.Svc.Delete(c.Request.Context(), c.Param("id"), middleware.Identity(c)); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}

// Recipes GET /api/allrecipes/:profileID
func (h *ProfileHandler) Recipes(c *gin.Context) {
	p, err := h.Svc.WithRecipes(c.Request.Context(), c.Param("profileID"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, p)
}

// Comments GET /api/allcomments/:profileID
func (h *ProfileHandler) Comments(c *gin.Context) {
	p, err := h.Svc.WithComments(c.Request.Context(), c.Param("profileID"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, p)
}

// Upvotes GET /api/allupvotes/:profileID
func (h *ProfileHandler) Upvotes(c *gin.Context) {
	p, err := h.Svc.WithUpvotes(c.Request.Context(), c.Param("profileID"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, p)
}
