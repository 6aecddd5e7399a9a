package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cornucopia-api/internal/application"
	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	"github.com/oksasatya/cornucopia-api/internal/interface/middleware"
	"github.com/oksasatya/cornucopia-api/pkg/response"
)

type RecipeHandler struct {
	Svc    *application.RecipeService
	Logger *logrus.Logger
}

func NewRecipeHandler(svc *application.RecipeService, logger *logrus.Logger) *RecipeHandler {
	return &RecipeHandler{Svc: svc, Logger: logger}
}

// Required fields are checked by the service so that the message names all
// of the missing ones at once.
type createRecipeRequest struct {
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	CookTime     string   `json:"cookTime"`
	PrepTime     string   `json:"prepTime"`
	RecipeName   string   `json:"recipeName"`
	RecipePicURI *string  `json:"recipePicURI"`
	Categories   []string `json:"categories"`
}

// Create POST /api/recipe answers {profile, recipe}.
func (h *RecipeHandler) Create(c *gin.Context) {
	var req createRecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.Svc.Create(c.Request.Context(), middleware.Identity(c).UserID, application.CreateRecipeInput{
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		CookTime:     req.CookTime,
		PrepTime:     req.PrepTime,
		RecipeName:   req.RecipeName,
		RecipePicURI: req.RecipePicURI,
		Categories:   req.Categories,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, out)
}

// Get GET /api/recipe/:id
func (h *RecipeHandler) Get(c *gin.Context) {
	r, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, r)
}

// Update PUT /api/recipe/:id
func (h *RecipeHandler) Update(c *gin.Context) {
	var patch entity.RecipePatch
	if !bindPatch(c, &patch) {
		return
	}
	r, err := h.Svc.Update(c.Request.Context(), c.Param("id"), middleware.Identity(c).UserID, patch)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, r)
}

// Delete DELETE /api/recipe/:id
func (h *RecipeHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id"), middleware.Identity(c).UserID); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}

// Comments GET /api/allrecipecomments/:recipeID
func (h *RecipeHandler) Comments(c *gin.Context) {
	r, err := h.Svc.WithComments(c.Request.Context(), c.Param("recipeID"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, r)
}

// Upvotes GET /api/allrecipeupvotes/:recipeID
func (h *RecipeHandler) Upvotes(c *gin.Context) {
	r, err := h.Svc.WithUpvotes(c.Request.Context(), c.Param("recipeID"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, r)
}

// Search GET /api/recipes/search?q=&size=
func (h *RecipeHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	rs, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, rs)
}
