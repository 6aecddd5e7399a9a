package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cornucopia-api/internal/application"
	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	"github.com/oksasatya/cornucopia-api/internal/interface/middleware"
	"github.com/oksasatya/cornucopia-api/pkg/apperror"
	"github.com/oksasatya/cornucopia-api/pkg/response"
)

// uploadFields are the multipart field names accepted for the image, in order.
var uploadFields = []string{"image", "file"}

type PicHandler struct {
	Svc      *application.PicService
	Logger   *logrus.Logger
	MaxBytes int64
}

func NewPicHandler(svc *application.PicService, logger *logrus.Logger, maxBytes int64) *PicHandler {
	return &PicHandler{Svc: svc, Logger: logger, MaxBytes: maxBytes}
}

// Attach handles POST /api/{profile,recipe}/:id/pic.
func (h *PicHandler) Attach(kind entity.OwnerKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.MaxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes)
		}
		fh, err := formFile(c)
		if err != nil {
			fail(c, h.Logger, err)
			return
		}
		f, err := fh.Open()
		if err != nil {
			fail(c, h.Logger, apperror.Internal("open upload", err))
			return
		}
		defer func() { _ = f.Close() }()

		pic, err := h.Svc.Attach(c.Request.Context(), middleware.Identity(c).UserID, kind, c.Param("id"), application.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        f,
		})
		if err != nil {
			fail(c, h.Logger, err)
			return
		}
		response.JSON(c, http.StatusOK, pic)
	}
}

// Detach handles DELETE /api/{profile,recipe}/:id/pic.
func (h *PicHandler) Detach(kind entity.OwnerKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.Svc.Detach(c.Request.Context(), middleware.Identity(c).UserID, kind, c.Param("id")); err != nil {
			fail(c, h.Logger, err)
			return
		}
		response.NoContent(c)
	}
}

// Get GET /api/pic/:picID
func (h *PicHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("picID"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, p)
}

func formFile(c *gin.Context) (*multipart.FileHeader, error) {
	for _, field := range uploadFields {
		fh, err := c.FormFile(field)
		if err == nil {
			return fh, nil
		}
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, apperror.Validation("image file too large")
		}
		if !errors.Is(err, http.ErrMissingFile) {
			return nil, apperror.Validation("multipart form with an image file required")
		}
	}
	return nil, apperror.Validation("image file required")
}
