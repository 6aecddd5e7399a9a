package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cornucopia-api/pkg/apperror"
	"github.com/oksasatya/cornucopia-api/pkg/response"
	"github.com/oksasatya/cornucopia-api/pkg/validation"
)

// fail writes err as plain text with the status of its kind. Internal
// failures are logged with their cause; clients only see the kind name.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	if apperror.KindOf(err) == apperror.KindInternal && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"route":      c.FullPath(),
		}).Error("request failed")
	}
	response.Error(c, err)
}

// bindJSON decodes a required JSON body, answering 400 on failure.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		response.Text(c, http.StatusBadRequest, validation.Message(err))
		c.Abort()
		return false
	}
	return true
}

// bindPatch decodes an optional JSON body; an empty body leaves v untouched so
// the service can reject the empty patch.
func bindPatch(c *gin.Context, v any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		response.Text(c, http.StatusBadRequest, validation.Message(err))
		c.Abort()
		return false
	}
	return true
}
