package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/cornucopia-api/pkg/apperror"
)

// APIResponse is the envelope of operational endpoints (health checks).
// Resource endpoints answer with the bare document.
type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
}

// Envelope writes an APIResponse.
func Envelope[T any](ctx *gin.Context, status int, data T, message string) {
	res := Success(ctx, status, data, message, nil)
	res.Success = status < http.StatusBadRequest
	ctx.JSON(res.Status, res)
}

func JSON(ctx *gin.Context, status int, v any) {
	ctx.JSON(status, v)
}

func Text(ctx *gin.Context, status int, s string) {
	ctx.String(status, s)
}

func NoContent(ctx *gin.Context) {
	ctx.Status(http.StatusNoContent)
}

// Error aborts with the status of err's kind and a plain-text body.
func Error(ctx *gin.Context, err error) {
	ctx.Abort()
	ctx.String(apperror.KindOf(err).Status(), apperror.PublicMessage(err))
}
