// Package web holds the gin helpers shared by the feature handlers.
package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-desk/internal/platform/apperr"
)

const HeaderRequestID = "X-Request-ID"

var ErrRouteNotFound = apperr.NotFound("ROUTE_NOT_FOUND", "no such route")

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error *apperr.Error `json:"error"`
}

// Error writes err as {"error":{code,reason,message}} with the matching status.
func Error(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	body := apperr.From(err)
	if status == http.StatusInternalServerError {
		// 内部エラーの詳細はログにだけ出す
		_ = c.Error(err)
		body = apperr.Internal("internal error")
	}
	c.JSON(status, ErrorResponse{Error: body})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: apperr.Invalid(msg)})
}

// ParamID parses a positive integer path parameter.
func ParamID(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		BadRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return v, true
}

// RequestID reuses the caller's X-Request-ID or assigns a new uuid.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(HeaderRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// Logger replaces gin.Logger with one slog line per request.
func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(HeaderRequestID),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
			log.Error("request failed", attrs...)
			return
		}
		log.Info("request", attrs...)
	}
}
