package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gin context keys shared with the HTTP middleware
const (
	GinRequestIDKey = "request_id"
	GinUserIDKey    = "user_id"
)

// GinMiddleware attaches a request-scoped logger to the request context and
// logs one line per request once the handler chain has run.
func GinMiddleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetString(GinRequestIDKey)

		ctx := WithRequestID(c.Request.Context(), requestID)
		ctx = WithContext(ctx, base.With(
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		))
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		l := L(c.Request.Context())
		switch {
		case status >= http.StatusInternalServerError:
			l.Error("request", fields...)
		case status >= http.StatusBadRequest:
			l.Warn("request", fields...)
		default:
			l.Info("request", fields...)
		}
	}
}

// Recovery turns a panic into a 500 and logs it with the stack
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				base.Error("panic recovered",
					zap.String("request_id", c.GetString(GinRequestIDKey)),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", r),
					zap.Stack("stacktrace"),
				)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}
