package middleware

import (
	"fmt"
	"net/http"
	"time"

	"edushareqa/internal/pkg/logger"
	"edushareqa/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const headerRequestID = "X-Request-ID"

// RequestID propagates X-Request-ID or generates a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(headerRequestID, id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// RequestLogger logs every request and recovers from panics.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				log.Error("panic recovered",
					append(requestFields(c, start), zap.Any("panic", recovered), zap.Stack("stack"))...)
				response.CustomError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error")
				return
			}

			fields := requestFields(c, start)
			for _, err := range c.Errors {
				fields = append(fields, zap.String("error", fmt.Sprintf("%v", err.Err)))
			}
			switch status := c.Writer.Status(); {
			case status >= http.StatusInternalServerError:
				log.Error("request failed", fields...)
			case status >= http.StatusBadRequest:
				log.Warn("request rejected", fields...)
			default:
				log.Info("request", fields...)
			}
		}()

		c.Next()
	}
}

func requestFields(c *gin.Context, start time.Time) []zap.Field {
	return []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("latency", time.Since(start)),
		zap.String("client_ip", c.ClientIP()),
		zap.String("request_id", c.GetString("request_id")),
		zap.Int64("user_id", c.GetInt64(ContextUserID)),
	}
}
