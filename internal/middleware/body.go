package middleware

import (
	"net/http"

	"edushareqa/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// BodyLimit caps request bodies at limit bytes. A request that announces a
// larger Content-Length is refused before anything is read; otherwise reads
// past the limit fail with *http.MaxBytesError.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			response.CustomError(c, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE", "Request body is too large")
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
