package middleware

import (
	"net/http"
	"slices"
	"strings"

	"edushareqa/internal/pkg/jwt"
	"edushareqa/internal/pkg/logger"
	"edushareqa/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "user_id"
	ContextRoles  = "roles"
)

// JWTAuth authenticates the Authorization bearer token. Browser downloads
// and websocket upgrades cannot set headers, so a `token` query parameter is
// accepted when the header is absent.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""
		header := c.GetHeader("Authorization")
		switch {
		case header != "":
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				response.CustomError(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
				return
			}
			tokenStr = strings.TrimSpace(parts[1])
		case c.Query("token") != "":
			tokenStr = c.Query("token")
		default:
			response.CustomError(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			response.CustomError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRoles, claims.Roles)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// UserID returns the authenticated user id, or 0.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ContextUserID)
}

func Roles(c *gin.Context) []string {
	return c.GetStringSlice(ContextRoles)
}

func HasRole(c *gin.Context, role string) bool {
	return slices.Contains(Roles(c), role)
}
