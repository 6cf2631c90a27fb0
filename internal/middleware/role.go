package middleware

import (
	"net/http"

	"edushareqa/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through when the user holds any of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextRoles); !exists {
			response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		for _, r := range roles {
			if HasRole(c, r) {
				c.Next()
				return
			}
		}
		response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
	}
}
