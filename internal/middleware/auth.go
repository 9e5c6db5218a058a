package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/urbix/urbix-backend/pkg/utils"
)

// AuthMiddleware validates the bearer token and stores the subject id and
// role on the context. The token may also arrive as a query parameter for
// websocket upgrades, which cannot set headers from browsers.
func AuthMiddleware(jwtm *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			utils.Fail(c, 401, "Authorization required")
			c.Abort()
			return
		}

		userID, role, err := jwtm.Verify(tokenString)
		if err != nil {
			utils.Fail(c, 401, "Invalid token")
			c.Abort()
			return
		}

		c.Set("userId", userID)
		c.Set("role", role)
		c.Next()
	}
}
