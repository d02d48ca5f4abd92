package middleware

import (
	"context"
	"net/http"
	"strings"

	"bookreview/utils"

	"github.com/gin-gonic/gin"
)

// Authenticator resolves a bearer token to the id of a signed-in user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// JWTAuthUserMiddleware rejects requests without a live bearer token and
// stores the caller's id under "userID".
func JWTAuthUserMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Not authorized, no token", nil)
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Not authorized, no token", nil)
			return
		}

		userID, err := auth.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Not authorized, token failed", err)
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
