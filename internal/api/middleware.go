package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const bearerTokenKey = "bearerToken"

// RequireBearerToken rejects requests without a well-formed Authorization
// header before any model or store work happens. The extracted token is
// stored in the request context; whether it actually authorizes the request
// is the pipeline verifier's decision.
func RequireBearerToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.String(http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.String(http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		c.Set(bearerTokenKey, parts[1])
		c.Next()
	}
}

// GetBearerToken gets the extracted bearer token from context
func GetBearerToken(c *gin.Context) string {
	if token, exists := c.Get(bearerTokenKey); exists {
		return token.(string)
	}
	return ""
}
