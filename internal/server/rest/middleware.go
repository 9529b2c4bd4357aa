package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmatveev/authd/internal/common"
)

const contextKeyUserID = "user_id"

// TokenParser validates a bearer token and returns the account ID it was
// issued for.
type TokenParser interface {
	UserID(tokenString string) (string, error)
}

// UserIDFromContext returns the account ID set by RequireToken, or "".
func UserIDFromContext(c *gin.Context) string {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}

// RequireToken checks the Authorization header for a valid bearer token and
// stores the token's account ID in the request context. Missing or invalid
// tokens get 401.
func RequireToken(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthHeaderName)
		if !strings.HasPrefix(header, common.AuthSchemePrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		userID, err := parser.UserID(strings.TrimPrefix(header, common.AuthSchemePrefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(contextKeyUserID, userID)
		c.Next()
	}
}
