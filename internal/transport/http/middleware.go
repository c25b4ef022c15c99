package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// verifyFunc checks a credential string and returns its session identity.
type verifyFunc func(token string) (string, error)

// requireCredential guards a route: 401 when no credential is attached, 403
// when the credential is malformed, expired, or lacks the required role.
func requireCredential(verify verifyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token == "" {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		session, err := verify(token)
		if err != nil {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) string {
	return c.GetString(sessionKey)
}
