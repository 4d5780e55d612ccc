package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"okeiko-booking-backend/internal/auth"
)

const sessionKey = "session"

// SessionResolver resolves tokens to live sessions.
type SessionResolver interface {
	Lookup(token string) (auth.Session, bool)
}

// Token extracts the bearer token from a request, or "".
func Token(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// RequireSession rejects requests without a valid session token and stores
// the session on the request context for handlers.
func RequireSession(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := Token(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		session, found := resolver.Lookup(token)
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired, please log in again"})
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireAdmin rejects sessions that do not belong to the administrator.
// Must run after RequireSession.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetSession(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "administrator only"})
			return
		}
		c.Next()
	}
}

// GetSession returns the session stored by RequireSession.
func GetSession(c *gin.Context) auth.Session {
	v, _ := c.Get(sessionKey)
	session, _ := v.(auth.Session)
	return session
}
