package middleware

import (
	"net/http"
	"strings"

	"postboard/pkg/session"

	"github.com/gin-gonic/gin"
)

// Context keys set by the session middlewares.
const (
	ContextUserID    = "user_id"
	ContextUsername  = "username"
	ContextSessionID = "session_id"
)

// SessionToken reads the session token from the cookie, falling back to an
// "Authorization: Bearer" header.
func SessionToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func attachSession(c *gin.Context, sessions *session.Manager, cookieName string) {
	token := SessionToken(c, cookieName)
	if token == "" {
		return
	}
	s, err := sessions.Resolve(c.Request.Context(), token)
	if err != nil {
		return
	}
	c.Set(ContextUserID, s.UserID)
	c.Set(ContextUsername, s.Username)
	c.Set(ContextSessionID, s.ID)
}

// OptionalAuthMiddleware attaches the caller's session when there is a valid
// one and lets every request through.
func OptionalAuthMiddleware(sessions *session.Manager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		attachSession(c, sessions, cookieName)
		c.Next()
	}
}

// AuthMiddleware rejects requests without a live session.
func AuthMiddleware(sessions *session.Manager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserID) == "" {
			attachSession(c, sessions, cookieName)
		}
		if c.GetString(ContextUserID) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
