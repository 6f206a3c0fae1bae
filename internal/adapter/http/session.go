package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookie = "lf_session"
	SessionHeader = "X-Session-Id"
	sessionKey    = "session_id"
	sessionMaxAge = 30 * 24 * 60 * 60
)

// Session assigns every client a cart session id. The cookie wins over the
// header; an absent or malformed id gets a fresh one.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(SessionCookie)
		if id == "" {
			id = c.GetHeader(SessionHeader)
		}
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, sessionMaxAge, "/", "", false, true)
		c.Header(SessionHeader, id)
		c.Set(sessionKey, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string { return c.GetString(sessionKey) }
