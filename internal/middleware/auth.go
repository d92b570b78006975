package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/technews/backend/internal/models"
	"github.com/emilythestrangee/technews/backend/internal/session"
)

const sessionKey = "session"

// LoadSession resolves the request's session, if any, and stores it on the
// context. It never rejects a request.
func LoadSession(sessions *session.Manager, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := sessions.Load(c.Request)
		switch {
		case err == nil:
			c.Set(sessionKey, sess)
		case !errors.Is(err, session.ErrNotFound):
			log.ErrorContext(c.Request.Context(), "load session", "error", err)
		}
		c.Next()
	}
}

// SessionFrom returns the session LoadSession attached, if it found one.
func SessionFrom(c *gin.Context) (*models.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*models.Session)
	if !ok || sess == nil || !sess.LoggedIn {
		return nil, false
	}
	return sess, true
}

// UserID returns the logged in user's id.
func UserID(c *gin.Context) (int, bool) {
	sess, ok := SessionFrom(c)
	if !ok {
		return 0, false
	}
	return sess.UserID, true
}

// AuthMiddleware guards JSON endpoints: anonymous requests get a 401.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "You must be logged in"})
			return
		}
		c.Next()
	}
}

// ViewAuthMiddleware guards HTML pages: anonymous requests are sent to
// loginPath.
func ViewAuthMiddleware(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
