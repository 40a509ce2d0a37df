package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/AgriMat-Platform/internal/application/session"
	"github.com/turtacn/AgriMat-Platform/pkg/types/common"
)

// HeaderSessionID carries the session id for API clients. Browsers use the
// cookie instead.
const HeaderSessionID = "X-Session-ID"

// DefaultCookieName is used when SessionConfig.CookieName is empty.
const DefaultCookieName = "session_id"

// SessionStore is implemented by *session.Manager.
type SessionStore interface {
	Get(id string) (*session.Session, error)
	Create() *session.Session
}

// SessionConfig controls how the session id travels.
type SessionConfig struct {
	CookieName string
	// Ensure replaces a missing or expired id with a fresh session.
	Ensure bool
	Secure bool
}

// Session resolves the caller's session id from the X-Session-ID header or
// the session cookie, header first. With Ensure set, a caller without a live
// session gets a new one, announced through both the header and the cookie.
func Session(store SessionStore, cfg SessionConfig) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	return func(c *gin.Context) {
		id := SessionIDFromRequest(c, cfg.CookieName)
		if cfg.Ensure {
			if id == "" {
				id = issue(c, store, cfg)
			} else if _, err := store.Get(id); err != nil {
				id = issue(c, store, cfg)
			}
		}
		if id != "" {
			c.Set(string(common.ContextKeySessionID), id)
		}
		c.Next()
	}
}

func issue(c *gin.Context, store SessionStore, cfg SessionConfig) string {
	s := store.Create()
	SetSessionCookie(c, cfg.CookieName, s.ID, cfg.Secure)
	return s.ID
}

// SessionIDFromRequest reads the header, then the cookie.
func SessionIDFromRequest(c *gin.Context, cookieName string) string {
	if id := c.GetHeader(HeaderSessionID); id != "" {
		return id
	}
	if id, err := c.Cookie(cookieName); err == nil {
		return id
	}
	return ""
}

// SetSessionCookie hands id to the client as header and HttpOnly cookie.
func SetSessionCookie(c *gin.Context, cookieName, id string, secure bool) {
	c.Header(HeaderSessionID, id)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, id, 0, "/", "", secure, true)
}

// GetSessionID returns the id resolved by Session, or "".
func GetSessionID(c *gin.Context) string {
	return c.GetString(string(common.ContextKeySessionID))
}
