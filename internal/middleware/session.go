package middleware

import (
	"net/http" // HTTP status codes and cookie modes
	"time"     // Cookie lifetimes

	"hospital_insights/internal/utils" // Session token helpers

	"github.com/gin-gonic/gin" // Gin web framework
)

const (
	SessionCookie = "session"     // Cookie carrying the session token
	LoginPath     = "/auth/login" // Where anonymous users are sent
	userIDKey     = "userID"      // Context key for the signed-in user ID
)

// SetSessionCookie stores a signed session token in an HttpOnly cookie
func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(ttl.Seconds()), "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}

// SessionClaims returns the claims of a valid session cookie, if any
func SessionClaims(c *gin.Context, secret string) (*utils.SessionClaims, bool) {
	token, err := c.Cookie(SessionCookie)
	if err != nil || token == "" {
		return nil, false
	}
	claims, err := utils.ParseSessionToken(token, secret)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// RequireLogin validates the session cookie and redirects anonymous
// requests to the login page
func RequireLogin(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := SessionClaims(c, secret)
		if !ok {
			if _, err := c.Cookie(SessionCookie); err == nil {
				ClearSessionCookie(c) // Drop an expired or tampered cookie
			}
			AddFlash(c, "warning", "Please log in to access this page.")
			Redirect(c, LoginPath)
			c.Abort()
			return
		}
		c.Set(userIDKey, claims.UserID) // Store userID in context
		c.Next()
	}
}

// UserID returns the signed-in user ID set by RequireLogin
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
