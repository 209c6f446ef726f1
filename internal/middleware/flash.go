package middleware

import (
	"encoding/base64" // Cookie-safe encoding
	"encoding/json"   // Flash serialization
	"net/http"        // Status codes and cookie modes

	"github.com/gin-gonic/gin" // Gin web framework
)

const (
	flashCookie  = "flash"          // Cookie carrying messages across one redirect
	pendingFlash = "pendingFlashes" // Context key for messages queued in this request
)

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Category string `json:"c"` // success, info, warning or danger
	Message  string `json:"m"`
}

// AddFlash queues a message for the next rendered page
func AddFlash(c *gin.Context, category, message string) {
	c.Set(pendingFlash, append(pending(c), Flash{Category: category, Message: message}))
}

// Redirect sends a 302 and carries queued messages in a cookie
func Redirect(c *gin.Context, location string) {
	if queued := pending(c); len(queued) > 0 {
		if raw, err := json.Marshal(queued); err == nil {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(raw), 0, "/", "", false, true)
		}
	}
	c.Redirect(http.StatusFound, location)
}

// TakeFlashes returns messages carried by the cookie plus those queued in
// this request, and consumes both
func TakeFlashes(c *gin.Context) []Flash {
	var out []Flash
	if encoded, err := c.Cookie(flashCookie); err == nil {
		if raw, err := base64.RawURLEncoding.DecodeString(encoded); err == nil {
			_ = json.Unmarshal(raw, &out) // A corrupt cookie only loses messages
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	}
	out = append(out, pending(c)...)
	c.Set(pendingFlash, []Flash(nil))
	return out
}

func pending(c *gin.Context) []Flash {
	if v, ok := c.Get(pendingFlash); ok {
		if queued, ok := v.([]Flash); ok {
			return queued
		}
	}
	return nil
}
