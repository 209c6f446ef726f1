package api

import (
	"hospital_insights/internal/middleware" // Session and flash helpers

	"github.com/gin-gonic/gin" // Gin web framework
)

// renderPage renders a page inside the layout with the signed-in user and
// pending flash messages
func renderPage(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string{}
	}
	data["User"] = middleware.User(c)
	data["Flashes"] = middleware.TakeFlashes(c)
	c.HTML(status, page, data)
}
