package handlers

import (
	"fleamarket/internal/middleware"
	"fleamarket/internal/models"

	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user, exists := c.Get(middleware.CheckUserKey); exists {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError renders the shared error page.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Title": "Error", "Error": message})
}

// CurrentUser returns the logged-in user from the request context, nil when
// anonymous.
func CurrentUser(c *gin.Context) *models.User {
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		return user.(*models.User)
	}
	return nil
}
