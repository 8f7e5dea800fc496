package middleware

import (
	"fleamarket/internal/db"
	"fleamarket/internal/models"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// AuthRequired ensures a user is logged in. It requires the user loaded into
// the context by LoadUser, not just a session cookie: a session whose user row
// no longer exists is cleared and sent back to login instead of reaching
// handlers that dereference the current user.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			session := sessions.Default(c)
			if session.Get("user_id") != nil {
				session.Clear()
				session.Save()
			}
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoadUser retrieves user from session and sets to context
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			var user models.User
			result := db.DB.First(&user, userID)
			if result.Error == nil {
				c.Set(CheckUserKey, &user)
			}
		}
		c.Next()
	}
}

// Paths reachable while the profile is still incomplete. Auth pages must stay
// reachable or the user can never log out or finish signing up.
var profileExemptPaths = map[string]bool{
	"/profile/set":          true,
	"/login":                true,
	"/logout":               true,
	"/signup":               true,
	"/confirm-email":        true,
	"/confirm-email/resend": true,
}

// ProfileRequired redirects authenticated users with an incomplete profile
// (missing nickname, address or city) to the profile setup form. Anonymous
// requests and static/media assets pass through untouched. Runs after
// LoadUser on every request, ahead of all handlers.
func ProfileRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		val, exists := c.Get(CheckUserKey)
		if !exists {
			c.Next()
			return
		}
		user := val.(*models.User)
		if user.ProfileComplete() {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		if profileExemptPaths[path] ||
			strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/media/") {
			c.Next()
			return
		}

		c.Redirect(http.StatusFound, "/profile/set")
		c.Abort()
	}
}
