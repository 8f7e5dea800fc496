package middleware

import (
	"fleamarket/internal/models"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func strptr(s string) *string { return &s }

// gateRouter builds a router with the profile gate active and the given user
// (nil = anonymous) preloaded into the request context.
func gateRouter(user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(CheckUserKey, user)
		}
		c.Next()
	})
	r.Use(ProfileRequired())

	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/", ok)
	r.GET("/profile/set", ok)
	r.GET("/logout", ok)
	r.GET("/static/css/main.css", ok)
	r.GET("/media/pic.png", ok)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestProfileRequiredAnonymousBypasses(t *testing.T) {
	r := gateRouter(nil)
	if w := get(r, "/"); w.Code != http.StatusOK {
		t.Errorf("anonymous request: got %d, want 200", w.Code)
	}
}

func TestProfileRequiredIncompleteRedirects(t *testing.T) {
	// Nickname alone is not enough, address and city are still missing
	user := &models.User{ID: 1, Nickname: strptr("nick")}
	r := gateRouter(user)

	w := get(r, "/")
	if w.Code != http.StatusFound {
		t.Fatalf("incomplete profile: got %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/profile/set" {
		t.Errorf("redirect location: got %q, want /profile/set", loc)
	}
}

func TestProfileRequiredExemptPaths(t *testing.T) {
	user := &models.User{ID: 1}
	r := gateRouter(user)

	for _, path := range []string{"/profile/set", "/logout", "/static/css/main.css", "/media/pic.png"} {
		if w := get(r, path); w.Code != http.StatusOK {
			t.Errorf("exempt path %s: got %d, want 200", path, w.Code)
		}
	}
}

func TestProfileRequiredCompletePasses(t *testing.T) {
	user := &models.User{ID: 1, Nickname: strptr("nick"), Address: "1 Main St", City: "Springfield"}
	r := gateRouter(user)
	if w := get(r, "/"); w.Code != http.StatusOK {
		t.Errorf("complete profile: got %d, want 200", w.Code)
	}
}

func TestAuthRequiredRedirectsToLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("test_secret"))
	r.Use(sessions.Sessions("test_session", store))
	r.GET("/sell", AuthRequired(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := get(r, "/sell")
	if w.Code != http.StatusFound {
		t.Fatalf("anonymous on protected route: got %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect location: got %q, want /login", loc)
	}
}

func TestAuthRequiredPassesLoadedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("test_secret"))
	r.Use(sessions.Sessions("test_session", store))
	r.Use(func(c *gin.Context) {
		c.Set(CheckUserKey, &models.User{ID: 1})
		c.Next()
	})
	r.GET("/sell", AuthRequired(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	if w := get(r, "/sell"); w.Code != http.StatusOK {
		t.Errorf("loaded user on protected route: got %d, want 200", w.Code)
	}
}

// A session cookie whose user row no longer exists must land on the login
// page, not in a handler that dereferences the current user.
func TestAuthRequiredStaleSessionRedirects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("test_secret"))
	r.Use(sessions.Sessions("test_session", store))
	// The seed route stands in for a login whose user was later deleted:
	// the session survives but LoadUser sets nothing in the context.
	r.GET("/seed", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Set("user_id", uint(99))
		s.Save()
		c.String(http.StatusOK, "ok")
	})
	r.GET("/sell", AuthRequired(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	seed := get(r, "/seed")
	sessionCookie := seed.Header().Get("Set-Cookie")
	if sessionCookie == "" {
		t.Fatal("seed request produced no session cookie")
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sell", nil)
	req.Header.Set("Cookie", sessionCookie)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("stale session on protected route: got %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect location: got %q, want /login", loc)
	}
}
