package main

import (
	"fleamarket/internal/db"
	"fleamarket/internal/middleware"
	"fleamarket/internal/router"
	"fleamarket/internal/services"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("fleamarket_session", store))

	// Load Templates using Multitemplate to avoid collision and allow handler names
	r.HTMLRender = loadTemplates("./web/templates")

	// Static Assets and uploaded media
	r.Static("/static", "./web/static")
	r.Static("/media", services.MediaDir)

	// Middleware: resolve the session user, then run the profile gate on
	// every request before any handler
	r.Use(middleware.LoadUser())
	r.Use(middleware.ProfileRequired())

	router.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("fleamarket server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func loadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	assemble := func(view string) []string {
		files := make([]string, 0)
		files = append(files, layouts...)
		files = append(files, view)
		return files
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"timeAgo": func(t interface{}) string {
			var timeVal time.Time
			switch v := t.(type) {
			case time.Time:
				timeVal = v
			default:
				return ""
			}

			duration := time.Since(timeVal)
			seconds := int(duration.Seconds())

			if seconds < 60 {
				return fmt.Sprintf("%ds ago", seconds)
			} else if seconds < 3600 {
				return fmt.Sprintf("%dm ago", seconds/60)
			} else if seconds < 86400 {
				return fmt.Sprintf("%dh ago", seconds/3600)
			} else if seconds < 2592000 {
				return fmt.Sprintf("%dd ago", seconds/86400)
			} else if seconds < 31536000 {
				return fmt.Sprintf("%dmo ago", seconds/2592000)
			}
			return fmt.Sprintf("%dy ago", seconds/31536000)
		},
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}

	// Auth
	r.AddFromFilesFuncs("auth/login.html", funcMap, assemble(templatesDir+"/views/auth/login.html")...)
	r.AddFromFilesFuncs("auth/register.html", funcMap, assemble(templatesDir+"/views/auth/register.html")...)
	r.AddFromFilesFuncs("auth/confirm.html", funcMap, assemble(templatesDir+"/views/auth/confirm.html")...)

	// Items
	r.AddFromFilesFuncs("item/list.html", funcMap, assemble(templatesDir+"/views/item/list.html")...)
	r.AddFromFilesFuncs("item/detail.html", funcMap, assemble(templatesDir+"/views/item/detail.html")...)
	r.AddFromFilesFuncs("item/sell.html", funcMap, assemble(templatesDir+"/views/item/sell.html")...)
	r.AddFromFilesFuncs("item/edit.html", funcMap, assemble(templatesDir+"/views/item/edit.html")...)

	// User
	r.AddFromFilesFuncs("user/public.html", funcMap, assemble(templatesDir+"/views/user/public.html")...)
	r.AddFromFilesFuncs("user/profile_form.html", funcMap, assemble(templatesDir+"/views/user/profile_form.html")...)

	// Error
	r.AddFromFilesFuncs("error.html", funcMap, assemble(templatesDir+"/views/error.html")...)

	return r
}
