package main

import (
	"html/template"
	"log"
	"os"
	"path/filepath"
	"time"

	"socialnet/internal/db"
	"socialnet/internal/handlers"
	"socialnet/internal/hub"
	"socialnet/internal/middleware"
	"socialnet/internal/router"
	"socialnet/internal/services"
	"socialnet/internal/store"
	"socialnet/internal/utils"
	"socialnet/internal/view"

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

	// Broadcast hub for the live feed
	feedHub := hub.New()
	go feedHub.Run()

	// Post fragment renderer
	renderer, err := view.NewRenderer("./web/templates/components/post.html")
	if err != nil {
		log.Fatalf("Failed to load post fragment template: %v", err)
	}

	postService := services.NewPostService(store.NewPosts(db.DB), renderer, feedHub)

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	cookieStore := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("socialnet_session", cookieStore))

	// Load Templates using Multitemplate to avoid collision and allow handler names
	r.HTMLRender = loadTemplates("./web/templates")

	// Static Assets
	r.Static("/static", "./web/static")

	// Middleware
	r.Use(middleware.LoadUser())

	router.RegisterRoutes(r,
		handlers.NewPostHandler(postService),
		handlers.NewAuthHandler(),
		handlers.NewWSHandler(feedHub),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("SocialNet server starting on :%s", port)
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

	components, err := filepath.Glob(templatesDir + "/components/*.html")
	if err != nil {
		panic(err)
	}

	// Helper to assemble files: layout first so it is the root template
	assemble := func(viewFile string) []string {
		files := make([]string, 0)
		files = append(files, layouts...)
		files = append(files, components...)
		files = append(files, viewFile)
		return files
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"timeAgo": func(t interface{}) string {
			if timeVal, ok := t.(time.Time); ok {
				return utils.TimeAgo(timeVal)
			}
			return ""
		},
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}

	// Manual registration to ensure keys match handler expectation
	r.AddFromFilesFuncs("feed/list.html", funcMap, assemble(templatesDir+"/views/feed/list.html")...)

	// Auth
	r.AddFromFilesFuncs("auth/login.html", funcMap, assemble(templatesDir+"/views/auth/login.html")...)
	r.AddFromFilesFuncs("auth/register.html", funcMap, assemble(templatesDir+"/views/auth/register.html")...)

	// Error
	r.AddFromFilesFuncs("error.html", funcMap, assemble(templatesDir+"/views/error.html")...)

	return r
}
