package router

import (
	"socialnet/internal/handlers"
	"socialnet/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, post *handlers.PostHandler, auth *handlers.AuthHandler, ws *handlers.WSHandler) {
	// Public Routes
	r.GET("/", post.Index)
	r.GET("/ws", ws.Serve)

	r.GET("/signup", auth.ShowRegister)
	r.POST("/signup", auth.Register)
	r.GET("/login", auth.ShowLogin)
	r.POST("/login", auth.Login)
	r.GET("/logout", auth.Logout)

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/posts", post.Create)
		authorized.POST("/posts/load", post.Load)
		authorized.POST("/posts/:id", post.Update)
		authorized.DELETE("/posts/:id", post.Delete)
	}
}
