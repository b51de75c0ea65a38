package handlers

import (
	"errors"
	"log"
	"net/http"

	"socialnet/internal/middleware"
	"socialnet/internal/models"
	"socialnet/internal/services"
	"socialnet/internal/store"

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

// currentUser returns the session user loaded by middleware, or nil.
func currentUser(c *gin.Context) *models.User {
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		return user.(*models.User)
	}
	return nil
}

// currentUserID returns 0 for anonymous viewers.
func currentUserID(c *gin.Context) uint {
	if user := currentUser(c); user != nil {
		return user.ID
	}
	return 0
}

// fail maps service errors onto the response status.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		c.Status(http.StatusUnauthorized)
	case errors.Is(err, services.ErrForbidden):
		c.Status(http.StatusForbidden)
	case errors.Is(err, store.ErrNotFound):
		c.Status(http.StatusNotFound)
	default:
		log.Printf("request failed: %v", err)
		c.Status(http.StatusInternalServerError)
	}
}
