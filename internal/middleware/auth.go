package middleware

import (
	"fmt"
	"net/http"
	"time"

	"socialnet/internal/db"
	"socialnet/internal/models"
	"socialnet/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")
		if userID == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoadUser resolves the session identity once per request and stores the
// user record in the gin context; handlers hand it to the service layer
// explicitly from there.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			cacheKey := fmt.Sprintf("user:%v", userID)
			if cached := utils.GetCache().Get(cacheKey); cached != nil {
				if user, ok := cached.(*models.User); ok {
					c.Set(CheckUserKey, user)
					c.Next()
					return
				}
			}

			var user models.User
			result := db.DB.First(&user, userID)
			if result.Error == nil {
				c.Set(CheckUserKey, &user)
				utils.GetCache().Set(cacheKey, &user, 1*time.Minute)
			}
		}
		c.Next()
	}
}
