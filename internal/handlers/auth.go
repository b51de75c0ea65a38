package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"socialnet/internal/db"
	"socialnet/internal/models"
	"socialnet/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "auth/register.html", gin.H{"Title": "Sign up"})
}

func (h *AuthHandler) Register(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	if username == "" {
		// Fall back to the mailbox name
		if parts := strings.Split(email, "@"); len(parts) == 2 {
			username = parts[0]
		}
	}
	if email == "" || username == "" {
		Render(c, http.StatusBadRequest, "auth/register.html", gin.H{"Title": "Sign up", "Error": "Email and username are required"})
		return
	}
	if len(password) < 6 {
		Render(c, http.StatusBadRequest, "auth/register.html", gin.H{"Title": "Sign up", "Error": "Password must be at least 6 characters"})
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		Render(c, http.StatusInternalServerError, "auth/register.html", gin.H{"Title": "Sign up", "Error": "Registration failed"})
		return
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hash,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		Render(c, http.StatusConflict, "auth/register.html", gin.H{"Title": "Sign up", "Error": "Email or username already registered"})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", gin.H{"Title": "Log in"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Title": "Log in", "Error": "Invalid email or password"})
		return
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Title": "Log in", "Error": "Invalid email or password"})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	if userID := session.Get("user_id"); userID != nil {
		utils.GetCache().Delete(fmt.Sprintf("user:%v", userID))
	}
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/")
}
