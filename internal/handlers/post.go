package handlers

import (
	"html/template"
	"net/http"
	"strings"

	"socialnet/internal/services"
	"socialnet/internal/utils"

	"github.com/gin-gonic/gin"
)

const feedPageSize = 5

type PostHandler struct {
	service *services.PostService
}

func NewPostHandler(service *services.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// Index renders the feed page with the first page of posts.
func (h *PostHandler) Index(c *gin.Context) {
	fragments, err := h.service.List(c.Request.Context(), currentUserID(c), feedPageSize, 0, true)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "The feed is unavailable right now.")
		return
	}

	htmls := make([]template.HTML, len(fragments))
	for i, f := range fragments {
		htmls[i] = template.HTML(f)
	}

	Render(c, http.StatusOK, "feed/list.html", gin.H{
		"Title":     "Social Network",
		"Fragments": htmls,
	})
}

// Create publishes a new post authored by the session user.
func (h *PostHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	text := c.PostForm("text")
	heading := c.PostForm("heading")
	if strings.TrimSpace(text) == "" {
		c.String(http.StatusBadRequest, "post text is required")
		return
	}

	if _, err := h.service.Create(c.Request.Context(), user, text, heading); err != nil {
		fail(c, err)
		return
	}
	c.String(http.StatusOK, "")
}

// Load returns one page of rendered fragments for infinite scrolling.
func (h *PostHandler) Load(c *gin.Context) {
	count := utils.StringToInt(c.DefaultPostForm("count", "5"))
	skip := utils.StringToInt(c.DefaultPostForm("skip", "0"))
	if count < 0 || skip < 0 {
		c.String(http.StatusBadRequest, "count and skip must be non-negative")
		return
	}
	includeAuthor := c.DefaultPostForm("include_author", "true") != "false"

	fragments, err := h.service.List(c.Request.Context(), currentUserID(c), count, skip, includeAuthor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, fragments)
}

// Update edits text or heading, or bumps the like/dislike counters.
func (h *PostHandler) Update(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	id := utils.StringToInt(c.Param("id"))
	if id <= 0 {
		c.Status(http.StatusNotFound)
		return
	}

	var change services.PostUpdate
	if text, ok := c.GetPostForm("text"); ok {
		change.Text = &text
	}
	if heading, ok := c.GetPostForm("heading"); ok {
		change.Heading = &heading
	}
	change.AddLike = c.PostForm("add_like") == "true"
	change.AddDislike = c.PostForm("add_dislike") == "true"

	if _, err := h.service.Update(c.Request.Context(), user.ID, uint(id), change); err != nil {
		fail(c, err)
		return
	}
	c.String(http.StatusOK, "")
}

// Delete removes a post authored by the session user.
func (h *PostHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	id := utils.StringToInt(c.Param("id"))
	if id <= 0 {
		c.Status(http.StatusNotFound)
		return
	}

	if err := h.service.Delete(c.Request.Context(), user.ID, uint(id)); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}
