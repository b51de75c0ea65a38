package view

import (
	"html/template"
	"socialnet/internal/models"
	"socialnet/internal/utils"
	"time"
)

// PostView is the per-viewer projection of a post. It is never persisted;
// the permission flags are recomputed on every render.
type PostView struct {
	PostID        uint
	Heading       string
	Text          string
	TextHTML      template.HTML
	LikesCount    int
	DislikesCount int
	PublishedAt   time.Time
	AuthorName    string
	AuthorAvatar  string

	CanEdit    bool
	CanDelete  bool
	CanLike    bool
	CanDislike bool
}

// NewPostView projects a post for a viewer. Edit and delete belong to the
// author; like and dislike belong to everyone else.
func NewPostView(post *models.Post, viewerID uint) PostView {
	isAuthor := post.AuthorID == viewerID

	return PostView{
		PostID:        post.ID,
		Heading:       post.Heading,
		Text:          post.Text,
		TextHTML:      utils.RenderMarkdown(post.Text),
		LikesCount:    post.LikesCount,
		DislikesCount: post.DislikesCount,
		PublishedAt:   post.CreatedAt,
		AuthorName:    post.Author.Username,
		AuthorAvatar:  post.Author.Avatar,

		CanEdit:    isAuthor,
		CanDelete:  isAuthor,
		CanLike:    !isAuthor,
		CanDislike: !isAuthor,
	}
}
