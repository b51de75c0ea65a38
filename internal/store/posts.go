package store

import (
	"context"
	"errors"
	"fmt"
	"socialnet/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup expected exactly one post.
var ErrNotFound = errors.New("post not found")

type PostsOrder int

const (
	CreatedAtDesc PostsOrder = iota
	CreatedAtAsc
)

func (o PostsOrder) clause() string {
	if o == CreatedAtAsc {
		return "created_at ASC, id ASC"
	}
	return "created_at DESC, id DESC"
}

// Tx is a unit of work over posts. Insert assigns the server id inside the
// open transaction; nothing is durable until Commit, which applies all
// pending changes or none of them.
type Tx interface {
	Insert(post *models.Post) (*models.Post, error)
	Update(post *models.Post)
	Delete(post *models.Post)
	Commit() error
	Rollback()
}

type Posts struct {
	db *gorm.DB
}

func NewPosts(db *gorm.DB) *Posts {
	return &Posts{db: db}
}

// GetOne fetches a single post by id, eagerly joining the author only when
// asked for.
func (s *Posts) GetOne(ctx context.Context, id uint, includeAuthor bool) (*models.Post, error) {
	q := s.db.WithContext(ctx)
	if includeAuthor {
		q = q.Preload("Author")
	}

	var post models.Post
	if err := q.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch post %d: %w", id, err)
	}
	return &post, nil
}

// GetMany returns a page of posts. take of 0 yields an empty page, not an
// error; negative bounds are rejected.
func (s *Posts) GetMany(ctx context.Context, order PostsOrder, skip, take int, includeAuthor bool) ([]models.Post, error) {
	if skip < 0 || take < 0 {
		return nil, fmt.Errorf("negative page bounds: skip=%d take=%d", skip, take)
	}
	if take == 0 {
		return []models.Post{}, nil
	}

	q := s.db.WithContext(ctx).Order(order.clause()).Offset(skip).Limit(take)
	if includeAuthor {
		q = q.Preload("Author")
	}

	var posts []models.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Begin opens a unit of work scoped to one request.
func (s *Posts) Begin(ctx context.Context) (Tx, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin unit of work: %w", tx.Error)
	}
	return &postTx{tx: tx}, nil
}

type postTx struct {
	tx  *gorm.DB
	err error
}

func (u *postTx) Insert(post *models.Post) (*models.Post, error) {
	// Omit the author association so a preloaded Author is never upserted
	// alongside the post itself.
	if err := u.tx.Omit("Author").Create(post).Error; err != nil {
		u.err = err
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return post, nil
}

func (u *postTx) Update(post *models.Post) {
	if u.err != nil {
		return
	}
	u.err = u.tx.Omit("Author").Save(post).Error
}

func (u *postTx) Delete(post *models.Post) {
	if u.err != nil {
		return
	}
	u.err = u.tx.Delete(post).Error
}

func (u *postTx) Commit() error {
	if u.err != nil {
		u.tx.Rollback()
		return fmt.Errorf("commit unit of work: %w", u.err)
	}
	if err := u.tx.Commit().Error; err != nil {
		return fmt.Errorf("commit unit of work: %w", err)
	}
	return nil
}

func (u *postTx) Rollback() {
	u.tx.Rollback()
}
