package services

import (
	"context"
	"sync"
	"time"

	"socialnet/internal/hub"
	"socialnet/internal/models"
	"socialnet/internal/store"
	"socialnet/internal/view"
)

// PostStore is the persistence surface the service needs. Reads take an
// explicit includeAuthor flag; writes go through a unit of work.
type PostStore interface {
	GetOne(ctx context.Context, id uint, includeAuthor bool) (*models.Post, error)
	GetMany(ctx context.Context, order store.PostsOrder, skip, take int, includeAuthor bool) ([]models.Post, error)
	Begin(ctx context.Context) (store.Tx, error)
}

// Renderer produces the HTML fragment for a projected post.
type Renderer interface {
	RenderPost(v view.PostView) (string, error)
}

// Broadcaster pushes events to all connected feed listeners.
type Broadcaster interface {
	Emit(event hub.Event, data interface{})
}

// PostUpdate carries the mutations requested for one post. Nil text and
// heading mean "leave unchanged"; each field is authorized independently.
type PostUpdate struct {
	Text       *string
	Heading    *string
	AddLike    bool
	AddDislike bool
}

// PostService owns the post lifecycle: authorize, mutate the store, project
// for the acting viewer, render, and broadcast. The acting user is always an
// explicit argument, never ambient state.
type PostService struct {
	posts    PostStore
	renderer Renderer
	hub      Broadcaster
	now      func() time.Time
}

func NewPostService(posts PostStore, renderer Renderer, hub Broadcaster) *PostService {
	return &PostService{
		posts:    posts,
		renderer: renderer,
		hub:      hub,
		now:      time.Now,
	}
}

// publishedAt stamps new posts with the server clock at date granularity.
func (s *PostService) publishedAt() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// Create inserts a fresh post for the author, commits it concurrently with
// rendering the author's own view of it, and broadcasts the fragment once
// both have finished.
func (s *PostService) Create(ctx context.Context, author *models.User, text, heading string) (string, error) {
	if author == nil {
		return "", ErrUnauthenticated
	}

	post := &models.Post{
		AuthorID:  author.ID,
		Heading:   heading,
		Text:      text,
		CreatedAt: s.publishedAt(),
	}

	unit, err := s.posts.Begin(ctx)
	if err != nil {
		return "", err
	}

	stored, err := unit.Insert(post)
	if err != nil {
		unit.Rollback()
		return "", err
	}
	stored.Author = *author

	html, err := s.commitAndRender(unit, stored, author.ID)
	if err != nil {
		return "", err
	}

	s.hub.Emit(hub.PostPublished, html)
	return html, nil
}

// List returns one page of rendered fragments, newest first. Fragments are
// rendered in parallel but returned in query order.
func (s *PostService) List(ctx context.Context, viewerID uint, count, skip int, includeAuthor bool) ([]string, error) {
	posts, err := s.posts.GetMany(ctx, store.CreatedAtDesc, skip, count, includeAuthor)
	if err != nil {
		return nil, err
	}

	fragments := make([]string, len(posts))
	errs := make([]error, len(posts))

	var wg sync.WaitGroup
	for i := range posts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fragments[i], errs[i] = s.renderer.RenderPost(view.NewPostView(&posts[i], viewerID))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return fragments, nil
}

// Update applies the requested mutations to one post. Every requested
// mutation is authorized before any of them is applied: text and heading
// edits belong to the author, like and dislike increments to everyone else.
// A single violation fails the whole call before persistence is touched.
func (s *PostService) Update(ctx context.Context, viewerID uint, id uint, change PostUpdate) (string, error) {
	post, err := s.posts.GetOne(ctx, id, true)
	if err != nil {
		return "", err
	}

	isAuthor := post.AuthorID == viewerID
	if (change.Text != nil || change.Heading != nil) && !isAuthor {
		return "", ErrForbidden
	}
	if (change.AddLike || change.AddDislike) && isAuthor {
		return "", ErrForbidden
	}

	if change.Text != nil {
		post.Text = *change.Text
	}
	if change.Heading != nil {
		post.Heading = *change.Heading
	}
	if change.AddLike {
		post.LikesCount++
	}
	if change.AddDislike {
		post.DislikesCount++
	}

	unit, err := s.posts.Begin(ctx)
	if err != nil {
		return "", err
	}
	unit.Update(post)

	html, err := s.commitAndRender(unit, post, viewerID)
	if err != nil {
		return "", err
	}

	s.hub.Emit(hub.PostChanged, html)
	return html, nil
}

// Delete removes a post. Only the author may delete; the broadcast carries
// the bare id since there is nothing left to render.
func (s *PostService) Delete(ctx context.Context, viewerID uint, id uint) error {
	post, err := s.posts.GetOne(ctx, id, false)
	if err != nil {
		return err
	}
	if post.AuthorID != viewerID {
		return ErrForbidden
	}

	unit, err := s.posts.Begin(ctx)
	if err != nil {
		return err
	}
	unit.Delete(post)
	if err := unit.Commit(); err != nil {
		return err
	}

	s.hub.Emit(hub.PostDeleted, post.ID)
	return nil
}

// commitAndRender runs the commit and the fragment render concurrently and
// joins both before the caller may broadcast. The render only reads values
// already in memory, so it never observes a half-committed store.
func (s *PostService) commitAndRender(unit store.Tx, post *models.Post, viewerID uint) (string, error) {
	commitErr := make(chan error, 1)
	go func() {
		commitErr <- unit.Commit()
	}()

	html, renderErr := s.renderer.RenderPost(view.NewPostView(post, viewerID))

	if err := <-commitErr; err != nil {
		return "", err
	}
	if renderErr != nil {
		return "", renderErr
	}
	return html, nil
}
