package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"socialnet/internal/hub"
	"socialnet/internal/middleware"
	"socialnet/internal/models"
	"socialnet/internal/services"
	"socialnet/internal/store"
	"socialnet/internal/view"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memStore is just enough of a post store to drive the handlers end to end.
type memStore struct {
	mu    sync.Mutex
	posts map[uint]models.Post
	next  uint
}

func newMemStore(posts ...models.Post) *memStore {
	s := &memStore{posts: make(map[uint]models.Post)}
	for _, p := range posts {
		if p.ID == 0 {
			s.next++
			p.ID = s.next
		} else if p.ID > s.next {
			s.next = p.ID
		}
		s.posts[p.ID] = p
	}
	return s
}

func (s *memStore) GetOne(_ context.Context, id uint, _ bool) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *memStore) GetMany(_ context.Context, _ store.PostsOrder, skip, take int, _ bool) ([]models.Post, error) {
	s.mu.Lock()
	all := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		all = append(all, p)
	}
	s.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if skip >= len(all) {
		return []models.Post{}, nil
	}
	all = all[skip:]
	if take < len(all) {
		all = all[:take]
	}
	return all, nil
}

func (s *memStore) Begin(_ context.Context) (store.Tx, error) {
	return &memTx{store: s}, nil
}

type memTx struct {
	store   *memStore
	pending []func(map[uint]models.Post)
}

func (t *memTx) Insert(post *models.Post) (*models.Post, error) {
	t.store.mu.Lock()
	t.store.next++
	post.ID = t.store.next
	t.store.mu.Unlock()

	stored := *post
	t.pending = append(t.pending, func(m map[uint]models.Post) { m[stored.ID] = stored })
	return post, nil
}

func (t *memTx) Update(post *models.Post) {
	stored := *post
	t.pending = append(t.pending, func(m map[uint]models.Post) { m[stored.ID] = stored })
}

func (t *memTx) Delete(post *models.Post) {
	id := post.ID
	t.pending = append(t.pending, func(m map[uint]models.Post) { delete(m, id) })
}

func (t *memTx) Commit() error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, apply := range t.pending {
		apply(t.store.posts)
	}
	return nil
}

func (t *memTx) Rollback() { t.pending = nil }

type markerRenderer struct{}

func (markerRenderer) RenderPost(v view.PostView) (string, error) {
	return fmt.Sprintf("<post-%d>", v.PostID), nil
}

type nullHub struct{}

func (nullHub) Emit(hub.Event, interface{}) {}

func newTestRouter(fs *memStore, user *models.User) *gin.Engine {
	r := gin.New()
	if user != nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.CheckUserKey, user)
		})
	}

	h := NewPostHandler(services.NewPostService(fs, markerRenderer{}, nullHub{}))
	r.POST("/posts", h.Create)
	r.POST("/posts/load", h.Load)
	r.POST("/posts/:id", h.Update)
	r.DELETE("/posts/:id", h.Delete)
	return r
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var (
	author = models.User{ID: 1, Username: "alice"}
	viewer = models.User{ID: 2, Username: "bob"}
)

func TestCreatePost(t *testing.T) {
	fs := newMemStore()
	r := newTestRouter(fs, &author)

	w := postForm(r, "/posts", url.Values{"text": {"Hello"}, "heading": {"Hi"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "" {
		t.Errorf("body = %q, want empty", w.Body.String())
	}

	p, err := fs.GetOne(context.Background(), 1, false)
	if err != nil {
		t.Fatalf("post not stored: %v", err)
	}
	if p.AuthorID != author.ID || p.Text != "Hello" {
		t.Errorf("stored post = %+v", p)
	}
}

func TestCreatePostRequiresUser(t *testing.T) {
	r := newTestRouter(newMemStore(), nil)

	w := postForm(r, "/posts", url.Values{"text": {"Hello"}})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestCreatePostRequiresText(t *testing.T) {
	r := newTestRouter(newMemStore(), &author)

	w := postForm(r, "/posts", url.Values{"text": {"   "}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUpdateForbidden(t *testing.T) {
	fs := newMemStore(models.Post{AuthorID: author.ID, Text: "mine", CreatedAt: time.Now()})
	r := newTestRouter(fs, &viewer)

	w := postForm(r, "/posts/1", url.Values{"text": {"not yours"}})
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestUpdateNotFound(t *testing.T) {
	r := newTestRouter(newMemStore(), &viewer)

	w := postForm(r, "/posts/99", url.Values{"add_like": {"true"}})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestUpdateLike(t *testing.T) {
	fs := newMemStore(models.Post{AuthorID: author.ID, Text: "mine", CreatedAt: time.Now()})
	r := newTestRouter(fs, &viewer)

	w := postForm(r, "/posts/1", url.Values{"add_like": {"true"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	p, _ := fs.GetOne(context.Background(), 1, false)
	if p.LikesCount != 1 {
		t.Errorf("LikesCount = %d, want 1", p.LikesCount)
	}
}

func TestDeletePost(t *testing.T) {
	fs := newMemStore(models.Post{AuthorID: author.ID, Text: "mine", CreatedAt: time.Now()})
	r := newTestRouter(fs, &author)

	req := httptest.NewRequest(http.MethodDelete, "/posts/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if _, err := fs.GetOne(context.Background(), 1, false); err == nil {
		t.Error("post still present after delete")
	}
}

func TestDeletePostForbidden(t *testing.T) {
	fs := newMemStore(models.Post{AuthorID: author.ID, Text: "mine", CreatedAt: time.Now()})
	r := newTestRouter(fs, &viewer)

	req := httptest.NewRequest(http.MethodDelete, "/posts/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestLoadPosts(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fs := newMemStore(
		models.Post{AuthorID: author.ID, Text: "first", CreatedAt: base},
		models.Post{AuthorID: author.ID, Text: "second", CreatedAt: base.Add(time.Hour)},
		models.Post{AuthorID: author.ID, Text: "third", CreatedAt: base.Add(2 * time.Hour)},
	)
	r := newTestRouter(fs, &viewer)

	w := postForm(r, "/posts/load", url.Values{"count": {"2"}, "skip": {"0"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var fragments []string
	if err := json.Unmarshal(w.Body.Bytes(), &fragments); err != nil {
		t.Fatalf("bad JSON body %q: %v", w.Body.String(), err)
	}
	if len(fragments) != 2 {
		t.Fatalf("got %d fragments, want 2", len(fragments))
	}
	if fragments[0] != "<post-3>" || fragments[1] != "<post-2>" {
		t.Errorf("fragments = %v, want newest first", fragments)
	}
}

func TestLoadPostsRejectsNegativeBounds(t *testing.T) {
	r := newTestRouter(newMemStore(), &viewer)

	w := postForm(r, "/posts/load", url.Values{"count": {"-1"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
