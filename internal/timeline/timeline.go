// Package timeline holds the client-side list of posts for one feed view and
// keeps it consistent with the viewer's engagement actions. The list is
// replaced wholesale by loads and patched in place by mutations; ordering is
// always the server's, with locally created posts prepended at the head.
package timeline

import (
	"context"
	"errors"
	"sync"

	"github.com/chirpsocial/chirp-go/internal/api"
	"github.com/chirpsocial/chirp-go/internal/models"
)

// State is the per-feed list state. Mutations never move the state machine;
// only loads do.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateErrored:
		return "errored"
	default:
		return "idle"
	}
}

var (
	// ErrNotReady is returned by mutations issued before the first
	// successful load.
	ErrNotReady = errors.New("timeline: not loaded")
	// ErrClosed is returned once the owning view has been torn down.
	// Responses that come back after Close are discarded, never applied.
	ErrClosed = errors.New("timeline: closed")
)

// API is the slice of the REST client the manager needs. The concrete
// *api.Client satisfies it; tests substitute a fake.
type API interface {
	Timeline(ctx context.Context, limit, offset int, userID *uint) ([]models.Post, error)
	Bookmarks(ctx context.Context, limit, offset int) ([]models.Post, error)
	CreatePost(ctx context.Context, content string, parentID, repostID *uint) (*models.Post, error)
	DeletePost(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, id uint) (*models.LikeResult, error)
	ToggleBookmark(ctx context.Context, id uint) (*models.BookmarkResult, error)
}

// Manager owns the in-memory post list for one scope and one view lifetime.
type Manager struct {
	client API
	scope  Scope
	limit  int

	actions *keyedMutex

	mu      sync.Mutex
	state   State
	posts   []models.Post
	loadErr error
	loadGen uint64
	closed  bool
}

type Option func(*Manager)

// WithPageSize overrides the number of posts fetched per load.
func WithPageSize(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.limit = n
		}
	}
}

// New creates an idle manager for the given scope. The client is handed in
// explicitly; the manager reads no ambient globals.
func New(client API, scope Scope, opts ...Option) *Manager {
	m := &Manager{
		client:  client,
		scope:   scope,
		limit:   20,
		actions: newKeyedMutex(),
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Scope returns the feed this manager owns.
func (m *Manager) Scope() Scope {
	return m.scope
}

// State returns the current list state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err returns the error of the most recent failed load, nil when the state
// is not Errored.
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadErr
}

// ErrorMessage returns the load error as the API reported it, empty when
// there is none.
func (m *Manager) ErrorMessage() string {
	err := m.Err()
	if err == nil {
		return ""
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// Posts returns a snapshot of the list, newest first. The snapshot shares no
// memory with the manager's state.
func (m *Manager) Posts() []models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Post, len(m.posts))
	for i := range m.posts {
		out[i] = m.posts[i].Clone()
	}
	return out
}

// Close detaches the manager from its view. Every in-flight response is
// discarded and all further operations fail with ErrClosed.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// Load fetches the current page for the scope and replaces the list. On
// failure the previous list stays as it was and the state turns Errored with
// the server's message. When loads overlap, only the most recently issued
// one may apply; stale responses are dropped.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.loadGen++
	gen := m.loadGen
	m.state = StateLoading
	m.mu.Unlock()

	posts, err := m.fetch(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || gen != m.loadGen {
		return ErrClosed
	}
	if err != nil {
		m.state = StateErrored
		m.loadErr = err
		return err
	}
	m.state = StateReady
	m.loadErr = nil
	m.posts = posts
	return nil
}

func (m *Manager) fetch(ctx context.Context) ([]models.Post, error) {
	switch m.scope.kind {
	case ScopeBookmarks:
		return m.client.Bookmarks(ctx, m.limit, 0)
	case ScopeUser:
		userID := m.scope.userID
		return m.client.Timeline(ctx, m.limit, 0, &userID)
	default:
		return m.client.Timeline(ctx, m.limit, 0, nil)
	}
}

// CreatePost sends a new post or reply and prepends the created post on
// success. A reply also bumps the parent's reply count on the one matching
// entry already in the list. On failure the list is untouched and the error
// goes back to the caller.
func (m *Manager) CreatePost(ctx context.Context, content string, parentID *uint) (*models.Post, error) {
	if err := m.requireReady(); err != nil {
		return nil, err
	}

	post, err := m.client.CreatePost(ctx, content, parentID, nil)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	if parentID != nil {
		m.patchFirstMatch(*parentID, func(target *models.Post) {
			target.ReplyCount++
		})
	}
	m.prepend(post)
	return post, nil
}

// Repost wraps an existing post. The new wrapper lands at the head of the
// list and the original's entry gets its repost count bumped and is_reposted
// set. Reposting something already reposted is not blocked here; the server
// owns duplicate handling.
func (m *Manager) Repost(ctx context.Context, originalID uint) (*models.Post, error) {
	if err := m.requireReady(); err != nil {
		return nil, err
	}

	unlock := m.actions.lock(originalID)
	defer unlock()

	post, err := m.client.CreatePost(ctx, "", nil, &originalID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	m.patchFirstMatch(originalID, func(target *models.Post) {
		target.RepostCount++
		target.IsReposted = true
	})
	m.prepend(post)
	return post, nil
}

// ToggleLike flips the viewer's like on a post. Nothing is assumed before
// the response arrives; the server-returned flag and count are applied
// verbatim to the first matching entry. Overlapping toggles on the same post
// are serialized so the visible state always matches the last-acknowledged
// response.
func (m *Manager) ToggleLike(ctx context.Context, postID uint) error {
	if err := m.requireReady(); err != nil {
		return err
	}

	unlock := m.actions.lock(postID)
	defer unlock()

	result, err := m.client.ToggleLike(ctx, postID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.patchFirstMatch(postID, func(target *models.Post) {
		target.IsLiked = result.IsLiked
		target.LikeCount = result.LikeCount
	})
	return nil
}

// ToggleBookmark is ToggleLike's contract against the bookmark flag.
func (m *Manager) ToggleBookmark(ctx context.Context, postID uint) error {
	if err := m.requireReady(); err != nil {
		return err
	}

	unlock := m.actions.lock(postID)
	defer unlock()

	result, err := m.client.ToggleBookmark(ctx, postID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.patchFirstMatch(postID, func(target *models.Post) {
		target.IsBookmarked = result.IsBookmarked
		target.BookmarkCount = result.BookmarkCount
	})
	return nil
}

// DeletePost removes exactly the entries whose own id matches. Repost
// wrappers that embed the deleted post stay in the list.
func (m *Manager) DeletePost(ctx context.Context, postID uint) error {
	if err := m.requireReady(); err != nil {
		return err
	}

	unlock := m.actions.lock(postID)
	defer unlock()

	if err := m.client.DeletePost(ctx, postID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	kept := m.posts[:0]
	for i := range m.posts {
		if m.posts[i].ID != postID {
			kept = append(kept, m.posts[i])
		}
	}
	m.posts = kept
	return nil
}

func (m *Manager) requireReady() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.state != StateReady {
		return ErrNotReady
	}
	return nil
}

// patchFirstMatch applies fn to the first entry whose own id or embedded
// repost id matches. Only that one target is touched; sibling entries that
// reference the same underlying post are left alone.
func (m *Manager) patchFirstMatch(id uint, fn func(*models.Post)) bool {
	for i := range m.posts {
		if target := m.posts[i].Engagement(id); target != nil {
			fn(target)
			return true
		}
	}
	return false
}

func (m *Manager) prepend(post *models.Post) {
	m.posts = append([]models.Post{post.Clone()}, m.posts...)
}
