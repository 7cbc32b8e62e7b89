package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirpsocial/chirp-go/internal/api"
	"github.com/chirpsocial/chirp-go/internal/models"
	"github.com/chirpsocial/chirp-go/internal/timeline"
)

type fakeFeed struct {
	scope   timeline.Scope
	posts   []models.Post
	loadErr error

	closed      bool
	likedIDs    []uint
	markedIDs   []uint
	repostedIDs []uint
	deletedIDs  []uint
	created     []models.CreatePostRequest
}

func (f *fakeFeed) Load(ctx context.Context) error {
	return f.loadErr
}

func (f *fakeFeed) Posts() []models.Post  { return f.posts }
func (f *fakeFeed) State() timeline.State { return timeline.StateReady }
func (f *fakeFeed) ErrorMessage() string  { return "" }
func (f *fakeFeed) Scope() timeline.Scope { return f.scope }
func (f *fakeFeed) Close()                { f.closed = true }

func (f *fakeFeed) CreatePost(ctx context.Context, content string, parentID *uint) (*models.Post, error) {
	f.created = append(f.created, models.CreatePostRequest{Content: content, ParentID: parentID})
	return &models.Post{ID: 100, Content: content}, nil
}

func (f *fakeFeed) Repost(ctx context.Context, originalID uint) (*models.Post, error) {
	f.repostedIDs = append(f.repostedIDs, originalID)
	return &models.Post{ID: 101}, nil
}

func (f *fakeFeed) ToggleLike(ctx context.Context, postID uint) error {
	f.likedIDs = append(f.likedIDs, postID)
	return nil
}

func (f *fakeFeed) ToggleBookmark(ctx context.Context, postID uint) error {
	f.markedIDs = append(f.markedIDs, postID)
	return nil
}

func (f *fakeFeed) DeletePost(ctx context.Context, postID uint) error {
	f.deletedIDs = append(f.deletedIDs, postID)
	return nil
}

type fakeReplies struct {
	replies []models.Post
	err     error
	askedID uint
}

func (f *fakeReplies) Replies(ctx context.Context, id uint) ([]models.Post, error) {
	f.askedID = id
	return f.replies, f.err
}

func samplePosts() []models.Post {
	original := models.Post{ID: 4, Content: "original", Author: models.User{Username: "ada"}}
	return []models.Post{
		{ID: 9, Author: models.User{Username: "grace"}, Repost: &original},
		{ID: 5, Content: "plain", Author: models.User{Username: "ada"}},
		{ID: 3, Content: "older", Author: models.User{Username: "grace"}},
	}
}

// newReadyModel returns a model that already completed its initial load.
func newReadyModel(t *testing.T, feed *fakeFeed) Model {
	t.Helper()
	m := NewModel(feed, func(scope timeline.Scope) Feed { return feed }, &fakeReplies{}, models.User{ID: 1, Username: "me"})
	updated, _ := m.Update(loadDoneMsg{posts: feed.posts})
	return updated.(Model)
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestInitialLoadPopulatesList(t *testing.T) {
	feed := &fakeFeed{scope: timeline.Home(), posts: samplePosts()}
	m := NewModel(feed, func(timeline.Scope) Feed { return feed }, &fakeReplies{}, models.User{Username: "me"})

	cmd := m.Init()
	require.NotNil(t, cmd)
	msg := cmd()

	updated, _ := m.Update(msg)
	m = updated.(Model)
	assert.False(t, m.loading)
	assert.Len(t, m.posts, 3)
}

func TestUnauthorizedLoadQuitsWithHint(t *testing.T) {
	feed := &fakeFeed{scope: timeline.Home(), loadErr: &api.Error{Status: 401, Message: "unauthorized"}}
	m := NewModel(feed, func(timeline.Scope) Feed { return feed }, &fakeReplies{}, models.User{Username: "me"})

	msg := m.Init()()
	updated, cmd := m.Update(msg)
	m = updated.(Model)

	assert.NotEmpty(t, m.QuitHint())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestLoadFailureKeepsModelAlive(t *testing.T) {
	feed := &fakeFeed{scope: timeline.Home(), loadErr: &api.Error{Status: 502, Message: "bad gateway"}}
	m := NewModel(feed, func(timeline.Scope) Feed { return feed }, &fakeReplies{}, models.User{Username: "me"})

	msg := m.Init()()
	updated, cmd := m.Update(msg)
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.Empty(t, m.QuitHint())
	assert.Equal(t, "bad gateway", m.loadError)
}

func TestCursorNavigationStaysInBounds(t *testing.T) {
	m := newReadyModel(t, &fakeFeed{scope: timeline.Home(), posts: samplePosts()})

	m, _ = press(t, m, "k")
	assert.Equal(t, 0, m.cursor, "cannot move above the top")

	m, _ = press(t, m, "j")
	m, _ = press(t, m, "j")
	m, _ = press(t, m, "j")
	assert.Equal(t, 2, m.cursor, "cannot move past the bottom")

	m, _ = press(t, m, "g")
	assert.Equal(t, 0, m.cursor)

	m, _ = press(t, m, "G")
	assert.Equal(t, 2, m.cursor)
}

func TestEngagementTargetsDisplayedOriginal(t *testing.T) {
	feed := &fakeFeed{scope: timeline.Home(), posts: samplePosts()}
	m := newReadyModel(t, feed)

	// Cursor starts on the repost wrapper (id 9, embedding id 4).
	_, cmd := press(t, m, "l")
	require.NotNil(t, cmd)
	cmd()
	require.Len(t, feed.likedIDs, 1)
	assert.Equal(t, uint(4), feed.likedIDs[0])

	_, cmd = press(t, m, "b")
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, []uint{4}, feed.markedIDs)

	_, cmd = press(t, m, "t")
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, []uint{4}, feed.repostedIDs)
}

func TestDeleteTargetsEntryItself(t *testing.T) {
	feed := &fakeFeed{scope: timeline.Home(), posts: samplePosts()}
	m := newReadyModel(t, feed)

	// The wrapper's own id, not the embedded original's.
	_, cmd := press(t, m, "d")
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, []uint{9}, feed.deletedIDs)
}

func TestComposeSubmitsTrimmedContent(t *testing.T) {
	feed := &fakeFeed{scope: timeline.Home(), posts: samplePosts()}
	m := newReadyModel(t, feed)

	m, _ = press(t, m, "n")
	m, _ = press(t, m, "hi")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = updated.(Model)
	m, _ = press(t, m, "all")

	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	cmd()

	require.Len(t, feed.created, 1)
	assert.Equal(t, "hi all", feed.created[0].Content)
	assert.Nil(t, feed.created[0].ParentID)
	assert.Equal(t, modeList, m.mode)
}

func TestComposeEscCancelsWithoutPosting(t *testing.T) {
	feed := &fakeFeed{scope: timeline.Home(), posts: samplePosts()}
	m := newReadyModel(t, feed)

	m, _ = press(t, m, "n")
	m, _ = press(t, m, "draft")
	m, _ = press(t, m, "esc")

	assert.Empty(t, feed.created)
	assert.Equal(t, modeList, m.mode)
}

func TestComposeEmptyEnterDoesNothing(t *testing.T) {
	feed := &fakeFeed{scope: timeline.Home(), posts: samplePosts()}
	m := newReadyModel(t, feed)

	m, _ = press(t, m, "n")
	m, cmd := press(t, m, "enter")

	assert.Nil(t, cmd)
	assert.Equal(t, modeCompose, m.mode)
	assert.Empty(t, feed.created)
}

func TestReplyComposeTargetsDisplayedOriginal(t *testing.T) {
	feed := &fakeFeed{scope: timeline.Home(), posts: samplePosts()}
	m := newReadyModel(t, feed)

	m, _ = press(t, m, "R")
	require.NotNil(t, m.composeParent)
	assert.Equal(t, uint(4), *m.composeParent, "reply goes to the embedded original")

	m, _ = press(t, m, "ok")
	_, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	cmd()

	require.Len(t, feed.created, 1)
	require.NotNil(t, feed.created[0].ParentID)
	assert.Equal(t, uint(4), *feed.created[0].ParentID)
}

func TestScopeSwitchClosesOldFeed(t *testing.T) {
	oldFeed := &fakeFeed{scope: timeline.Home(), posts: samplePosts()}
	newFeed := &fakeFeed{scope: timeline.Bookmarks()}
	m := NewModel(oldFeed, func(scope timeline.Scope) Feed {
		assert.Equal(t, timeline.Bookmarks(), scope)
		return newFeed
	}, &fakeReplies{}, models.User{ID: 1, Username: "me"})
	updated, _ := m.Update(loadDoneMsg{posts: oldFeed.posts})
	m = updated.(Model)

	m, cmd := press(t, m, "2")
	require.NotNil(t, cmd)
	assert.True(t, oldFeed.closed)
	assert.True(t, m.loading)
	assert.Empty(t, m.posts)
	assert.Equal(t, 0, m.cursor)
}

func TestScopeSwitchToSameScopeIsNoop(t *testing.T) {
	feed := &fakeFeed{scope: timeline.Home(), posts: samplePosts()}
	m := newReadyModel(t, feed)

	_, cmd := press(t, m, "1")
	assert.Nil(t, cmd)
	assert.False(t, feed.closed)
}

func TestDetailViewLoadsReplies(t *testing.T) {
	feed := &fakeFeed{scope: timeline.Home(), posts: samplePosts()}
	replies := &fakeReplies{replies: []models.Post{{ID: 30, Content: "a reply", Author: models.User{Username: "ada"}}}}
	m := NewModel(feed, func(timeline.Scope) Feed { return feed }, replies, models.User{Username: "me"})
	updated, _ := m.Update(loadDoneMsg{posts: feed.posts})
	m = updated.(Model)

	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	assert.Equal(t, modeDetail, m.mode)

	updated, _ = m.Update(cmd())
	m = updated.(Model)
	assert.Equal(t, uint(4), replies.askedID, "detail follows the displayed original")
	require.Len(t, m.detailReplies, 1)
	assert.Equal(t, "a reply", m.detailReplies[0].Content)

	m, _ = press(t, m, "esc")
	assert.Equal(t, modeList, m.mode)
	assert.Nil(t, m.detailReplies)
}

func TestStaleStatusClearIsIgnored(t *testing.T) {
	feed := &fakeFeed{scope: timeline.Home(), posts: samplePosts()}
	m := newReadyModel(t, feed)

	updated, _ := m.Update(actionDoneMsg{posts: feed.posts, status: "posted"})
	m = updated.(Model)
	staleID := m.statusID

	updated, _ = m.Update(actionDoneMsg{posts: feed.posts, status: "like toggled"})
	m = updated.(Model)

	updated, _ = m.Update(clearStatusMsg{id: staleID})
	m = updated.(Model)
	assert.Equal(t, "like toggled", m.status, "older timer must not clear the newer status")

	updated, _ = m.Update(clearStatusMsg{id: m.statusID})
	m = updated.(Model)
	assert.Empty(t, m.status)
}

func TestActionFailureShowsTransientError(t *testing.T) {
	feed := &fakeFeed{scope: timeline.Home(), posts: samplePosts()}
	m := newReadyModel(t, feed)

	updated, cmd := m.Update(actionFailMsg{message: "post not found"})
	m = updated.(Model)
	assert.NotNil(t, cmd)
	assert.Equal(t, "error: post not found", m.status)
	assert.Empty(t, m.loadError, "mutation failures never become the load error")
}

func TestQuitClosesFeed(t *testing.T) {
	feed := &fakeFeed{scope: timeline.Home(), posts: samplePosts()}
	m := newReadyModel(t, feed)

	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.True(t, feed.closed)
}
