// Package tui is the terminal front end: a feed list over a timeline
// manager with engagement keys, a detail view with replies, and a minimal
// compose mode.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chirpsocial/chirp-go/internal/api"
	"github.com/chirpsocial/chirp-go/internal/models"
	"github.com/chirpsocial/chirp-go/internal/timeline"
)

// Feed is the slice of the timeline manager the model drives.
type Feed interface {
	Load(ctx context.Context) error
	Posts() []models.Post
	State() timeline.State
	ErrorMessage() string
	Scope() timeline.Scope
	CreatePost(ctx context.Context, content string, parentID *uint) (*models.Post, error)
	Repost(ctx context.Context, originalID uint) (*models.Post, error)
	ToggleLike(ctx context.Context, postID uint) error
	ToggleBookmark(ctx context.Context, postID uint) error
	DeletePost(ctx context.Context, postID uint) error
	Close()
}

// ReplyLoader fetches a post's replies for the detail view.
type ReplyLoader interface {
	Replies(ctx context.Context, id uint) ([]models.Post, error)
}

type mode int

const (
	modeList mode = iota
	modeDetail
	modeCompose
)

type Model struct {
	feed    Feed
	newFeed func(timeline.Scope) Feed
	replies ReplyLoader
	viewer  models.User

	posts     []models.Post
	cursor    int
	loading   bool
	loadError string

	mode          mode
	detailReplies []models.Post
	detailLoading bool

	composeBuffer []rune
	composeParent *uint

	status   string
	statusID int
	quitHint string

	width  int
	height int
}

// NewModel wires the TUI to a feed, a factory for scope switches and a reply
// loader. viewer is the authenticated user.
func NewModel(feed Feed, newFeed func(timeline.Scope) Feed, replies ReplyLoader, viewer models.User) Model {
	return Model{
		feed:    feed,
		newFeed: newFeed,
		replies: replies,
		viewer:  viewer,
		loading: true,
	}
}

// QuitHint is shown by the caller after the program exits, e.g. a prompt to
// log in again.
func (m Model) QuitHint() string {
	return m.quitHint
}

func (m Model) Init() tea.Cmd {
	return loadCmd(m.feed)
}

type loadDoneMsg struct {
	posts []models.Post
}

type loadFailMsg struct {
	message      string
	unauthorized bool
}

type actionDoneMsg struct {
	posts  []models.Post
	status string
}

type actionFailMsg struct {
	message      string
	unauthorized bool
}

type repliesDoneMsg struct {
	posts []models.Post
}

type repliesFailMsg struct {
	message string
}

type clearStatusMsg struct {
	id int
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeCompose {
			return m.updateCompose(msg)
		}
		return m.updateBrowse(msg)

	case loadDoneMsg:
		m.loading = false
		m.loadError = ""
		m.posts = msg.posts
		m.clampCursor()
		return m, nil

	case loadFailMsg:
		m.loading = false
		if msg.unauthorized {
			m.quitHint = "session expired, log in again"
			return m, tea.Quit
		}
		m.loadError = msg.message
		return m, nil

	case actionDoneMsg:
		m.posts = msg.posts
		m.clampCursor()
		m.status = msg.status
		m.statusID++
		return m, clearStatusCmd(m.statusID, 3*time.Second)

	case actionFailMsg:
		if msg.unauthorized {
			m.quitHint = "session expired, log in again"
			return m, tea.Quit
		}
		m.status = "error: " + msg.message
		m.statusID++
		return m, clearStatusCmd(m.statusID, 4*time.Second)

	case repliesDoneMsg:
		m.detailLoading = false
		m.detailReplies = msg.posts
		return m, nil

	case repliesFailMsg:
		m.detailLoading = false
		m.status = "error: " + msg.message
		m.statusID++
		return m, clearStatusCmd(m.statusID, 4*time.Second)

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.feed.Close()
		return m, tea.Quit

	case "esc", "backspace":
		if m.mode == modeDetail {
			m.mode = modeList
			m.detailReplies = nil
		}
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.posts)-1 {
			m.cursor++
		}
		return m, nil

	case "g":
		m.cursor = 0
		return m, nil

	case "G":
		if len(m.posts) > 0 {
			m.cursor = len(m.posts) - 1
		}
		return m, nil

	case "r":
		m.loading = true
		m.loadError = ""
		return m, loadCmd(m.feed)

	case "1":
		return m.switchScope(timeline.Home())
	case "2":
		return m.switchScope(timeline.Bookmarks())
	case "3":
		return m.switchScope(timeline.ForUser(m.viewer.ID))

	case "enter":
		if len(m.posts) == 0 {
			return m, nil
		}
		m.mode = modeDetail
		m.detailLoading = true
		m.detailReplies = nil
		return m, repliesCmd(m.replies, m.posts[m.cursor].Display().ID)

	case "l":
		if target, ok := m.cursorTarget(); ok {
			return m, toggleLikeCmd(m.feed, target)
		}
		return m, nil

	case "b":
		if target, ok := m.cursorTarget(); ok {
			return m, toggleBookmarkCmd(m.feed, target)
		}
		return m, nil

	case "t":
		if target, ok := m.cursorTarget(); ok {
			return m, repostCmd(m.feed, target)
		}
		return m, nil

	case "d":
		if len(m.posts) == 0 {
			return m, nil
		}
		// Delete targets the entry itself, wrapper or not; the server
		// rejects posts the viewer does not own.
		return m, deleteCmd(m.feed, m.posts[m.cursor].ID)

	case "n":
		m.mode = modeCompose
		m.composeBuffer = nil
		m.composeParent = nil
		return m, nil

	case "R":
		if len(m.posts) == 0 {
			return m, nil
		}
		parentID := m.posts[m.cursor].Display().ID
		m.mode = modeCompose
		m.composeBuffer = nil
		m.composeParent = &parentID
		return m, nil
	}
	return m, nil
}

func (m Model) updateCompose(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeList
		m.composeBuffer = nil
		m.composeParent = nil
		return m, nil

	case tea.KeyCtrlC:
		m.feed.Close()
		return m, tea.Quit

	case tea.KeyEnter:
		content := strings.TrimSpace(string(m.composeBuffer))
		if content == "" {
			return m, nil
		}
		parentID := m.composeParent
		m.mode = modeList
		m.composeBuffer = nil
		m.composeParent = nil
		return m, createPostCmd(m.feed, content, parentID)

	case tea.KeyBackspace:
		if len(m.composeBuffer) > 0 {
			m.composeBuffer = m.composeBuffer[:len(m.composeBuffer)-1]
		}
		return m, nil

	case tea.KeySpace:
		m.composeBuffer = append(m.composeBuffer, ' ')
		return m, nil

	case tea.KeyRunes:
		m.composeBuffer = append(m.composeBuffer, msg.Runes...)
		return m, nil
	}
	return m, nil
}

func (m Model) switchScope(scope timeline.Scope) (tea.Model, tea.Cmd) {
	if m.feed.Scope() == scope {
		return m, nil
	}
	m.feed.Close()
	m.feed = m.newFeed(scope)
	m.loading = true
	m.loadError = ""
	m.posts = nil
	m.cursor = 0
	m.mode = modeList
	return m, loadCmd(m.feed)
}

// cursorTarget is the post id engagement keys act on: the displayed original
// for a repost wrapper, the entry itself otherwise.
func (m Model) cursorTarget() (uint, bool) {
	if len(m.posts) == 0 {
		return 0, false
	}
	return m.posts[m.cursor].Display().ID, true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.posts) {
		m.cursor = len(m.posts) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func loadCmd(feed Feed) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := feed.Load(ctx); err != nil {
			return loadFailMsg{message: errorMessage(err), unauthorized: api.IsUnauthorized(err)}
		}
		return loadDoneMsg{posts: feed.Posts()}
	}
}

func toggleLikeCmd(feed Feed, id uint) tea.Cmd {
	return actionCmd(feed, "like toggled", func(ctx context.Context) error {
		return feed.ToggleLike(ctx, id)
	})
}

func toggleBookmarkCmd(feed Feed, id uint) tea.Cmd {
	return actionCmd(feed, "bookmark toggled", func(ctx context.Context) error {
		return feed.ToggleBookmark(ctx, id)
	})
}

func repostCmd(feed Feed, id uint) tea.Cmd {
	return actionCmd(feed, "reposted", func(ctx context.Context) error {
		_, err := feed.Repost(ctx, id)
		return err
	})
}

func deleteCmd(feed Feed, id uint) tea.Cmd {
	return actionCmd(feed, "post deleted", func(ctx context.Context) error {
		return feed.DeletePost(ctx, id)
	})
}

func createPostCmd(feed Feed, content string, parentID *uint) tea.Cmd {
	status := "posted"
	if parentID != nil {
		status = "reply posted"
	}
	return actionCmd(feed, status, func(ctx context.Context) error {
		_, err := feed.CreatePost(ctx, content, parentID)
		return err
	})
}

// actionCmd runs one mutation. Mutation failures surface as a transient
// status, never as the full-view load error.
func actionCmd(feed Feed, status string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := fn(ctx); err != nil {
			return actionFailMsg{message: errorMessage(err), unauthorized: api.IsUnauthorized(err)}
		}
		return actionDoneMsg{posts: feed.Posts(), status: status}
	}
}

func repliesCmd(loader ReplyLoader, id uint) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		posts, err := loader.Replies(ctx, id)
		if err != nil {
			return repliesFailMsg{message: errorMessage(err)}
		}
		return repliesDoneMsg{posts: posts}
	}
}

func clearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func errorMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func (m Model) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "chirp — %s\n", m.feed.Scope())

	switch m.mode {
	case modeCompose:
		b.WriteString(m.composeView())
	case modeDetail:
		b.WriteString("j/k: move | esc: back | q: quit\n\n")
		b.WriteString(m.detailView())
	default:
		b.WriteString("j/k: move | enter: detail | n: post | R: reply | l/b/t: like/bookmark/repost | d: delete | 1/2/3: home/bookmarks/mine | r: refresh | q: quit\n\n")
		b.WriteString(m.listView())
	}

	b.WriteString("\n")
	b.WriteString(m.footer())
	b.WriteString("\n")
	return b.String()
}

func (m Model) listView() string {
	if m.loading {
		return "Loading posts...\n"
	}
	if m.loadError != "" {
		return "Could not load this feed: " + m.loadError + "\n\nPress r to retry.\n"
	}
	if len(m.posts) == 0 {
		return "Nothing here yet.\n"
	}

	var b strings.Builder
	for i := range m.posts {
		line := renderPostLine(&m.posts[i])
		if i == m.cursor {
			line = "\x1b[7m" + line + "\x1b[0m"
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) detailView() string {
	if len(m.posts) == 0 {
		return "No post selected.\n"
	}

	post := m.posts[m.cursor]
	display := post.Display()

	var b strings.Builder
	if post.IsRepostWrapper() {
		fmt.Fprintf(&b, "@%s reposted:\n", post.Author.Username)
	}
	fmt.Fprintf(&b, "@%s — %s\n", display.Author.Username, display.CreatedAt.Local().Format(time.DateTime))
	b.WriteString(display.Content)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %d likes | %d bookmarks | %d reposts | %d replies\n",
		marker(display.IsLiked, "[L]")+marker(display.IsBookmarked, "[B]")+marker(display.IsReposted, "[T]"),
		display.LikeCount, display.BookmarkCount, display.RepostCount, display.ReplyCount)

	b.WriteString("\nReplies:\n")
	if m.detailLoading {
		b.WriteString("  loading...\n")
	} else if len(m.detailReplies) == 0 {
		b.WriteString("  none\n")
	} else {
		for i := range m.detailReplies {
			reply := m.detailReplies[i]
			fmt.Fprintf(&b, "  @%s: %s\n", reply.Author.Username, reply.Content)
		}
	}
	return b.String()
}

func (m Model) composeView() string {
	var b strings.Builder
	if m.composeParent != nil {
		fmt.Fprintf(&b, "Replying to post %d (enter: send, esc: cancel)\n\n", *m.composeParent)
	} else {
		b.WriteString("New post (enter: send, esc: cancel)\n\n")
	}
	b.WriteString("> " + string(m.composeBuffer) + "_\n")
	return b.String()
}

func (m Model) footer() string {
	state := "ready"
	if m.loading {
		state = "loading"
	} else if m.loadError != "" {
		state = "error"
	}
	status := "-"
	if m.status != "" {
		status = m.status
	}
	return fmt.Sprintf("@%s | %d posts | %s | %s", m.viewer.Username, len(m.posts), state, status)
}

// renderPostLine renders one list entry. For repost wrappers the embedded
// original's author and content are shown, never the wrapper's own fields.
func renderPostLine(post *models.Post) string {
	display := post.Display()
	prefix := ""
	if post.IsRepostWrapper() {
		prefix = fmt.Sprintf("↻ @%s: ", post.Author.Username)
	}
	return fmt.Sprintf("%s%s%s %s@%s: %s",
		marker(display.IsLiked, "[L]"),
		marker(display.IsBookmarked, "[B]"),
		marker(display.IsReposted, "[T]"),
		prefix, display.Author.Username, display.Content)
}

func marker(on bool, label string) string {
	if on {
		return label
	}
	return "[ ]"
}
