package devserver

import (
	"sync"
	"time"

	"github.com/chirpsocial/chirp-go/internal/models"
)

// Store keeps the stub server's state in memory. It exists so the client and
// TUI can be developed and tested against the real wire contract without a
// database; the production service stays external.
type Store struct {
	mu sync.Mutex

	users     map[uint]*userRecord
	posts     map[uint]*postRecord
	postOrder []uint
	likes     map[engagementKey]struct{}
	bookmarks map[engagementKey]struct{}
	sessions  map[string]uint
	dms       []dmRecord

	nextUserID uint
	nextPostID uint
	nextDMID   uint
}

type userRecord struct {
	user         models.User
	passwordHash string
}

type postRecord struct {
	id        uint
	content   string
	authorID  uint
	parentID  *uint
	repostID  *uint
	createdAt time.Time
}

type dmRecord struct {
	id         uint
	senderID   uint
	receiverID uint
	content    string
	createdAt  time.Time
}

type engagementKey struct {
	userID uint
	postID uint
}

func NewStore() *Store {
	return &Store{
		users:     make(map[uint]*userRecord),
		posts:     make(map[uint]*postRecord),
		likes:     make(map[engagementKey]struct{}),
		bookmarks: make(map[engagementKey]struct{}),
		sessions:  make(map[string]uint),
	}
}

// CreateUser registers a user; ok is false when the username or email is
// already taken.
func (s *Store) CreateUser(username, email, passwordHash string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.users {
		if rec.user.Username == username || rec.user.Email == email {
			return models.User{}, false
		}
	}

	s.nextUserID++
	now := time.Now().UTC()
	user := models.User{
		ID:        s.nextUserID,
		Username:  username,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[user.ID] = &userRecord{user: user, passwordHash: passwordHash}
	return user, true
}

// UserByEmail returns the user and password hash for login checks.
func (s *Store) UserByEmail(email string) (models.User, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.users {
		if rec.user.Email == email {
			return rec.user, rec.passwordHash, true
		}
	}
	return models.User{}, "", false
}

func (s *Store) UserByID(id uint) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[id]
	if !ok {
		return models.User{}, false
	}
	return rec.user, true
}

func (s *Store) UserByUsername(username string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.users {
		if rec.user.Username == username {
			return rec.user, true
		}
	}
	return models.User{}, false
}

// OpenSession records a session id for cookie-based auth.
func (s *Store) OpenSession(sessionID string, userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = userID
}

func (s *Store) SessionUser(sessionID string) (uint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.sessions[sessionID]
	return userID, ok
}

// CreatePost stores a post, reply or repost wrapper and returns it rendered
// for the authoring viewer.
func (s *Store) CreatePost(authorID uint, content string, parentID, repostID *uint) (models.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if parentID != nil {
		if _, ok := s.posts[*parentID]; !ok {
			return models.Post{}, false
		}
	}
	if repostID != nil {
		if _, ok := s.posts[*repostID]; !ok {
			return models.Post{}, false
		}
	}

	s.nextPostID++
	rec := &postRecord{
		id:        s.nextPostID,
		content:   content,
		authorID:  authorID,
		parentID:  parentID,
		repostID:  repostID,
		createdAt: time.Now().UTC(),
	}
	s.posts[rec.id] = rec
	s.postOrder = append(s.postOrder, rec.id)
	return s.render(rec, authorID, true), true
}

func (s *Store) PostOwner(id uint) (uint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.posts[id]
	if !ok {
		return 0, false
	}
	return rec.authorID, true
}

// DeletePost removes the post itself. Wrappers reposting it keep their
// dangling reference, matching the real service.
func (s *Store) DeletePost(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return false
	}
	delete(s.posts, id)
	for i, pid := range s.postOrder {
		if pid == id {
			s.postOrder = append(s.postOrder[:i], s.postOrder[i+1:]...)
			break
		}
	}
	return true
}

// Timeline returns top-level posts newest first, optionally filtered to one
// author, rendered for the viewer.
func (s *Store) Timeline(viewerID uint, limit, offset int, authorID *uint) []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Post, 0, limit)
	skipped := 0
	for i := len(s.postOrder) - 1; i >= 0 && len(out) < limit; i-- {
		rec, ok := s.posts[s.postOrder[i]]
		if !ok || rec.parentID != nil {
			continue
		}
		if authorID != nil && rec.authorID != *authorID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, s.render(rec, viewerID, true))
	}
	return out
}

// BookmarkedPosts returns the viewer's bookmarked posts newest first.
func (s *Store) BookmarkedPosts(viewerID uint, limit, offset int) []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Post, 0, limit)
	skipped := 0
	for i := len(s.postOrder) - 1; i >= 0 && len(out) < limit; i-- {
		rec, ok := s.posts[s.postOrder[i]]
		if !ok {
			continue
		}
		if _, bookmarked := s.bookmarks[engagementKey{viewerID, rec.id}]; !bookmarked {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, s.render(rec, viewerID, true))
	}
	return out
}

func (s *Store) Post(id uint, viewerID uint) (models.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.posts[id]
	if !ok {
		return models.Post{}, false
	}
	return s.render(rec, viewerID, true), true
}

// Replies returns the replies to a post, oldest first.
func (s *Store) Replies(id uint, viewerID uint) []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Post{}
	for _, pid := range s.postOrder {
		rec, ok := s.posts[pid]
		if !ok || rec.parentID == nil || *rec.parentID != id {
			continue
		}
		out = append(out, s.render(rec, viewerID, true))
	}
	return out
}

// ToggleLike flips the viewer's like and returns the resulting state.
func (s *Store) ToggleLike(viewerID, postID uint) (models.LikeResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return models.LikeResult{}, false
	}
	key := engagementKey{viewerID, postID}
	if _, liked := s.likes[key]; liked {
		delete(s.likes, key)
	} else {
		s.likes[key] = struct{}{}
	}
	_, nowLiked := s.likes[key]
	return models.LikeResult{IsLiked: nowLiked, LikeCount: s.likeCount(postID)}, true
}

// ToggleBookmark flips the viewer's bookmark and returns the resulting state.
func (s *Store) ToggleBookmark(viewerID, postID uint) (models.BookmarkResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return models.BookmarkResult{}, false
	}
	key := engagementKey{viewerID, postID}
	if _, bookmarked := s.bookmarks[key]; bookmarked {
		delete(s.bookmarks, key)
	} else {
		s.bookmarks[key] = struct{}{}
	}
	_, nowBookmarked := s.bookmarks[key]
	return models.BookmarkResult{IsBookmarked: nowBookmarked, BookmarkCount: s.bookmarkCount(postID)}, true
}

// SendDM stores a direct message.
func (s *Store) SendDM(senderID, receiverID uint, content string) models.DM {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextDMID++
	rec := dmRecord{
		id:         s.nextDMID,
		senderID:   senderID,
		receiverID: receiverID,
		content:    content,
		createdAt:  time.Now().UTC(),
	}
	s.dms = append(s.dms, rec)
	return s.renderDM(rec)
}

// DMsFor returns every message the user sent or received, newest first.
func (s *Store) DMsFor(userID uint) []models.DM {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.DM{}
	for i := len(s.dms) - 1; i >= 0; i-- {
		rec := s.dms[i]
		if rec.senderID == userID || rec.receiverID == userID {
			out = append(out, s.renderDM(rec))
		}
	}
	return out
}

// Conversation returns the messages between two users, oldest first.
func (s *Store) Conversation(userID, otherID uint) []models.DM {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.DM{}
	for _, rec := range s.dms {
		if (rec.senderID == userID && rec.receiverID == otherID) ||
			(rec.senderID == otherID && rec.receiverID == userID) {
			out = append(out, s.renderDM(rec))
		}
	}
	return out
}

func (s *Store) likeCount(postID uint) int64 {
	var n int64
	for key := range s.likes {
		if key.postID == postID {
			n++
		}
	}
	return n
}

func (s *Store) bookmarkCount(postID uint) int64 {
	var n int64
	for key := range s.bookmarks {
		if key.postID == postID {
			n++
		}
	}
	return n
}

func (s *Store) replyCount(postID uint) int64 {
	var n int64
	for _, rec := range s.posts {
		if rec.parentID != nil && *rec.parentID == postID {
			n++
		}
	}
	return n
}

func (s *Store) repostCount(postID uint) int64 {
	var n int64
	for _, rec := range s.posts {
		if rec.repostID != nil && *rec.repostID == postID {
			n++
		}
	}
	return n
}

func (s *Store) repostedBy(viewerID, postID uint) bool {
	for _, rec := range s.posts {
		if rec.repostID != nil && *rec.repostID == postID && rec.authorID == viewerID {
			return true
		}
	}
	return false
}

// render builds the wire shape for one post as seen by the viewer. The
// embedded original of a repost wrapper is rendered one level deep.
func (s *Store) render(rec *postRecord, viewerID uint, embed bool) models.Post {
	var author models.User
	if u, ok := s.users[rec.authorID]; ok {
		author = u.user
	}

	_, liked := s.likes[engagementKey{viewerID, rec.id}]
	_, bookmarked := s.bookmarks[engagementKey{viewerID, rec.id}]

	post := models.Post{
		ID:            rec.id,
		Content:       rec.content,
		Author:        author,
		ParentID:      rec.parentID,
		RepostID:      rec.repostID,
		LikeCount:     s.likeCount(rec.id),
		IsLiked:       liked,
		BookmarkCount: s.bookmarkCount(rec.id),
		IsBookmarked:  bookmarked,
		ReplyCount:    s.replyCount(rec.id),
		RepostCount:   s.repostCount(rec.id),
		IsReposted:    s.repostedBy(viewerID, rec.id),
		CreatedAt:     rec.createdAt,
	}

	if embed && rec.repostID != nil {
		if original, ok := s.posts[*rec.repostID]; ok {
			embedded := s.render(original, viewerID, false)
			post.Repost = &embedded
		}
	}
	return post
}

func (s *Store) renderDM(rec dmRecord) models.DM {
	dm := models.DM{
		ID:         rec.id,
		SenderID:   rec.senderID,
		ReceiverID: rec.receiverID,
		Content:    rec.content,
		CreatedAt:  rec.createdAt,
	}
	if u, ok := s.users[rec.senderID]; ok {
		dm.Sender = u.user
	}
	if u, ok := s.users[rec.receiverID]; ok {
		dm.Receiver = u.user
	}
	return dm
}
