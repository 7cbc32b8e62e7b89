package timeline

import "fmt"

// ScopeKind selects which feed a Manager owns.
type ScopeKind int

const (
	// ScopeHome is the global feed.
	ScopeHome ScopeKind = iota
	// ScopeUser is one author's posts.
	ScopeUser
	// ScopeBookmarks is the viewer's bookmarked posts.
	ScopeBookmarks
)

// Scope binds a Manager to one feed. The zero value is the home feed.
type Scope struct {
	kind   ScopeKind
	userID uint
}

// Home scopes to the global feed.
func Home() Scope {
	return Scope{kind: ScopeHome}
}

// ForUser scopes to the posts of one author.
func ForUser(userID uint) Scope {
	return Scope{kind: ScopeUser, userID: userID}
}

// Bookmarks scopes to the viewer's bookmarks.
func Bookmarks() Scope {
	return Scope{kind: ScopeBookmarks}
}

// Kind returns which feed this scope selects.
func (s Scope) Kind() ScopeKind {
	return s.kind
}

// UserID returns the author filter for user scopes, zero otherwise.
func (s Scope) UserID() uint {
	return s.userID
}

func (s Scope) String() string {
	switch s.kind {
	case ScopeUser:
		return fmt.Sprintf("user %d", s.userID)
	case ScopeBookmarks:
		return "bookmarks"
	default:
		return "home"
	}
}
