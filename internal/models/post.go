package models

import "time"

// Post is one unit of content as the API serves it. A post with ParentID set
// is a reply; a post with RepostID/Repost set is a repost wrapper whose own
// content is empty and never rendered.
type Post struct {
	ID            uint      `json:"id"`
	Content       string    `json:"content"`
	Author        User      `json:"author"`
	ParentID      *uint     `json:"parent_id,omitempty"`
	RepostID      *uint     `json:"repost_id,omitempty"`
	Repost        *Post     `json:"repost,omitempty"`
	LikeCount     int64     `json:"like_count"`
	IsLiked       bool      `json:"is_liked"`
	BookmarkCount int64     `json:"bookmark_count"`
	IsBookmarked  bool      `json:"is_bookmarked"`
	ReplyCount    int64     `json:"reply_count"`
	RepostCount   int64     `json:"repost_count"`
	IsReposted    bool      `json:"is_reposted"`
	CreatedAt     time.Time `json:"created_at"`
}

// Display returns the post whose author and content should be rendered:
// the embedded original for a repost wrapper, the post itself otherwise.
// Wrapper fields are never surfaced directly.
func (p *Post) Display() *Post {
	if p.Repost != nil {
		return p.Repost
	}
	return p
}

// Engagement resolves which identity of this entry an engagement action on
// post id targets: the entry itself when its own id matches, otherwise the
// embedded repost when that id matches. At most one of the two is returned,
// nil when neither matches.
func (p *Post) Engagement(id uint) *Post {
	if p.ID == id {
		return p
	}
	if p.Repost != nil && p.Repost.ID == id {
		return p.Repost
	}
	return nil
}

// IsRepostWrapper reports whether this entry only wraps another post.
func (p *Post) IsRepostWrapper() bool {
	return p.Repost != nil
}

// Clone returns a copy that shares no pointers with the original, so
// snapshots handed to a view cannot alias state still being mutated.
func (p Post) Clone() Post {
	out := p
	if p.ParentID != nil {
		parentID := *p.ParentID
		out.ParentID = &parentID
	}
	if p.RepostID != nil {
		repostID := *p.RepostID
		out.RepostID = &repostID
	}
	if p.Repost != nil {
		repost := p.Repost.Clone()
		out.Repost = &repost
	}
	return out
}

type CreatePostRequest struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id,omitempty"`
	RepostID *uint  `json:"repost_id,omitempty"`
}

type LikeResult struct {
	IsLiked   bool  `json:"is_liked"`
	LikeCount int64 `json:"like_count"`
}

type BookmarkResult struct {
	IsBookmarked  bool  `json:"is_bookmarked"`
	BookmarkCount int64 `json:"bookmark_count"`
}
