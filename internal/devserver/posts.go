package devserver

import (
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
)

const maxContentRunes = 140

func queryInt(c *gin.Context, key string, def, max int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return 0, false
	}
	return uint(id), true
}

func (s *Server) timeline(c *gin.Context) {
	limit := queryInt(c, "limit", 20, 100)
	offset := queryInt(c, "offset", 0, 0)

	var authorID *uint
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		uid := uint(id)
		authorID = &uid
	}

	posts := s.store.Timeline(currentUserID(c), limit, offset, authorID)
	c.JSON(http.StatusOK, posts)
}

func (s *Server) bookmarks(c *gin.Context) {
	limit := queryInt(c, "limit", 20, 100)
	offset := queryInt(c, "offset", 0, 0)

	posts := s.store.BookmarkedPosts(currentUserID(c), limit, offset)
	c.JSON(http.StatusOK, posts)
}

func (s *Server) createPost(c *gin.Context) {
	var input struct {
		Content  string `json:"content"`
		ParentID *uint  `json:"parent_id"`
		RepostID *uint  `json:"repost_id"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.RepostID == nil && input.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}
	if utf8.RuneCountInString(input.Content) > maxContentRunes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is too long"})
		return
	}

	post, ok := s.store.CreatePost(currentUserID(c), input.Content, input.ParentID, input.RepostID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (s *Server) getPost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	post, found := s.store.Post(id, currentUserID(c))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	c.JSON(http.StatusOK, post)
}

func (s *Server) getReplies(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.store.Replies(id, currentUserID(c)))
}

func (s *Server) deletePost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ownerID, found := s.store.PostOwner(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	if ownerID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only delete your own posts"})
		return
	}

	s.store.DeletePost(id)
	c.Status(http.StatusNoContent)
}

func (s *Server) toggleLike(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, found := s.store.ToggleLike(currentUserID(c), id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) toggleBookmark(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, found := s.store.ToggleBookmark(currentUserID(c), id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	c.JSON(http.StatusOK, result)
}
