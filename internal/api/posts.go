package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/chirpsocial/chirp-go/internal/models"
)

// Timeline fetches a page of posts, newest first. userID narrows the feed to
// one author; pass nil for the global feed.
func (c *Client) Timeline(ctx context.Context, limit, offset int, userID *uint) ([]models.Post, error) {
	query := url.Values{}
	query.Set("limit", fmt.Sprint(limit))
	query.Set("offset", fmt.Sprint(offset))
	if userID != nil {
		query.Set("user_id", fmt.Sprint(*userID))
	}

	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/posts?"+query.Encode(), nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Bookmarks fetches a page of the viewer's bookmarked posts, newest first.
func (c *Client) Bookmarks(ctx context.Context, limit, offset int) ([]models.Post, error) {
	query := url.Values{}
	query.Set("limit", fmt.Sprint(limit))
	query.Set("offset", fmt.Sprint(offset))

	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/bookmarks?"+query.Encode(), nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Post fetches a single post by id.
func (c *Client) Post(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d", id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Replies fetches the replies to a post, oldest first.
func (c *Client) Replies(ctx context.Context, id uint) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d/replies", id), nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost creates an original post, a reply (parentID set) or a repost
// wrapper (repostID set, content empty). The server assigns the id and
// returns the full post including the author and any embedded original.
func (c *Client) CreatePost(ctx context.Context, content string, parentID, repostID *uint) (*models.Post, error) {
	req := models.CreatePostRequest{Content: content, ParentID: parentID, RepostID: repostID}
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/posts", req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost deletes a post the viewer owns. The server answers 204.
func (c *Client) DeletePost(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil, nil)
}

// ToggleLike flips the viewer's like on a post and returns the server's
// resulting state. Callers apply the returned pair verbatim, they never
// recompute it locally.
func (c *Client) ToggleLike(ctx context.Context, id uint) (*models.LikeResult, error) {
	var result models.LikeResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/posts/%d/like", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ToggleBookmark flips the viewer's bookmark on a post, same contract as
// ToggleLike.
func (c *Client) ToggleBookmark(ctx context.Context, id uint) (*models.BookmarkResult, error) {
	var result models.BookmarkResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/posts/%d/bookmark", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
