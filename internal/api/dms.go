package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/chirpsocial/chirp-go/internal/models"
)

type dmList struct {
	DMs []models.DM `json:"dms"`
}

type dmEnvelope struct {
	DM models.DM `json:"dm"`
}

// DMs returns every direct message the viewer sent or received, newest first.
func (c *Client) DMs(ctx context.Context) ([]models.DM, error) {
	var list dmList
	if err := c.do(ctx, http.MethodGet, "/dms", nil, &list); err != nil {
		return nil, err
	}
	return list.DMs, nil
}

// DMsWith returns the conversation with one user, oldest first.
func (c *Client) DMsWith(ctx context.Context, userID uint) ([]models.DM, error) {
	var list dmList
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/dms/%d", userID), nil, &list); err != nil {
		return nil, err
	}
	return list.DMs, nil
}

// SendDM sends a direct message to another user.
func (c *Client) SendDM(ctx context.Context, receiverID uint, content string) (*models.DM, error) {
	req := models.SendDMRequest{ReceiverID: receiverID, Content: content}
	var envelope dmEnvelope
	if err := c.do(ctx, http.MethodPost, "/dms", req, &envelope); err != nil {
		return nil, err
	}
	return &envelope.DM, nil
}
