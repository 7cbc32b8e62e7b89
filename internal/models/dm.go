package models

import "time"

// DM is a direct message between two users.
type DM struct {
	ID         uint      `json:"id"`
	SenderID   uint      `json:"sender_id"`
	Sender     User      `json:"sender"`
	ReceiverID uint      `json:"receiver_id"`
	Receiver   User      `json:"receiver"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type SendDMRequest struct {
	ReceiverID uint   `json:"receiver_id"`
	Content    string `json:"content"`
}
