package models

import "time"

const (
	MessageStatusSent      = "sent"
	MessageStatusDelivered = "delivered"
	MessageStatusRead      = "read"
)

type Message struct {
	ID         int          `json:"id"`
	SenderID   int          `json:"sender_id"`
	ReceiverID int          `json:"receiver_id"`
	Body       string       `json:"body"`
	Status     string       `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	Sender     *PartySummary `json:"sender,omitempty"`
	Receiver   *PartySummary `json:"receiver,omitempty"`
}

// PartySummary identifies a message or sale participant.
type PartySummary struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type SendMessageRequest struct {
	ReceiverID int    `json:"receiver_id" binding:"required"`
	Body       string `json:"body" binding:"required,min=1"`
	Status     string `json:"status" binding:"omitempty,oneof=sent delivered read"`
}
