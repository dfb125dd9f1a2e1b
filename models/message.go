package models

import (
	"time"
)

// Message is one direct message between two users. The log is append-only;
// clients poll the conversation endpoint and may additionally receive a
// best-effort websocket nudge when they are online.
type Message struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	SenderID   uint      `json:"sender_id" gorm:"not null;index"`
	Sender     User      `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	ReceiverID uint      `json:"receiver_id" gorm:"not null;index"`
	Receiver   User      `json:"receiver,omitempty" gorm:"foreignKey:ReceiverID"`
	Message    string    `json:"message" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}

// MessageCreate represents the request structure for sending a message
type MessageCreate struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Message    string `json:"message" binding:"required,max=1000"`
}

// MessageResponse is a message shaped for the chat UI, with sender_type
// resolved relative to the requesting user.
type MessageResponse struct {
	ID         uint      `json:"id"`
	Text       string    `json:"text"`
	SenderID   uint      `json:"sender_id"`
	ReceiverID uint      `json:"receiver_id"`
	SenderType string    `json:"sender_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// ForViewer shapes the message for the given viewer
func (m *Message) ForViewer(viewerID uint) MessageResponse {
	senderType := "other"
	if m.SenderID == viewerID {
		senderType = "me"
	}
	return MessageResponse{
		ID:         m.ID,
		Text:       m.Message,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		SenderType: senderType,
		CreatedAt:  m.CreatedAt,
	}
}
