package models

import "time"

type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeFile  MessageType = "file"
	MessageTypeImage MessageType = "image"
)

type Message struct {
	ID           string      `json:"id"`
	MentorshipID string      `json:"mentorshipId"`
	SenderID     string      `json:"senderId"`
	ReceiverID   string      `json:"receiverId"`
	Content      string      `json:"content"`
	MessageType  MessageType `json:"messageType"`
	IsRead       bool        `json:"isRead"`
	CreatedAt    time.Time   `json:"createdAt"`
}

type MessageView struct {
	Message
	Sender   UserSummary `json:"sender"`
	Receiver UserSummary `json:"receiver"`
}
