package models

import "time"

type NotificationKind string

const (
	NotificationMentorshipRequested NotificationKind = "mentorship_requested"
	NotificationMentorshipAccepted  NotificationKind = "mentorship_accepted"
	NotificationMentorshipRejected  NotificationKind = "mentorship_rejected"
	NotificationMentorshipCompleted NotificationKind = "mentorship_completed"
	NotificationMessageReceived     NotificationKind = "message_received"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	RefID     string           `json:"refId"`
	IsRead    bool             `json:"isRead"`
	CreatedAt time.Time        `json:"createdAt"`
}
