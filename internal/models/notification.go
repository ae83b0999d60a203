package models

import "time"

// NotificationType groups notifications by the workflow that produced them.
type NotificationType string

const (
	NotificationReport     NotificationType = "report"
	NotificationRating     NotificationType = "rating"
	NotificationAttendance NotificationType = "attendance"
	NotificationComplaint  NotificationType = "complaint"
)

// Notification is a message addressed to one user.
type Notification struct {
	ID          string           `db:"id" json:"id"`
	RecipientID string           `db:"recipient_id" json:"recipient_id"`
	SenderID    *string          `db:"sender_id" json:"sender_id,omitempty"`
	Type        NotificationType `db:"notification_type" json:"notification_type"`
	Title       string           `db:"title" json:"title"`
	Message     string           `db:"message" json:"message"`
	RelatedID   *string          `db:"related_id" json:"related_id,omitempty"`
	IsRead      bool             `db:"is_read" json:"is_read"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	ReadAt      *time.Time       `db:"read_at" json:"read_at,omitempty"`
}

// NotificationView adds sender details for the inbox.
type NotificationView struct {
	Notification
	SenderName          *string `db:"sender_name" json:"sender_name,omitempty"`
	SenderStudentNumber *string `db:"sender_student_number" json:"sender_student_number,omitempty"`
}
