package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/luct-reporting-api/internal/models"
)

// NotificationRepository stores per-recipient notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs the repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification, inside the caller's transaction when exec is set.
func (r *NotificationRepository) Create(ctx context.Context, exec sqlx.ExtContext, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO notifications (id, recipient_id, sender_id, notification_type, title, message, related_id, is_read, created_at)
VALUES (:id, :recipient_id, :sender_id, :notification_type, :title, :message, :related_id, :is_read, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, pick(r.db, exec), query, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListForRecipient returns the newest notifications of a user with sender details.
func (r *NotificationRepository) ListForRecipient(ctx context.Context, recipientID string, limit int) ([]models.NotificationView, error) {
	const query = `SELECT n.id, n.recipient_id, n.sender_id, n.notification_type, n.title, n.message, n.related_id, n.is_read, n.created_at, n.read_at,
u.first_name || ' ' || u.last_name AS sender_name, u.student_number AS sender_student_number
FROM notifications n
LEFT JOIN users u ON u.id = n.sender_id
WHERE n.recipient_id = $1
ORDER BY n.created_at DESC
LIMIT $2`
	var items []models.NotificationView
	if err := r.db.SelectContext(ctx, &items, query, recipientID, limit); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

// CountUnread counts unread notifications of a user.
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	const query = `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = false`
	var count int
	if err := r.db.GetContext(ctx, &count, query, recipientID); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flags one notification as read when it belongs to the recipient.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID string, at time.Time) error {
	const query = `UPDATE notifications SET is_read = true, read_at = $3 WHERE id = $1 AND recipient_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, recipientID, at); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead flags every unread notification of the recipient as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string, at time.Time) error {
	const query = `UPDATE notifications SET is_read = true, read_at = $2 WHERE recipient_id = $1 AND is_read = false`
	if _, err := r.db.ExecContext(ctx, query, recipientID, at); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

// Delete removes one notification owned by the recipient.
func (r *NotificationRepository) Delete(ctx context.Context, id, recipientID string) error {
	const query = `DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, recipientID); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}
