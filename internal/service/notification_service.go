package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/luct-reporting-api/internal/models"
	appErrors "github.com/noah-isme/luct-reporting-api/pkg/errors"
)

const (
	defaultNotificationLimit = 50
	// unreadGenerationTTL outlives any counter written under a generation.
	unreadGenerationTTL = 24 * time.Hour
)

type notificationStore interface {
	Create(ctx context.Context, exec sqlx.ExtContext, n *models.Notification) error
	ListForRecipient(ctx context.Context, recipientID string, limit int) ([]models.NotificationView, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
	MarkRead(ctx context.Context, id, recipientID string, at time.Time) error
	MarkAllRead(ctx context.Context, recipientID string, at time.Time) error
	Delete(ctx context.Context, id, recipientID string) error
}

// Notifier writes notifications on behalf of the workflow services.
type Notifier interface {
	Notify(ctx context.Context, exec sqlx.ExtContext, n *models.Notification) error
	Flush(ctx context.Context, recipientIDs ...string)
}

// NotificationService manages user mailboxes.
type NotificationService struct {
	repo      notificationStore
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
	listLimit int
	now       func() time.Time
}

// NewNotificationService constructs the service. A non-positive listLimit falls back to 50.
func NewNotificationService(repo notificationStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger, listLimit int) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if listLimit <= 0 {
		listLimit = defaultNotificationLimit
	}
	return &NotificationService{repo: repo, cache: cache, metrics: metrics, logger: logger, listLimit: listLimit, now: time.Now}
}

func unreadGenerationKey(userID string) string {
	return "notifications:unread:" + userID + ":gen"
}

func unreadCacheKey(userID, generation string) string {
	return "notifications:unread:" + userID + ":" + generation
}

// unreadGeneration returns the current counter generation of the user, "0" when none was recorded.
func (s *NotificationService) unreadGeneration(ctx context.Context, userID string) string {
	var generation string
	if hit, err := s.cache.Get(ctx, unreadGenerationKey(userID), &generation); err == nil && hit && generation != "" {
		return generation
	}
	return "0"
}

// Notify inserts a notification using exec, normally the caller's open transaction.
// Callers must Flush the recipient once the transaction commits.
func (s *NotificationService) Notify(ctx context.Context, exec sqlx.ExtContext, n *models.Notification) error {
	if n == nil || n.RecipientID == "" {
		return nil
	}
	if err := s.repo.Create(ctx, exec, n); err != nil {
		return appErrors.Internal(err, "failed to create notification")
	}
	s.metrics.NotificationCreated(n.Type)
	return nil
}

// Flush retires cached unread counters for the recipients by moving them to a new generation.
// A counter computed before the flush is written under the old generation and never read again.
func (s *NotificationService) Flush(ctx context.Context, recipientIDs ...string) {
	for _, id := range recipientIDs {
		if id == "" {
			continue
		}
		if err := s.cache.Set(ctx, unreadGenerationKey(id), uuid.NewString(), unreadGenerationTTL); err != nil {
			s.logger.Warn("failed to flush unread counter", zap.String("recipient", id), zap.Error(err))
		}
	}
}

// List returns the most recent notifications of the user.
func (s *NotificationService) List(ctx context.Context, userID string) ([]models.NotificationView, error) {
	items, err := s.repo.ListForRecipient(ctx, userID, s.listLimit)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load notifications")
	}
	if items == nil {
		items = []models.NotificationView{}
	}
	return items, nil
}

// UnreadCount returns the number of unread notifications, served from cache when possible.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	key := unreadCacheKey(userID, s.unreadGeneration(ctx, userID))
	var cached int
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, appErrors.Internal(err, "failed to count notifications")
	}
	_ = s.cache.Set(ctx, key, count, 0)
	return count, nil
}

// MarkRead marks one notification read. Notifications owned by someone else,
// or ids that cannot name a notification, are left untouched.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	if err := s.repo.MarkRead(ctx, id, userID, s.now().UTC()); err != nil {
		return appErrors.Internal(err, "failed to mark notification as read")
	}
	s.Flush(ctx, userID)
	return nil
}

// MarkAllRead marks every notification of the user read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.repo.MarkAllRead(ctx, userID, s.now().UTC()); err != nil {
		return appErrors.Internal(err, "failed to mark notifications as read")
	}
	s.Flush(ctx, userID)
	return nil
}

// Delete removes one of the user's notifications. Malformed ids are a no-op.
func (s *NotificationService) Delete(ctx context.Context, id, userID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return appErrors.Internal(err, "failed to delete notification")
	}
	s.Flush(ctx, userID)
	return nil
}
