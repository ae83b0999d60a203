package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/luct-reporting-api/internal/models"
	appErrors "github.com/noah-isme/luct-reporting-api/pkg/errors"
)

type memoryNotifications struct {
	items      []*models.Notification
	countCalls int
}

func (m *memoryNotifications) Create(ctx context.Context, exec sqlx.ExtContext, n *models.Notification) error {
	n.ID = uuid.NewString()
	m.items = append(m.items, n)
	return nil
}

func (m *memoryNotifications) ListForRecipient(ctx context.Context, recipientID string, limit int) ([]models.NotificationView, error) {
	var out []models.NotificationView
	for i := len(m.items) - 1; i >= 0 && len(out) < limit; i-- {
		if m.items[i].RecipientID == recipientID {
			out = append(out, models.NotificationView{Notification: *m.items[i]})
		}
	}
	return out, nil
}

func (m *memoryNotifications) CountUnread(ctx context.Context, recipientID string) (int, error) {
	m.countCalls++
	count := 0
	for _, n := range m.items {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *memoryNotifications) MarkRead(ctx context.Context, id, recipientID string, at time.Time) error {
	for _, n := range m.items {
		if n.ID == id && n.RecipientID == recipientID {
			n.IsRead = true
			n.ReadAt = &at
		}
	}
	return nil
}

func (m *memoryNotifications) MarkAllRead(ctx context.Context, recipientID string, at time.Time) error {
	for _, n := range m.items {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &at
		}
	}
	return nil
}

func (m *memoryNotifications) Delete(ctx context.Context, id, recipientID string) error {
	kept := m.items[:0]
	for _, n := range m.items {
		if n.ID == id && n.RecipientID == recipientID {
			continue
		}
		kept = append(kept, n)
	}
	m.items = kept
	return nil
}

// memoryCache mimics the redis repository with JSON round trips.
type memoryCache struct {
	entries map[string][]byte
	deleted []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.entries, key)
		c.deleted = append(c.deleted, key)
	}
	return nil
}

func (c *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.entries = map[string][]byte{}
	return nil
}

func newNotificationFixture() (*NotificationService, *memoryNotifications, *memoryCache) {
	store := &memoryNotifications{}
	cache := newMemoryCache()
	metrics := NewMetricsService()
	svc := NewNotificationService(store, NewCacheService(cache, metrics, time.Minute, nil, true), metrics, nil, 0)
	return svc, store, cache
}

func TestNotifySkipsMissingRecipient(t *testing.T) {
	svc, store, _ := newNotificationFixture()
	require.NoError(t, svc.Notify(context.Background(), nil, &models.Notification{Title: "orphan"}))
	require.NoError(t, svc.Notify(context.Background(), nil, nil))
	assert.Empty(t, store.items)
}

func TestUnreadCountIsCachedUntilFlushed(t *testing.T) {
	svc, store, cache := newNotificationFixture()
	ctx := context.Background()
	require.NoError(t, svc.Notify(ctx, nil, &models.Notification{RecipientID: "P1", Type: models.NotificationReport, Title: "a"}))
	require.NoError(t, svc.Notify(ctx, nil, &models.Notification{RecipientID: "P1", Type: models.NotificationRating, Title: "b"}))

	count, err := svc.UnreadCount(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	count, err = svc.UnreadCount(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, store.countCalls)

	require.NoError(t, svc.Notify(ctx, nil, &models.Notification{RecipientID: "P1", Title: "c"}))
	svc.Flush(ctx, "P1", "")
	assert.Contains(t, cache.entries, "notifications:unread:P1:gen")
	assert.NotContains(t, cache.entries, "notifications:unread::gen")

	count, err = svc.UnreadCount(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 2, store.countCalls)
}

func TestMarkAllReadClearsUnread(t *testing.T) {
	svc, _, _ := newNotificationFixture()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Notify(ctx, nil, &models.Notification{RecipientID: "L1", Title: "t"}))
	}
	_, err := svc.UnreadCount(ctx, "L1")
	require.NoError(t, err)

	require.NoError(t, svc.MarkAllRead(ctx, "L1"))
	count, err := svc.UnreadCount(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	list, err := svc.List(ctx, "L1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, n := range list {
		assert.True(t, n.IsRead)
		assert.NotNil(t, n.ReadAt)
	}
}

func TestMarkReadIgnoresOtherRecipients(t *testing.T) {
	svc, store, _ := newNotificationFixture()
	ctx := context.Background()
	require.NoError(t, svc.Notify(ctx, nil, &models.Notification{RecipientID: "L1", Title: "mine"}))

	require.NoError(t, svc.MarkRead(ctx, store.items[0].ID, "L2"))
	assert.False(t, store.items[0].IsRead)

	require.NoError(t, svc.Delete(ctx, store.items[0].ID, "L2"))
	assert.Len(t, store.items, 1)

	require.NoError(t, svc.Delete(ctx, store.items[0].ID, "L1"))
	assert.Empty(t, store.items)
}

// interleavingNotifications lets a notification land and flush while a count is in flight.
type interleavingNotifications struct {
	*memoryNotifications
	during func()
}

func (s *interleavingNotifications) CountUnread(ctx context.Context, recipientID string) (int, error) {
	count, err := s.memoryNotifications.CountUnread(ctx, recipientID)
	if s.during != nil {
		during := s.during
		s.during = nil
		during()
	}
	return count, err
}

func TestUnreadCountIgnoresCounterComputedBeforeFlush(t *testing.T) {
	store := &interleavingNotifications{memoryNotifications: &memoryNotifications{}}
	metrics := NewMetricsService()
	svc := NewNotificationService(store, NewCacheService(newMemoryCache(), metrics, time.Minute, nil, true), metrics, nil, 0)
	ctx := context.Background()
	store.during = func() {
		require.NoError(t, svc.Notify(ctx, nil, &models.Notification{RecipientID: "L1", Title: "late"}))
		svc.Flush(ctx, "L1")
	}

	first, err := svc.UnreadCount(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, 0, first)

	second, err := svc.UnreadCount(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, 1, second)

	actual, err := store.memoryNotifications.CountUnread(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, actual, second)
}

func TestMarkReadAndDeleteIgnoreMalformedIDs(t *testing.T) {
	svc, store, _ := newNotificationFixture()
	ctx := context.Background()
	store.items = append(store.items, &models.Notification{ID: "N1", RecipientID: "L1", Title: "legacy"})

	require.NoError(t, svc.MarkRead(ctx, "N1", "L1"))
	assert.False(t, store.items[0].IsRead)

	require.NoError(t, svc.Delete(ctx, "N1", "L1"))
	assert.Len(t, store.items, 1)
}

func TestListIsNewestFirstAndCapped(t *testing.T) {
	store := &memoryNotifications{}
	svc := NewNotificationService(store, nil, nil, nil, 2)
	ctx := context.Background()
	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, svc.Notify(ctx, nil, &models.Notification{RecipientID: "P1", Title: title}))
	}

	list, err := svc.List(ctx, "P1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "third", list[0].Title)
	assert.Equal(t, "second", list[1].Title)

	empty, err := svc.List(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
}

type failingNotifications struct{ memoryNotifications }

func (f *failingNotifications) Create(ctx context.Context, exec sqlx.ExtContext, n *models.Notification) error {
	return errors.New("connection reset")
}

func TestNotifyFailureIsInternal(t *testing.T) {
	svc := NewNotificationService(&failingNotifications{}, nil, nil, nil, 0)
	err := svc.Notify(context.Background(), nil, &models.Notification{RecipientID: "P1"})
	requireAppError(t, err, appErrors.ErrInternal, "failed to create notification")
}
