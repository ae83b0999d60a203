package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/luct-reporting-api/internal/models"
)

type mailboxStub struct {
	unread  map[string]int
	read    []string
	deleted []string
}

func (s *mailboxStub) List(ctx context.Context, userID string) ([]models.NotificationView, error) {
	return []models.NotificationView{}, nil
}

func (s *mailboxStub) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.unread[userID], nil
}

func (s *mailboxStub) MarkRead(ctx context.Context, id, userID string) error {
	s.read = append(s.read, userID+":"+id)
	if s.unread[userID] > 0 {
		s.unread[userID]--
	}
	return nil
}

func (s *mailboxStub) MarkAllRead(ctx context.Context, userID string) error {
	s.unread[userID] = 0
	return nil
}

func (s *mailboxStub) Delete(ctx context.Context, id, userID string) error {
	s.deleted = append(s.deleted, userID+":"+id)
	return nil
}

func TestNotificationHandlerUnreadLifecycle(t *testing.T) {
	box := &mailboxStub{unread: map[string]int{"P1": 2}}
	h := NewNotificationHandler(box)

	c, w := newGinContext(http.MethodGet, "/notifications/unread-count", "", prlClaims)
	h.UnreadCount(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"unread_count":2}`, string(decode(t, w).Data))

	c, w = newGinContext(http.MethodPut, "/notifications/N1/read", "", prlClaims)
	c.AddParam("id", "N1")
	h.MarkRead(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Notification marked as read", messageOf(t, w))
	assert.Equal(t, []string{"P1:N1"}, box.read)

	c, w = newGinContext(http.MethodPut, "/notifications/mark-all-read", "", prlClaims)
	h.MarkAllRead(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "All notifications marked as read", messageOf(t, w))

	c, w = newGinContext(http.MethodGet, "/notifications/unread-count", "", prlClaims)
	h.UnreadCount(c)
	assert.JSONEq(t, `{"unread_count":0}`, string(decode(t, w).Data))
}

func TestNotificationHandlerDeleteScopesToCaller(t *testing.T) {
	box := &mailboxStub{unread: map[string]int{}}
	h := NewNotificationHandler(box)

	c, w := newGinContext(http.MethodDelete, "/notifications/N7", "", lecturerClaims)
	c.AddParam("id", "N7")
	h.Delete(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Notification deleted", messageOf(t, w))
	assert.Equal(t, []string{"L1:N7"}, box.deleted)
}

func TestNotificationHandlerRequiresClaims(t *testing.T) {
	h := NewNotificationHandler(&mailboxStub{})
	c, w := newGinContext(http.MethodGet, "/notifications", "", nil)
	h.List(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
