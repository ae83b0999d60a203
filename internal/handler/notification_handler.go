package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/luct-reporting-api/internal/dto"
	"github.com/noah-isme/luct-reporting-api/internal/models"
	"github.com/noah-isme/luct-reporting-api/pkg/response"
)

type mailbox interface {
	List(ctx context.Context, userID string) ([]models.NotificationView, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id, userID string) error
}

// NotificationHandler exposes the caller's notification mailbox.
type NotificationHandler struct {
	service mailbox
}

// NewNotificationHandler constructs the handler.
func NewNotificationHandler(svc mailbox) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

// List godoc
// @Summary Latest notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	items, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, items)
}

// UnreadCount godoc
// @Summary Number of unread notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	count, err := h.service.UnreadCount(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, dto.UnreadCountResponse{UnreadCount: count})
}

// MarkRead godoc
// @Summary Mark one notification read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Envelope
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	if err := h.service.MarkRead(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Notification marked as read")
}

// MarkAllRead godoc
// @Summary Mark every notification read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /notifications/mark-all-read [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	if err := h.service.MarkAllRead(c.Request.Context(), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "All notifications marked as read")
}

// Delete godoc
// @Summary Delete a notification
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Envelope
// @Router /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Notification deleted")
}
