package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/productivity/domain"
	"github.com/fastygo/productivity/pkg/httpcontext"
)

const defaultNotificationLimit = 50

// NotificationStore is the notification log kept by the Task Store.
type NotificationStore interface {
	Notifications(ctx context.Context, limit int) ([]domain.NotificationItem, error)
	MarkNotificationRead(ctx context.Context, id string) (bool, error)
	UnreadNotificationCount(ctx context.Context) (int, error)
}

// NotificationToggle switches desktop delivery on and off.
type NotificationToggle interface {
	SetEnabled(enabled bool)
	IsEnabled() bool
}

type NotificationHandler struct {
	baseHandler
	store  NotificationStore
	toggle NotificationToggle
}

func NewNotificationHandler(store NotificationStore, toggle NotificationToggle, adapter *httpcontext.Adapter, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       store,
		toggle:      toggle,
	}
}

type notificationSettings struct {
	Enabled *bool `json:"enabled"`
}

// @Summary Notification history, newest first
// @Tags notifications
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), defaultNotificationLimit)
	items, err := h.store.Notifications(stdCtx, limit)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nonNil(items))
}

// @Summary Number of unread notifications
// @Tags notifications
// @Router /api/v1/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	count, err := h.store.UnreadNotificationCount(stdCtx)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]int{"unread": count})
}

// @Summary Mark a notification as read
// @Tags notifications
// @Router /api/v1/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	found, err := h.store.MarkNotificationRead(stdCtx, pathID(ctx, "id"))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	if !found {
		h.respondError(stdCtx, ctx, domain.ErrNotificationNotFound)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]bool{"read": true})
}

// @Summary Read or change desktop delivery
// @Tags notifications
// @Router /api/v1/notifications/settings [put]
func (h *NotificationHandler) Settings(ctx *fasthttp.RequestCtx) {
	if ctx.IsPut() {
		var body notificationSettings
		if !h.decode(ctx, &body) {
			return
		}
		if body.Enabled == nil {
			stdCtx, cancel := h.requestContext(ctx)
			defer cancel()
			h.respondError(stdCtx, ctx, domain.NewError(domain.ErrCodeInvalid, "enabled is required"))
			return
		}
		h.toggle.SetEnabled(*body.Enabled)
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]bool{"enabled": h.toggle.IsEnabled()})
}
