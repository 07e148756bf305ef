package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	notificationapp "github.com/hostelhub/backend/internal/application/notification"
	"github.com/hostelhub/backend/internal/domain/notification"
	"github.com/hostelhub/backend/internal/domain/shared"
)

// ListNotificationsQuery filters the caller's notifications
type ListNotificationsQuery struct {
	UnreadOnly bool   `form:"unread"`
	Type       string `form:"type" binding:"omitempty,oneof=BOOKING PAYMENT NOTICE COMPLAINT LEAVE EVENT ROOMMATE SYSTEM"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SendNotificationRequest is an administrator broadcast. Set exactly one of
// user_id, role or all.
type SendNotificationRequest struct {
	UserID  string `json:"user_id" binding:"omitempty,uuid"`
	Role    string `json:"role" binding:"omitempty,oneof=ADMIN STUDENT"`
	All     bool   `json:"all"`
	Type    string `json:"type" binding:"omitempty,oneof=BOOKING PAYMENT NOTICE COMPLAINT LEAVE EVENT ROOMMATE SYSTEM"`
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Message string `json:"message" binding:"required,min=1,max=2000"`
	Link    string `json:"link" binding:"omitempty,max=500"`
}

// UnreadCountResponse is the number of unread notifications
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// MarkedResponse is the number of notifications marked read
type MarkedResponse struct {
	Updated int64 `json:"updated"`
}

// NotificationHandler serves the in-app notification inbox
type NotificationHandler struct {
	BaseHandler
	service *notificationapp.Service
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(service *notificationapp.Service) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List godoc
// @ID           listNotifications
// @Summary      List my notifications
// @Tags         notifications
// @Produce      json
// @Param        unread query bool false "Only unread"
// @Param        type query string false "Notification type"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]notificationapp.NotificationDTO}
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q ListNotificationsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.service.List(c.Request.Context(), actor, notificationapp.ListInput{
		UnreadOnly: q.UnreadOnly,
		Type:       optionalEnum[notification.Type](q.Type),
		Page:       q.Page,
		PageSize:   q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// UnreadCount godoc
// @ID           unreadNotificationCount
// @Summary      Count my unread notifications
// @Tags         notifications
// @Produce      json
// @Success      200 {object} dto.Response{data=UnreadCountResponse}
// @Security     BearerAuth
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	count, err := h.service.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, UnreadCountResponse{Count: count})
}

// MarkRead godoc
// @ID           markNotificationRead
// @Summary      Mark a notification read
// @Tags         notifications
// @Param        id path string true "Notification ID"
// @Success      204
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.MarkRead(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// MarkAllRead godoc
// @ID           markAllNotificationsRead
// @Summary      Mark all my notifications read
// @Tags         notifications
// @Produce      json
// @Success      200 {object} dto.Response{data=MarkedResponse}
// @Security     BearerAuth
// @Router       /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	n, err := h.service.MarkAllRead(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MarkedResponse{Updated: n})
}

// Delete godoc
// @ID           deleteNotification
// @Summary      Delete a notification
// @Tags         notifications
// @Param        id path string true "Notification ID"
// @Success      204
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Send godoc
// @ID           sendNotification
// @Summary      Send a notification
// @Description  Targets one user, every user of a role, or everyone
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        request body SendNotificationRequest true "Notification"
// @Success      201 {object} dto.Response{data=notificationapp.SendResult}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /notifications/send [post]
func (h *NotificationHandler) Send(c *gin.Context) {
	var req SendNotificationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	input := notificationapp.SendInput{
		Role:    optionalEnum[shared.Role](req.Role),
		All:     req.All,
		Type:    notification.Type(req.Type),
		Title:   req.Title,
		Message: req.Message,
		Link:    req.Link,
	}
	if req.UserID != "" {
		id := uuid.MustParse(req.UserID)
		input.UserID = &id
	}
	result, err := h.service.Send(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}
