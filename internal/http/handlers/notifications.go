package handlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/investplatform/admin-backend/internal/http/middleware"
	"github.com/investplatform/admin-backend/internal/http/response"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type NotificationService interface {
	ListForUser(ctx context.Context, userID string, q listquery.Params) ([]models.UserNotification, int64, error)
	Send(ctx context.Context, userID, message string, data json.RawMessage) (*models.UserNotification, error)
	Broadcast(ctx context.Context, message string, data json.RawMessage) (int, error)
	ListForAdmin(ctx context.Context, adminID string, q listquery.Params) ([]models.AdminNotification, int64, error)
	MarkRead(ctx context.Context, adminID string, ids []string) error
}

type NotificationsHandler struct {
	service NotificationService
	logger  *slog.Logger
}

func NewNotificationsHandler(service NotificationService, logger *slog.Logger) *NotificationsHandler {
	return &NotificationsHandler{service: service, logger: logger}
}

// List returns the calling operator's alert feed.
func (h *NotificationsHandler) List(c *gin.Context) {
	q, err := listquery.Parse(c, listquery.Options{
		Filters:   map[string]string{"resource": "resource", "read": "read"},
		DateField: "createdAt",
	})
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	items, count, err := h.service.ListForAdmin(c.Request.Context(), c.GetString(middleware.ContextAdminID), q)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Pagination(c, count, items)
}

type markReadRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

func (h *NotificationsHandler) MarkRead(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}
	if err := h.service.MarkRead(c.Request.Context(), c.GetString(middleware.ContextAdminID), req.IDs); err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Empty(c)
}

func (h *NotificationsHandler) UserFeed(c *gin.Context) {
	q, err := listquery.Parse(c, listquery.Options{
		Filters:   map[string]string{"type": "type"},
		DateField: "createdAt",
	})
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	items, count, err := h.service.ListForUser(c.Request.Context(), c.Param("userId"), q)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Pagination(c, count, items)
}

type sendRequest struct {
	UserID  string          `json:"userId"`
	Message string          `json:"message" binding:"required"`
	Data    json.RawMessage `json:"data"`
}

// Send queues a message for one user, or for everyone when userId is
// omitted.
func (h *NotificationsHandler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}

	if req.UserID == "" {
		sent, err := h.service.Broadcast(c.Request.Context(), req.Message, req.Data)
		if err != nil {
			response.Err(c, h.logger, err)
			return
		}
		response.OK(c, gin.H{"sent": sent})
		return
	}

	n, err := h.service.Send(c.Request.Context(), req.UserID, req.Message, req.Data)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, n)
}
