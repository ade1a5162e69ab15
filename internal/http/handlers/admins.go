package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/investplatform/admin-backend/internal/domain/admins"
	"github.com/investplatform/admin-backend/internal/http/middleware"
	"github.com/investplatform/admin-backend/internal/http/response"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type AdminService interface {
	List(ctx context.Context, q listquery.Params) ([]models.Admin, int64, error)
	Get(ctx context.Context, id string) (*models.Admin, error)
	Create(ctx context.Context, in admins.CreateInput) (*models.Admin, error)
	Update(ctx context.Context, id string, in admins.UpdateInput) (*models.Admin, error)
	Block(ctx context.Context, id string) (*models.Admin, error)
	Unblock(ctx context.Context, id string) (*models.Admin, error)
	Delete(ctx context.Context, id string) error
	Logs(ctx context.Context, q listquery.Params) ([]models.AdminLog, int64, error)
}

type MailPublisher interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type AdminsHandler struct {
	service    AdminService
	mail       MailPublisher
	emailTopic string
	logger     *slog.Logger
}

func NewAdminsHandler(service AdminService, mail MailPublisher, emailTopic string, logger *slog.Logger) *AdminsHandler {
	return &AdminsHandler{service: service, mail: mail, emailTopic: emailTopic, logger: logger}
}

func (h *AdminsHandler) List(c *gin.Context) {
	q, err := listquery.Parse(c, listquery.Options{
		TextFields: []string{"email", "role"},
		Filters:    map[string]string{"status": "status", "role": "role"},
		DateField:  "createdAt",
	})
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	items, count, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Pagination(c, count, items)
}

func (h *AdminsHandler) Get(c *gin.Context) {
	admin, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, admin)
}

type createAdminRequest struct {
	Email       string             `json:"email" binding:"required,email"`
	Role        string             `json:"role" binding:"required"`
	Permissions models.Permissions `json:"permissions" binding:"required"`
}

// Create registers an operator with a generated one-time password sent
// by email through the queue.
func (h *AdminsHandler) Create(c *gin.Context) {
	var req createAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}

	password, err := generatePassword()
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}

	admin, err := h.service.Create(c.Request.Context(), admins.CreateInput{
		Email:       req.Email,
		Password:    password,
		Role:        req.Role,
		Permissions: req.Permissions,
	})
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}

	if err := h.mail.Publish(c.Request.Context(), h.emailTopic, admin.Email, gin.H{
		"template": "adminInvite",
		"to":       admin.Email,
		"password": password,
	}); err != nil {
		h.logger.Error("invite mail publish failed", "email", admin.Email, "err", err)
	}

	response.OK(c, admin)
}

type updateAdminRequest struct {
	Role        *string            `json:"role"`
	Permissions models.Permissions `json:"permissions"`
}

func (h *AdminsHandler) Update(c *gin.Context) {
	var req updateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}
	admin, err := h.service.Update(c.Request.Context(), c.Param("id"), admins.UpdateInput{
		Role:        req.Role,
		Permissions: req.Permissions,
	})
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, admin)
}

func (h *AdminsHandler) Block(c *gin.Context) {
	admin, err := h.service.Block(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, admin)
}

func (h *AdminsHandler) Unblock(c *gin.Context) {
	admin, err := h.service.Unblock(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, admin)
}

func (h *AdminsHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Empty(c)
}

// Permissions returns the calling operator's own permission map.
func (h *AdminsHandler) Permissions(c *gin.Context) {
	admin := middleware.CurrentAdmin(c)
	if admin == nil {
		response.Empty(c)
		return
	}
	response.OK(c, admin.Permissions)
}

func (h *AdminsHandler) Logs(c *gin.Context) {
	q, err := listquery.Parse(c, listquery.Options{
		TextFields: []string{"action", "ip"},
		Filters:    map[string]string{"adminId": "admin_id"},
		DateField:  "createdAt",
	})
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	items, count, err := h.service.Logs(c.Request.Context(), q)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Pagination(c, count, items)
}

func generatePassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
