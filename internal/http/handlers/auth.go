package handlers

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/investplatform/admin-backend/internal/auth"
	"github.com/investplatform/admin-backend/internal/http/middleware"
	"github.com/investplatform/admin-backend/internal/http/response"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type AuthService interface {
	Login(ctx context.Context, email, password, totpCode, userAgent, ip string) (*auth.Tokens, error)
	Refresh(ctx context.Context, refreshToken, userAgent, ip string) (*auth.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, adminID string) (*models.Admin, error)
	Sessions(ctx context.Context, adminID string, q listquery.Params) ([]models.AdminSession, int64, error)
	EnableTOTP(ctx context.Context, adminID string) (string, error)
	ConfirmTOTP(ctx context.Context, adminID, code string) error
}

type AuthHandler struct {
	service AuthService
	logger  *slog.Logger
}

func NewAuthHandler(service AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Code     string `json:"code"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), req.Email, req.Password, req.Code, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}

	response.OK(c, gin.H{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"admin":        tokens.Admin,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}

	response.OK(c, gin.H{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}
	if err := h.service.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Empty(c)
}

func (h *AuthHandler) Me(c *gin.Context) {
	admin, err := h.service.Me(c.Request.Context(), c.GetString(middleware.ContextAdminID))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, admin)
}

func (h *AuthHandler) Sessions(c *gin.Context) {
	q, err := listquery.Parse(c, listquery.Options{DateField: "createdAt"})
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	sessions, count, err := h.service.Sessions(c.Request.Context(), c.GetString(middleware.ContextAdminID), q)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Pagination(c, count, sessions)
}

func (h *AuthHandler) EnableTOTP(c *gin.Context) {
	url, err := h.service.EnableTOTP(c.Request.Context(), c.GetString(middleware.ContextAdminID))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"url": url})
}

type totpConfirmRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *AuthHandler) ConfirmTOTP(c *gin.Context) {
	var req totpConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}
	if err := h.service.ConfirmTOTP(c.Request.Context(), c.GetString(middleware.ContextAdminID), req.Code); err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Empty(c)
}
