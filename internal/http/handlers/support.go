package handlers

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/investplatform/admin-backend/internal/apierr"
	"github.com/investplatform/admin-backend/internal/http/middleware"
	"github.com/investplatform/admin-backend/internal/http/response"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type SupportRepository interface {
	List(ctx context.Context, q listquery.Params) ([]models.SupportRequest, int64, error)
	GetByID(ctx context.Context, id string) (*models.SupportRequest, error)
	UpdateStatus(ctx context.Context, id string, status models.SupportStatus) error
	Reply(ctx context.Context, reply *models.SupportReply) error
}

type FileSource interface {
	GetFile(ctx context.Context, id string) (*models.File, error)
}

type SupportHandler struct {
	repo   SupportRepository
	files  FileSource
	logger *slog.Logger
}

func NewSupportHandler(repo SupportRepository, files FileSource, logger *slog.Logger) *SupportHandler {
	return &SupportHandler{repo: repo, files: files, logger: logger}
}

func (h *SupportHandler) List(c *gin.Context) {
	q, err := listquery.Parse(c, listquery.Options{
		TextFields: []string{"email", "subject", "message"},
		Filters:    map[string]string{"status": "status"},
		DateField:  "createdAt",
	})
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	items, count, err := h.repo.List(c.Request.Context(), q)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Pagination(c, count, items)
}

func (h *SupportHandler) Get(c *gin.Context) {
	request, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, notFoundIfMissing(err))
		return
	}
	response.OK(c, request)
}

type replyRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *SupportHandler) Reply(c *gin.Context) {
	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), c.Param("id")); err != nil {
		response.Err(c, h.logger, notFoundIfMissing(err))
		return
	}

	reply := &models.SupportReply{
		RequestID: c.Param("id"),
		AdminID:   c.GetString(middleware.ContextAdminID),
		Message:   req.Message,
	}
	if err := h.repo.Reply(c.Request.Context(), reply); err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, reply)
}

func (h *SupportHandler) Close(c *gin.Context) {
	if _, err := h.repo.GetByID(c.Request.Context(), c.Param("id")); err != nil {
		response.Err(c, h.logger, notFoundIfMissing(err))
		return
	}
	if err := h.repo.UpdateStatus(c.Request.Context(), c.Param("id"), models.SupportClosed); err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Empty(c)
}

// Attachment returns the stored metadata of the ticket's file. The
// bytes themselves live in external storage.
func (h *SupportHandler) Attachment(c *gin.Context) {
	request, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, notFoundIfMissing(err))
		return
	}
	if request.FileID == nil {
		response.Err(c, h.logger, apierr.New(apierr.NotFound))
		return
	}
	file, err := h.files.GetFile(c.Request.Context(), *request.FileID)
	if err != nil {
		response.Err(c, h.logger, notFoundIfMissing(err))
		return
	}
	response.OK(c, file)
}
