package handlers

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/investplatform/admin-backend/internal/http/response"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type DocumentRepository interface {
	ListPlatformDocuments(ctx context.Context, kind string, q listquery.Params) ([]models.PlatformDocument, int64, error)
	GetPlatformDocument(ctx context.Context, id string) (*models.PlatformDocument, error)
	CreatePlatformDocument(ctx context.Context, doc *models.PlatformDocument) error
	UpdatePlatformDocument(ctx context.Context, doc *models.PlatformDocument) error
	DeletePlatformDocument(ctx context.Context, id string) error
	CreateFile(ctx context.Context, file *models.File) error
	GetFile(ctx context.Context, id string) (*models.File, error)
}

// DocumentsHandler serves one platform-document kind per instance:
// "document" for legal documents, "template" for contract templates.
type DocumentsHandler struct {
	repo   DocumentRepository
	kind   string
	logger *slog.Logger
}

func NewDocumentsHandler(repo DocumentRepository, kind string, logger *slog.Logger) *DocumentsHandler {
	return &DocumentsHandler{repo: repo, kind: kind, logger: logger}
}

func (h *DocumentsHandler) List(c *gin.Context) {
	q, err := listquery.Parse(c, listquery.Options{
		TextFields: []string{"name"},
		DateField:  "createdAt",
	})
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	items, count, err := h.repo.ListPlatformDocuments(c.Request.Context(), h.kind, q)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Pagination(c, count, items)
}

func (h *DocumentsHandler) Get(c *gin.Context) {
	doc, err := h.repo.GetPlatformDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, notFoundIfMissing(err))
		return
	}
	response.OK(c, doc)
}

type documentRequest struct {
	Name   string  `json:"name" binding:"required"`
	FileID *string `json:"fileId"`
}

func (h *DocumentsHandler) Create(c *gin.Context) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}
	doc := &models.PlatformDocument{Name: req.Name, FileID: req.FileID, Kind: h.kind}
	if err := h.repo.CreatePlatformDocument(c.Request.Context(), doc); err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, doc)
}

func (h *DocumentsHandler) Update(c *gin.Context) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}
	doc, err := h.repo.GetPlatformDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, notFoundIfMissing(err))
		return
	}
	doc.Name = req.Name
	if req.FileID != nil {
		doc.FileID = req.FileID
	}
	if err := h.repo.UpdatePlatformDocument(c.Request.Context(), doc); err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, doc)
}

func (h *DocumentsHandler) Delete(c *gin.Context) {
	if err := h.repo.DeletePlatformDocument(c.Request.Context(), c.Param("id")); err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Empty(c)
}

// Upload records file metadata uploaded through the back office. The
// bytes land in external storage; only the descriptor is kept here.
func (h *DocumentsHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.ValidationErr(c, "missing file")
		return
	}
	file := &models.File{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Size:     header.Size,
	}
	if err := h.repo.CreateFile(c.Request.Context(), file); err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, file)
}

func (h *DocumentsHandler) GetFile(c *gin.Context) {
	file, err := h.repo.GetFile(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, notFoundIfMissing(err))
		return
	}
	response.OK(c, file)
}
