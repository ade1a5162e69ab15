package handlers

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/investplatform/admin-backend/internal/domain/finance"
	"github.com/investplatform/admin-backend/internal/export"
	"github.com/investplatform/admin-backend/internal/http/response"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type RegistryService interface {
	Registry(ctx context.Context, q listquery.Params) ([]models.BankOperation, int64, error)
	RegistryEntry(ctx context.Context, id string) (*models.BankOperation, error)
	Revise(ctx context.Context) (*finance.ReviseReport, error)
}

// RegistryHandler serves the beneficiary bank-operation registry and
// the revise reconciliation report.
type RegistryHandler struct {
	service RegistryService
	logger  *slog.Logger
}

func NewRegistryHandler(service RegistryService, logger *slog.Logger) *RegistryHandler {
	return &RegistryHandler{service: service, logger: logger}
}

func registryListOptions() listquery.Options {
	return listquery.Options{
		Filters: map[string]string{
			"type":   "type",
			"status": "status",
		},
		DateField: "createdAt",
	}
}

func (h *RegistryHandler) List(c *gin.Context) {
	q, err := listquery.Parse(c, registryListOptions())
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	items, count, err := h.service.Registry(c.Request.Context(), q)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Pagination(c, count, items)
}

func (h *RegistryHandler) Get(c *gin.Context) {
	op, err := h.service.RegistryEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, op)
}

func (h *RegistryHandler) Export(c *gin.Context) {
	q, err := listquery.Parse(c, registryListOptions())
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	items, _, err := h.service.Registry(c.Request.Context(), q)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	buf, err := export.Build(export.RegistrySheet(items))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	serveXLSX(c, "registry", buf.Bytes())
}

func (h *RegistryHandler) Revise(c *gin.Context) {
	report, err := h.service.Revise(c.Request.Context())
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, report)
}

func (h *RegistryHandler) ExportRevise(c *gin.Context) {
	report, err := h.service.Revise(c.Request.Context())
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	buf, err := export.Build(export.ReviseSheet(report.Wallets, report.Virtual))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	serveXLSX(c, "revise", buf.Bytes())
}
