package handlers

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/investplatform/admin-backend/internal/history"
	"github.com/investplatform/admin-backend/internal/http/response"
	"github.com/investplatform/admin-backend/internal/listquery"
)

type HistoryService interface {
	InvestorHistory(ctx context.Context, userID string, offset, limit int) ([]history.Entry, int64, error)
	BorrowerHistory(ctx context.Context, userID string, offset, limit int) ([]history.Entry, int64, error)
}

type HistoryHandler struct {
	service HistoryService
	logger  *slog.Logger
}

func NewHistoryHandler(service HistoryService, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{service: service, logger: logger}
}

func (h *HistoryHandler) Investor(c *gin.Context) {
	page := listquery.Paginate(c)
	items, count, err := h.service.InvestorHistory(c.Request.Context(), c.Param("userId"), page.Offset, page.Limit)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Pagination(c, count, items)
}

func (h *HistoryHandler) Borrower(c *gin.Context) {
	page := listquery.Paginate(c)
	items, count, err := h.service.BorrowerHistory(c.Request.Context(), c.Param("userId"), page.Offset, page.Limit)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Pagination(c, count, items)
}
