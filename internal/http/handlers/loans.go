package handlers

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/investplatform/admin-backend/internal/export"
	"github.com/investplatform/admin-backend/internal/http/response"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type LoanService interface {
	List(ctx context.Context, q listquery.Params) ([]models.Loan, int64, error)
	ListByBorrower(ctx context.Context, borrowerID string, q listquery.Params) ([]models.Loan, int64, error)
	Get(ctx context.Context, id string) (*models.Loan, error)
	SetStatus(ctx context.Context, id string, status models.LoanStatus) (*models.Loan, error)
	SetArrearsStatus(ctx context.Context, id, arrearsStatus string) (*models.Loan, error)
	Payments(ctx context.Context, loanID string, q listquery.Params) ([]models.Payment, int64, error)
	Stats(ctx context.Context) (map[string]int64, error)
}

type LoansHandler struct {
	service LoanService
	logger  *slog.Logger
}

func NewLoansHandler(service LoanService, logger *slog.Logger) *LoansHandler {
	return &LoansHandler{service: service, logger: logger}
}

func loanListOptions() listquery.Options {
	return listquery.Options{
		TextFields: []string{"name", "contractNumber"},
		Filters: map[string]string{
			"status":     "status",
			"borrowerId": "borrower_id",
		},
		DateField: "createdAt",
	}
}

func (h *LoansHandler) List(c *gin.Context) {
	q, err := listquery.Parse(c, loanListOptions())
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}

	borrowerID := c.Query("borrower")
	var (
		items []models.Loan
		count int64
	)
	if borrowerID != "" {
		items, count, err = h.service.ListByBorrower(c.Request.Context(), borrowerID, q)
	} else {
		items, count, err = h.service.List(c.Request.Context(), q)
	}
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Pagination(c, count, items)
}

func (h *LoansHandler) Get(c *gin.Context) {
	loan, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, loan)
}

type loanStatusRequest struct {
	Status models.LoanStatus `json:"status" binding:"required"`
}

func (h *LoansHandler) SetStatus(c *gin.Context) {
	var req loanStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}
	loan, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, loan)
}

type arrearsRequest struct {
	ArrearsStatus string `json:"arrearsStatus" binding:"required"`
}

func (h *LoansHandler) SetArrearsStatus(c *gin.Context) {
	var req arrearsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}
	loan, err := h.service.SetArrearsStatus(c.Request.Context(), c.Param("id"), req.ArrearsStatus)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, loan)
}

func (h *LoansHandler) Payments(c *gin.Context) {
	q, err := listquery.Parse(c, listquery.Options{
		Filters:   map[string]string{"status": "status"},
		DateField: "paymentDate",
	})
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	items, count, err := h.service.Payments(c.Request.Context(), c.Param("id"), q)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Pagination(c, count, items)
}

func (h *LoansHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, stats)
}

func (h *LoansHandler) Export(c *gin.Context) {
	q, err := listquery.Parse(c, loanListOptions())
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	items, _, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	buf, err := export.Build(export.LoansSheet(items))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	serveXLSX(c, "loans", buf.Bytes())
}
