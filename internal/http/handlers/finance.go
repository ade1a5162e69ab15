package handlers

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/investplatform/admin-backend/internal/http/response"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type FinanceService interface {
	Deposits(ctx context.Context, q listquery.Params) ([]models.Deposit, int64, error)
	Deposit(ctx context.Context, id string) (*models.Deposit, error)
	Withdrawals(ctx context.Context, q listquery.Params) ([]models.Withdrawal, int64, error)
	Withdrawal(ctx context.Context, id string) (*models.Withdrawal, error)
	ApproveWithdrawal(ctx context.Context, id string) (*models.Withdrawal, error)
	RejectWithdrawal(ctx context.Context, id string) (*models.Withdrawal, error)
}

type FinanceHandler struct {
	service FinanceService
	logger  *slog.Logger
}

func NewFinanceHandler(service FinanceService, logger *slog.Logger) *FinanceHandler {
	return &FinanceHandler{service: service, logger: logger}
}

func transferListOptions() listquery.Options {
	return listquery.Options{
		TextFields: []string{"amount"},
		Filters: map[string]string{
			"status":   "status",
			"walletId": "wallet_id",
		},
		DateField: "createdAt",
	}
}

func (h *FinanceHandler) ListDeposits(c *gin.Context) {
	q, err := listquery.Parse(c, transferListOptions())
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	items, count, err := h.service.Deposits(c.Request.Context(), q)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Pagination(c, count, items)
}

func (h *FinanceHandler) GetDeposit(c *gin.Context) {
	deposit, err := h.service.Deposit(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, deposit)
}

func (h *FinanceHandler) ListWithdrawals(c *gin.Context) {
	q, err := listquery.Parse(c, transferListOptions())
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	items, count, err := h.service.Withdrawals(c.Request.Context(), q)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Pagination(c, count, items)
}

func (h *FinanceHandler) GetWithdrawal(c *gin.Context) {
	withdrawal, err := h.service.Withdrawal(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, withdrawal)
}

func (h *FinanceHandler) ApproveWithdrawal(c *gin.Context) {
	withdrawal, err := h.service.ApproveWithdrawal(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, withdrawal)
}

func (h *FinanceHandler) RejectWithdrawal(c *gin.Context) {
	withdrawal, err := h.service.RejectWithdrawal(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, withdrawal)
}
