package handlers

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/investplatform/admin-backend/internal/apierr"
	"github.com/investplatform/admin-backend/internal/http/response"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type InvestmentService interface {
	List(ctx context.Context, q listquery.Params) ([]models.Investment, int64, error)
	GetByID(ctx context.Context, id string) (*models.Investment, error)
	Create(ctx context.Context, investment *models.Investment, walletID string) error
}

type InvestmentsHandler struct {
	service InvestmentService
	logger  *slog.Logger
}

func NewInvestmentsHandler(service InvestmentService, logger *slog.Logger) *InvestmentsHandler {
	return &InvestmentsHandler{service: service, logger: logger}
}

func (h *InvestmentsHandler) List(c *gin.Context) {
	q, err := listquery.Parse(c, listquery.Options{
		Filters: map[string]string{
			"loanId":      "loan_id",
			"userId":      "user_id",
			"profileType": "profile_type",
		},
		DateField: "createdAt",
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

func (h *InvestmentsHandler) Get(c *gin.Context) {
	investment, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, investment)
}

type createInvestmentRequest struct {
	LoanID      string          `json:"loanId" binding:"required,uuid"`
	UserID      string          `json:"userId" binding:"required,uuid"`
	WalletID    string          `json:"walletId" binding:"required,uuid"`
	ProfileType string          `json:"profileType" binding:"required"`
	Value       decimal.Decimal `json:"value" binding:"required"`
}

func (h *InvestmentsHandler) Create(c *gin.Context) {
	var req createInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}
	if req.Value.IsNegative() || req.Value.IsZero() {
		response.Err(c, h.logger, apierr.New(apierr.InvalidPayload))
		return
	}

	investment := &models.Investment{
		LoanID:      req.LoanID,
		UserID:      req.UserID,
		ProfileType: req.ProfileType,
		Value:       req.Value,
	}
	if err := h.service.Create(c.Request.Context(), investment, req.WalletID); err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, investment)
}
