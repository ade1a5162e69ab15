package handlers

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/investplatform/admin-backend/internal/http/response"
	"github.com/investplatform/admin-backend/internal/models"
)

type UserActionService interface {
	Ban(ctx context.Context, id string) (*models.User, error)
	Unban(ctx context.Context, id string) (*models.User, error)
}

type QualificationService interface {
	SetQualification(ctx context.Context, id string, status models.QualificationStatus) (*models.UserProfile, error)
}

type TestDepositService interface {
	TestDeposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (*models.Deposit, error)
}

// ActionsHandler groups the one-off operator actions: ban/unban,
// qualification flips and staging test deposits.
type ActionsHandler struct {
	users         UserActionService
	qualification QualificationService
	deposits      TestDepositService
	logger        *slog.Logger
}

func NewActionsHandler(users UserActionService, qualification QualificationService, deposits TestDepositService, logger *slog.Logger) *ActionsHandler {
	return &ActionsHandler{users: users, qualification: qualification, deposits: deposits, logger: logger}
}

func (h *ActionsHandler) BanUser(c *gin.Context) {
	user, err := h.users.Ban(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, user)
}

func (h *ActionsHandler) UnbanUser(c *gin.Context) {
	user, err := h.users.Unban(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, user)
}

type qualificationRequest struct {
	Status models.QualificationStatus `json:"status" binding:"required"`
}

func (h *ActionsHandler) SetQualification(c *gin.Context) {
	var req qualificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}
	profile, err := h.qualification.SetQualification(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, profile)
}

type testDepositRequest struct {
	AccountNumber string          `json:"accountNumber" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
}

func (h *ActionsHandler) TestDeposit(c *gin.Context) {
	var req testDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}
	deposit, err := h.deposits.TestDeposit(c.Request.Context(), req.AccountNumber, req.Amount)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, deposit)
}
