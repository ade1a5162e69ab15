package handlers

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/investplatform/admin-backend/internal/export"
	"github.com/investplatform/admin-backend/internal/http/response"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
	"github.com/investplatform/admin-backend/internal/overlay"
)

type ProfileService interface {
	List(ctx context.Context, role models.ProfileRole, q listquery.Params) ([]models.UserProfile, int64, error)
	Get(ctx context.Context, id string) (*models.UserProfile, error)
	Stage(ctx context.Context, id string, changes map[string]any) (*models.UserProfile, error)
	Confirm(ctx context.Context, id string) (*models.UserProfile, error)
	Reject(ctx context.Context, id string) (*models.UserProfile, error)
	Block(ctx context.Context, id string) error
	Unblock(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
	Count(ctx context.Context, role models.ProfileRole) (int64, error)
}

type ProfileInvestmentSource interface {
	InvestmentsByUser(ctx context.Context, userID string, q listquery.Params) ([]models.Investment, int64, error)
}

// ProfilesHandler serves both the borrower and the investor route
// groups; role is fixed per instance.
type ProfilesHandler struct {
	service     ProfileService
	investments ProfileInvestmentSource
	role        models.ProfileRole
	logger      *slog.Logger
}

func NewProfilesHandler(service ProfileService, investments ProfileInvestmentSource, role models.ProfileRole, logger *slog.Logger) *ProfilesHandler {
	return &ProfilesHandler{service: service, investments: investments, role: role, logger: logger}
}

func profileListOptions() listquery.Options {
	return listquery.Options{
		TextFields: []string{"email", "phone"},
		Filters: map[string]string{
			"status": "status",
			"type":   "type",
		},
		DateField: "createdAt",
	}
}

func (h *ProfilesHandler) List(c *gin.Context) {
	q, err := listquery.Parse(c, profileListOptions())
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	items, count, err := h.service.List(c.Request.Context(), h.role, q)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}

	flattened := make([]map[string]any, 0, len(items))
	for i := range items {
		flat, err := overlay.Flatten(&items[i], items[i].Updates)
		if err != nil {
			response.Err(c, h.logger, err)
			return
		}
		flat["updatesState"] = overlay.StateOf(items[i].Updates)
		flattened = append(flattened, flat)
	}
	response.Pagination(c, count, flattened)
}

func (h *ProfilesHandler) Get(c *gin.Context) {
	profile, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	flat, err := overlay.Flatten(profile, profile.Updates)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	flat["updatesState"] = overlay.StateOf(profile.Updates)
	response.OK(c, flat)
}

func (h *ProfilesHandler) Update(c *gin.Context) {
	changes := map[string]any{}
	if err := c.ShouldBindJSON(&changes); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}
	profile, err := h.service.Stage(c.Request.Context(), c.Param("id"), changes)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, profile)
}

func (h *ProfilesHandler) Confirm(c *gin.Context) {
	profile, err := h.service.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, profile)
}

func (h *ProfilesHandler) Reject(c *gin.Context) {
	profile, err := h.service.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, profile)
}

func (h *ProfilesHandler) Block(c *gin.Context) {
	if err := h.service.Block(c.Request.Context(), c.Param("id")); err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Empty(c)
}

func (h *ProfilesHandler) Unblock(c *gin.Context) {
	if err := h.service.Unblock(c.Request.Context(), c.Param("id")); err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Empty(c)
}

func (h *ProfilesHandler) Delete(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), c.Param("id")); err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Empty(c)
}

// Projects lists an investor's investments, including money on hold.
func (h *ProfilesHandler) Projects(c *gin.Context) {
	profile, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	q, err := listquery.Parse(c, listquery.Options{DateField: "createdAt"})
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	items, count, err := h.investments.InvestmentsByUser(c.Request.Context(), profile.UserID, q)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{
		"count":  count,
		"items":  items,
		"wallet": profile.Wallet,
	})
}

func (h *ProfilesHandler) Stats(c *gin.Context) {
	count, err := h.service.Count(c.Request.Context(), h.role)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"count": count})
}

func (h *ProfilesHandler) Export(c *gin.Context) {
	q, err := listquery.Parse(c, profileListOptions())
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	items, _, err := h.service.List(c.Request.Context(), h.role, q)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	buf, err := export.Build(export.InvestorsSheet(items))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	serveXLSX(c, string(h.role)+"s", buf.Bytes())
}
