package handlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/investplatform/admin-backend/internal/http/response"
	"github.com/investplatform/admin-backend/internal/models"
)

type SettingsRepository interface {
	List(ctx context.Context) ([]models.Setting, error)
	Upsert(ctx context.Context, settings []models.Setting) error
}

type SettingsHandler struct {
	repo   SettingsRepository
	logger *slog.Logger
}

func NewSettingsHandler(repo SettingsRepository, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{repo: repo, logger: logger}
}

func (h *SettingsHandler) List(c *gin.Context) {
	settings, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, settings)
}

// Update writes all provided keys atomically.
func (h *SettingsHandler) Update(c *gin.Context) {
	values := map[string]json.RawMessage{}
	if err := c.ShouldBindJSON(&values); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}
	if len(values) == 0 {
		response.ValidationErr(c, "no settings provided")
		return
	}

	settings := make([]models.Setting, 0, len(values))
	for key, value := range values {
		settings = append(settings, models.Setting{Key: key, Value: value})
	}
	if err := h.repo.Upsert(c.Request.Context(), settings); err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, settings)
}
