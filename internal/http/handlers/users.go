package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/investplatform/admin-backend/internal/domain/users"
	"github.com/investplatform/admin-backend/internal/export"
	"github.com/investplatform/admin-backend/internal/http/response"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
	"github.com/investplatform/admin-backend/internal/overlay"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type UserService interface {
	List(ctx context.Context, q listquery.Params) ([]models.User, int64, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Stage(ctx context.Context, id string, changes map[string]any) (*models.User, error)
	Confirm(ctx context.Context, id string) (*models.User, error)
	Reject(ctx context.Context, id string) (*models.User, error)
	Stats(ctx context.Context) (*users.Stats, error)
	Logs(ctx context.Context, q listquery.Params) ([]models.UserLog, int64, error)
}

type UsersHandler struct {
	service UserService
	logger  *slog.Logger
}

func NewUsersHandler(service UserService, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{service: service, logger: logger}
}

func userListOptions() listquery.Options {
	return listquery.Options{
		TextFields: []string{"email", "phone", "firstName", "middleName", "lastName"},
		Filters:    map[string]string{"status": "status"},
		DateField:  "createdAt",
	}
}

// List returns users with staged edits flattened over the stored
// columns, the way the front office shows them.
func (h *UsersHandler) List(c *gin.Context) {
	q, err := listquery.Parse(c, userListOptions())
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	items, count, err := h.service.List(c.Request.Context(), q)
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

func (h *UsersHandler) Get(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	flat, err := overlay.Flatten(user, user.Updates)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	flat["updatesState"] = overlay.StateOf(user.Updates)
	response.OK(c, flat)
}

func (h *UsersHandler) Update(c *gin.Context) {
	changes := map[string]any{}
	if err := c.ShouldBindJSON(&changes); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}
	user, err := h.service.Stage(c.Request.Context(), c.Param("id"), changes)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, user)
}

func (h *UsersHandler) Confirm(c *gin.Context) {
	user, err := h.service.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, user)
}

func (h *UsersHandler) Reject(c *gin.Context) {
	user, err := h.service.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, user)
}

// Profiles returns the user's profiles as preloaded on the row.
func (h *UsersHandler) Profiles(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, user.Profiles)
}

func (h *UsersHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, stats)
}

func (h *UsersHandler) Export(c *gin.Context) {
	q, err := listquery.Parse(c, userListOptions())
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	items, _, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	buf, err := export.Build(export.UsersSheet(items))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	serveXLSX(c, "users", buf.Bytes())
}

func userLogOptions() listquery.Options {
	return listquery.Options{
		TextFields: []string{"action", "ip"},
		Filters:    map[string]string{"userId": "user_id", "action": "action"},
		DateField:  "createdAt",
	}
}

func (h *UsersHandler) Logs(c *gin.Context) {
	q, err := listquery.Parse(c, userLogOptions())
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	items, count, err := h.service.Logs(c.Request.Context(), q)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Pagination(c, count, items)
}

func (h *UsersHandler) ExportLogs(c *gin.Context) {
	q, err := listquery.Parse(c, userLogOptions())
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	items, _, err := h.service.Logs(c.Request.Context(), q)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	buf, err := export.Build(export.UserLogsSheet(items))
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	serveXLSX(c, "user_logs", buf.Bytes())
}

func serveXLSX(c *gin.Context, prefix string, payload []byte) {
	name := export.FileName(prefix, time.Now().UTC())
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, payload)
}
