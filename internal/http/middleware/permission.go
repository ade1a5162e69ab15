package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/investplatform/admin-backend/internal/apierr"
	"github.com/investplatform/admin-backend/internal/http/response"
	"github.com/investplatform/admin-backend/internal/models"
)

// RequirePermission gates a route group on the operator's level for one
// resource key. Reads need at least read, writes need write.
func RequirePermission(resource string, min models.PermissionLevel) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := CurrentAdmin(c)
		if admin == nil {
			response.Err(c, nil, apierr.New(apierr.TokenInvalid))
			return
		}
		if admin.Status != models.AdminStatusVerified {
			response.Err(c, nil, apierr.New(apierr.UnverifiedAdmin))
			return
		}
		if !admin.Permissions.Allows(resource, min) {
			response.Err(c, nil, apierr.New(apierr.Forbidden))
			return
		}
		c.Next()
	}
}
