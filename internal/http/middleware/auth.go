package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/investplatform/admin-backend/internal/apierr"
	"github.com/investplatform/admin-backend/internal/auth"
	"github.com/investplatform/admin-backend/internal/http/response"
	"github.com/investplatform/admin-backend/internal/models"
)

const (
	ContextAdminID = "adminID"
	ContextAdmin   = "admin"
	ContextSession = "sessionID"
)

type AdminSource interface {
	GetByID(ctx context.Context, id string) (*models.Admin, error)
	GetSession(ctx context.Context, id string) (*models.AdminSession, error)
}

// RequireAuth checks the bearer access token, verifies the session is
// still open and stores the operator on the request context.
func RequireAuth(jwt *auth.JWTManager, admins AdminSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Err(c, nil, apierr.New(apierr.TokenInvalid))
			return
		}

		claims, err := jwt.Parse(token)
		if err != nil || claims.Type != auth.TokenAccess {
			response.Err(c, nil, apierr.New(apierr.TokenInvalid))
			return
		}

		session, err := admins.GetSession(c.Request.Context(), claims.SessionID)
		if err != nil || session.Status != models.SessionStatusActive {
			response.Err(c, nil, apierr.New(apierr.SessionNotFound))
			return
		}

		admin, err := admins.GetByID(c.Request.Context(), claims.AdminID)
		if err != nil {
			response.Err(c, nil, apierr.New(apierr.TokenInvalid))
			return
		}
		if admin.Status == models.AdminStatusBlocked {
			response.Err(c, nil, apierr.New(apierr.Forbidden))
			return
		}

		c.Set(ContextAdminID, admin.ID)
		c.Set(ContextAdmin, admin)
		c.Set(ContextSession, session.ID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		// WebSocket clients cannot set headers from the browser.
		return c.Query("token")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// CurrentAdmin returns the operator stored by RequireAuth.
func CurrentAdmin(c *gin.Context) *models.Admin {
	v, ok := c.Get(ContextAdmin)
	if !ok {
		return nil
	}
	admin, _ := v.(*models.Admin)
	return admin
}
