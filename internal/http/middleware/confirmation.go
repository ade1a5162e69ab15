package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/investplatform/admin-backend/internal/apierr"
	"github.com/investplatform/admin-backend/internal/http/response"
)

const ConfirmationHeader = "Confirmation"

type Confirmer interface {
	Confirm(ctx context.Context, adminID, code string) error
}

// RequireConfirmation enforces the step-up check on destructive routes:
// the request must carry a fresh one-time code in the Confirmation
// header.
func RequireConfirmation(confirmer Confirmer) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.TrimSpace(c.GetHeader(ConfirmationHeader))
		if code == "" {
			response.Err(c, nil, apierr.New(apierr.ConfirmationFailed))
			return
		}
		if err := confirmer.Confirm(c.Request.Context(), c.GetString(ContextAdminID), code); err != nil {
			response.Err(c, nil, err)
			return
		}
		c.Next()
	}
}
