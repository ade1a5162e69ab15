// Package response shapes the JSON envelopes every endpoint returns:
// {ok:true, result:...} on success, {ok:true, result:{count, items}} for
// lists, {ok:false, code, data, msg} on failure.
package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/investplatform/admin-backend/internal/apierr"
)

type envelope struct {
	OK     bool `json:"ok"`
	Result any  `json:"result,omitempty"`
}

type pageResult struct {
	Count int64 `json:"count"`
	Items any   `json:"items"`
}

type failure struct {
	OK   bool   `json:"ok"`
	Code int    `json:"code"`
	Data any    `json:"data"`
	Msg  string `json:"msg"`
}

func OK(c *gin.Context, result any) {
	c.JSON(http.StatusOK, envelope{OK: true, Result: result})
}

func Empty(c *gin.Context) {
	c.JSON(http.StatusOK, envelope{OK: true})
}

func Pagination(c *gin.Context, count int64, items any) {
	c.JSON(http.StatusOK, envelope{OK: true, Result: pageResult{Count: count, Items: items}})
}

// Err maps an error to the failure envelope. Known *apierr.Error values
// keep their code and detail data; anything else becomes a 500 with the
// cause logged server-side, never echoed to the caller.
func Err(c *gin.Context, logger *slog.Logger, err error) {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		data := apiErr.Data
		if data == nil {
			data = gin.H{}
		}
		c.AbortWithStatusJSON(apiErr.HTTPStatus(), failure{
			Code: apiErr.Code,
			Data: data,
			Msg:  apiErr.Msg,
		})
		return
	}
	if logger != nil {
		logger.Error("internal error", "path", c.FullPath(), "err", err)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, failure{
		Code: apierr.InternalServerError,
		Data: gin.H{},
		Msg:  apierr.Message(apierr.InternalServerError),
	})
}

// ValidationErr reports a malformed payload, carrying per-field reasons
// collected by the binding layer.
func ValidationErr(c *gin.Context, details any) {
	if details == nil {
		details = gin.H{}
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, failure{
		Code: apierr.InvalidPayload,
		Data: details,
		Msg:  "Validation error",
	})
}
