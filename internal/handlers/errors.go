package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vyaparbooks/voucher_engine_app/internal/apperrors"
	"github.com/vyaparbooks/voucher_engine_app/internal/middleware"
)

// respondError maps a service error to an HTTP response. Structured posting
// failures carry their kind and details; everything else is classified by
// the taxonomy sentinels.
func respondError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusForError(err)

	if ve, ok := apperrors.AsVoucherError(err); ok {
		if status >= http.StatusInternalServerError {
			logger.Error("Request failed", slog.String("kind", ve.Kind), slog.String("error", err.Error()))
		} else {
			logger.Warn("Request rejected", slog.String("kind", ve.Kind), slog.String("error", err.Error()))
		}
		c.JSON(status, gin.H{"error": ve.Kind, "details": ve.Details})
		return
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	logger.Warn("Request rejected", slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrPolicy):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrIntegrity), errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// companyScope extracts the tenant scope or writes a 400 and returns false.
func companyScope(c *gin.Context) (string, bool) {
	companyID, ok := middleware.GetCompanyIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing X-Company-ID header"})
		return "", false
	}
	return companyID, true
}
