package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/services"
	"github.com/vyaparbooks/voucher_engine_app/internal/dto"
	"github.com/vyaparbooks/voucher_engine_app/internal/middleware"
)

// fiscalHandler handles HTTP requests related to the fiscal configuration.
type fiscalHandler struct {
	fiscalService portssvc.FiscalSvcFacade
}

// newFiscalHandler creates a new fiscalHandler.
func newFiscalHandler(fiscalService portssvc.FiscalSvcFacade) *fiscalHandler {
	return &fiscalHandler{fiscalService: fiscalService}
}

// getFiscalConfig godoc
// @Summary Get the company fiscal configuration
// @Tags fiscal
// @Produce  json
// @Success 200 {object} dto.FiscalConfigResponse
// @Failure 404 {object} map[string]string "Not configured"
// @Router /fiscal-config [get]
func (h *fiscalHandler) getFiscalConfig(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}

	cfg, err := h.fiscalService.GetFiscalConfig(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalConfigResponse(cfg))
}

// saveFiscalConfig godoc
// @Summary Replace the company fiscal configuration
// @Description Validates the fiscal window, backdating policy and tax ledger bindings
// @Tags fiscal
// @Accept  json
// @Produce  json
// @Param   config body dto.SaveFiscalConfigRequest true "Fiscal configuration"
// @Success 200 {object} dto.FiscalConfigResponse
// @Failure 400 {object} map[string]string "Invalid configuration"
// @Router /fiscal-config [put]
func (h *fiscalHandler) saveFiscalConfig(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var req dto.SaveFiscalConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for saveFiscalConfig", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)
	cfg, err := h.fiscalService.SaveFiscalConfig(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalConfigResponse(cfg))
}

// registerFiscalRoutes registers fiscal configuration routes
func registerFiscalRoutes(group *gin.RouterGroup, fiscalService portssvc.FiscalSvcFacade) {
	h := newFiscalHandler(fiscalService)

	fiscal := group.Group("/fiscal-config")
	{
		fiscal.GET("", h.getFiscalConfig)
		fiscal.PUT("", h.saveFiscalConfig)
	}
}
