package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/services"
	"github.com/vyaparbooks/voucher_engine_app/internal/dto"
	"github.com/vyaparbooks/voucher_engine_app/internal/middleware"
)

// numberingHandler handles HTTP requests related to voucher types and
// numbering series.
type numberingHandler struct {
	numberingService portssvc.NumberingSvcFacade
}

// newNumberingHandler creates a new numberingHandler.
func newNumberingHandler(numberingService portssvc.NumberingSvcFacade) *numberingHandler {
	return &numberingHandler{numberingService: numberingService}
}

// createVoucherType godoc
// @Summary Create a voucher type
// @Description Creates a voucher type, optionally with its first numbering series
// @Tags numbering
// @Accept  json
// @Produce  json
// @Param   voucherType body dto.CreateVoucherTypeRequest true "Voucher type"
// @Success 201 {object} dto.VoucherTypeResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /voucher-types [post]
func (h *numberingHandler) createVoucherType(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var req dto.CreateVoucherTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createVoucherType", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)
	vt, err := h.numberingService.CreateVoucherType(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToVoucherTypeResponse(vt, nil))
}

// listVoucherTypes godoc
// @Summary List voucher types with their series
// @Tags numbering
// @Produce  json
// @Success 200 {array} dto.VoucherTypeResponse
// @Router /voucher-types [get]
func (h *numberingHandler) listVoucherTypes(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}

	types, err := h.numberingService.ListVoucherTypes(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types)
}

// createSeries godoc
// @Summary Add a numbering series to a voucher type
// @Tags numbering
// @Accept  json
// @Produce  json
// @Param   voucherTypeID path string true "Voucher type ID"
// @Param   series body dto.CreateSeriesRequest true "Series"
// @Success 201 {object} dto.SeriesResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /voucher-types/{voucherTypeID}/series [post]
func (h *numberingHandler) createSeries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var req dto.CreateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createSeries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)
	series, err := h.numberingService.CreateSeries(c.Request.Context(), companyID, c.Param("voucherTypeID"), req, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSeriesResponse(series))
}

// setDefaultSeries godoc
// @Summary Switch the current series of a voucher type
// @Tags numbering
// @Param   voucherTypeID path string true "Voucher type ID"
// @Param   seriesID path string true "Series ID"
// @Success 204 "Switched"
// @Failure 404 {object} map[string]string "Not found"
// @Router /voucher-types/{voucherTypeID}/series/{seriesID}/default [put]
func (h *numberingHandler) setDefaultSeries(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}

	err := h.numberingService.SetDefaultSeries(c.Request.Context(), companyID, c.Param("voucherTypeID"), c.Param("seriesID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// cancelAllocation godoc
// @Summary Skip the next number of a series
// @Description Consumes the next counter value and records it as an intentional gap
// @Tags numbering
// @Accept  json
// @Produce  json
// @Param   seriesID path string true "Series ID"
// @Param   cancel body dto.CancelAllocationRequest true "Reason"
// @Success 200 {object} dto.CancelAllocationResponse
// @Failure 400 {object} map[string]string "Series has no counter"
// @Router /series/{seriesID}/cancel-allocation [post]
func (h *numberingHandler) cancelAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	seriesID := c.Param("seriesID")

	var req dto.CancelAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for cancelAllocation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)
	skipped, err := h.numberingService.CancelAllocation(c.Request.Context(), companyID, seriesID, req.Reason, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CancelAllocationResponse{SeriesID: seriesID, SkippedNumber: skipped})
}

// registerNumberingRoutes registers voucher type and series routes
func registerNumberingRoutes(group *gin.RouterGroup, numberingService portssvc.NumberingSvcFacade) {
	h := newNumberingHandler(numberingService)

	voucherTypes := group.Group("/voucher-types")
	{
		voucherTypes.POST("", h.createVoucherType)
		voucherTypes.GET("", h.listVoucherTypes)
		voucherTypes.POST("/:voucherTypeID/series", h.createSeries)
		voucherTypes.PUT("/:voucherTypeID/series/:seriesID/default", h.setDefaultSeries)
	}

	series := group.Group("/series")
	{
		series.POST("/:seriesID/cancel-allocation", h.cancelAllocation)
	}
}
