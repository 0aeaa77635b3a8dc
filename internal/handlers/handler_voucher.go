package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/services"
	"github.com/vyaparbooks/voucher_engine_app/internal/dto"
	"github.com/vyaparbooks/voucher_engine_app/internal/middleware"
)

// voucherHandler handles HTTP requests related to vouchers.
type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
}

// newVoucherHandler creates a new voucherHandler.
func newVoucherHandler(voucherService portssvc.VoucherSvcFacade) *voucherHandler {
	return &voucherHandler{voucherService: voucherService}
}

// postVoucher godoc
// @Summary Post a voucher
// @Description Runs the posting pipeline and commits the voucher atomically
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   voucher body dto.CreateVoucherRequest true "Voucher draft"
// @Success 201 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 422 {object} map[string]string "Rejected by posting policy"
// @Router /vouchers [post]
func (h *voucherHandler) postVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var req dto.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for postVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)
	voucher, err := h.voucherService.PostVoucher(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher))
}

// createDraft godoc
// @Summary Validate and enrich a draft voucher
// @Description Runs the pipeline without allocating a number or committing anything
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   voucher body dto.CreateVoucherRequest true "Voucher draft"
// @Success 200 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /vouchers/draft [post]
func (h *voucherHandler) createDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var req dto.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createDraft", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)
	voucher, err := h.voucherService.CreateDraft(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// cancelVoucher godoc
// @Summary Cancel a posted voucher
// @Description Posts a reversing voucher and marks the original CANCELLED
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   voucherID path string true "Voucher ID"
// @Param   cancel body dto.CancelVoucherRequest false "Reversal parameters"
// @Success 200 {object} dto.VoucherResponse "The reversing voucher"
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 422 {object} map[string]string "Voucher not cancellable"
// @Router /vouchers/{voucherID}/cancel [post]
func (h *voucherHandler) cancelVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	voucherID := c.Param("voucherID")

	var req dto.CancelVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for cancelVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)
	reversal, err := h.voucherService.CancelVoucher(c.Request.Context(), companyID, voucherID, req, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(reversal))
}

// getVoucher godoc
// @Summary Get a voucher
// @Description Retrieves a voucher with its entries and inventory lines
// @Tags vouchers
// @Produce  json
// @Param   voucherID path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Router /vouchers/{voucherID} [get]
func (h *voucherHandler) getVoucher(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	voucherID := c.Param("voucherID")

	voucher, err := h.voucherService.GetVoucherByID(c.Request.Context(), companyID, voucherID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// listVouchers godoc
// @Summary List vouchers
// @Description Retrieves a page of vouchers, newest first
// @Tags vouchers
// @Produce  json
// @Param   voucherTypeID query string false "Filter by voucher type"
// @Param   status query string false "Filter by status" Enums(POSTED, CANCELLED)
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListVouchersResponse
// @Router /vouchers [get]
func (h *voucherHandler) listVouchers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var params dto.ListVouchersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listVouchers", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.voucherService.ListVouchers(c.Request.Context(), companyID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterVoucherRoutes registers voucher specific routes
func RegisterVoucherRoutes(group *gin.RouterGroup, voucherService portssvc.VoucherSvcFacade) {
	h := newVoucherHandler(voucherService)

	vouchers := group.Group("/vouchers")
	{
		vouchers.POST("", h.postVoucher)
		vouchers.POST("/draft", h.createDraft)
		vouchers.GET("", h.listVouchers)
		vouchers.GET("/:voucherID", h.getVoucher)
		vouchers.POST("/:voucherID/cancel", h.cancelVoucher)
	}
}
