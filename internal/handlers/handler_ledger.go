package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/services"
	"github.com/vyaparbooks/voucher_engine_app/internal/dto"
	"github.com/vyaparbooks/voucher_engine_app/internal/middleware"
)

// ledgerHandler handles HTTP requests related to ledgers.
type ledgerHandler struct {
	ledgerService  portssvc.LedgerSvcFacade
	voucherService portssvc.VoucherSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ledgerService portssvc.LedgerSvcFacade, voucherService portssvc.VoucherSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ledgerService, voucherService: voucherService}
}

// createLedger godoc
// @Summary Create a ledger
// @Tags ledgers
// @Accept  json
// @Produce  json
// @Param   ledger body dto.CreateLedgerRequest true "Ledger"
// @Success 201 {object} dto.LedgerResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /ledgers [post]
func (h *ledgerHandler) createLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var req dto.CreateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createLedger", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)
	ledger, err := h.ledgerService.CreateLedger(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToLedgerResponse(ledger))
}

// getLedger godoc
// @Summary Get a ledger
// @Tags ledgers
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Success 200 {object} dto.LedgerResponse
// @Failure 404 {object} map[string]string "Ledger not found"
// @Router /ledgers/{ledgerID} [get]
func (h *ledgerHandler) getLedger(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}

	ledger, err := h.ledgerService.GetLedgerByID(c.Request.Context(), companyID, c.Param("ledgerID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerResponse(ledger))
}

// listLedgers godoc
// @Summary List ledgers
// @Tags ledgers
// @Produce  json
// @Param   limit query int false "Page size"
// @Param   offset query int false "Offset"
// @Success 200 {array} dto.LedgerResponse
// @Router /ledgers [get]
func (h *ledgerHandler) listLedgers(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	ledgers, err := h.ledgerService.ListLedgers(c.Request.Context(), companyID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.LedgerResponse, 0, len(ledgers))
	for i := range ledgers {
		resp = append(resp, dto.ToLedgerResponse(&ledgers[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// getLedgerBalance godoc
// @Summary Get a ledger's running balance
// @Tags ledgers
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Success 200 {object} dto.LedgerBalanceResponse
// @Failure 404 {object} map[string]string "Ledger not found"
// @Router /ledgers/{ledgerID}/balance [get]
func (h *ledgerHandler) getLedgerBalance(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	ledgerID := c.Param("ledgerID")

	balance, err := h.ledgerService.GetLedgerBalance(c.Request.Context(), companyID, ledgerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LedgerBalanceResponse{LedgerID: ledgerID, Balance: balance})
}

// listLedgerEntries godoc
// @Summary List posted entries of a ledger
// @Tags ledgers
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 404 {object} map[string]string "Ledger not found"
// @Router /ledgers/{ledgerID}/entries [get]
func (h *ledgerHandler) listLedgerEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listLedgerEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.voucherService.ListEntriesByLedger(c.Request.Context(), companyID, c.Param("ledgerID"), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// deactivateLedger godoc
// @Summary Deactivate a ledger
// @Description Soft-deletes a ledger; rejected while it carries a balance
// @Tags ledgers
// @Param   ledgerID path string true "Ledger ID"
// @Success 204 "Deactivated"
// @Failure 404 {object} map[string]string "Ledger not found"
// @Failure 422 {object} map[string]string "Ledger carries a balance"
// @Router /ledgers/{ledgerID} [delete]
func (h *ledgerHandler) deactivateLedger(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}

	actorID := middleware.GetActorIDFromContext(c)
	if err := h.ledgerService.DeactivateLedger(c.Request.Context(), companyID, c.Param("ledgerID"), actorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// registerLedgerRoutes registers ledger specific routes
func registerLedgerRoutes(group *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, voucherService portssvc.VoucherSvcFacade) {
	h := newLedgerHandler(ledgerService, voucherService)

	ledgers := group.Group("/ledgers")
	{
		ledgers.POST("", h.createLedger)
		ledgers.GET("", h.listLedgers)
		ledgers.GET("/:ledgerID", h.getLedger)
		ledgers.GET("/:ledgerID/balance", h.getLedgerBalance)
		ledgers.GET("/:ledgerID/entries", h.listLedgerEntries)
		ledgers.DELETE("/:ledgerID", h.deactivateLedger)
	}
}
