package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/services"
	"github.com/vyaparbooks/voucher_engine_app/internal/dto"
	"github.com/vyaparbooks/voucher_engine_app/internal/middleware"
)

// inventoryHandler handles HTTP requests related to items, warehouses and
// stock.
type inventoryHandler struct {
	inventoryService portssvc.InventorySvcFacade
}

// newInventoryHandler creates a new inventoryHandler.
func newInventoryHandler(inventoryService portssvc.InventorySvcFacade) *inventoryHandler {
	return &inventoryHandler{inventoryService: inventoryService}
}

// createItem godoc
// @Summary Create a stockable item
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   item body dto.CreateItemRequest true "Item"
// @Success 201 {object} dto.ItemResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /items [post]
func (h *inventoryHandler) createItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)
	item, err := h.inventoryService.CreateItem(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToItemResponse(item))
}

// getItem godoc
// @Summary Get an item
// @Tags inventory
// @Produce  json
// @Param   itemID path string true "Item ID"
// @Success 200 {object} dto.ItemResponse
// @Failure 404 {object} map[string]string "Item not found"
// @Router /items/{itemID} [get]
func (h *inventoryHandler) getItem(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}

	item, err := h.inventoryService.GetItemByID(c.Request.Context(), companyID, c.Param("itemID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToItemResponse(item))
}

// createWarehouse godoc
// @Summary Create a warehouse
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   warehouse body dto.CreateWarehouseRequest true "Warehouse"
// @Success 201 {object} dto.WarehouseResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /warehouses [post]
func (h *inventoryHandler) createWarehouse(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var req dto.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createWarehouse", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)
	warehouse, err := h.inventoryService.CreateWarehouse(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToWarehouseResponse(warehouse))
}

// getStock godoc
// @Summary Get the quantity on hand for one (item, warehouse)
// @Tags inventory
// @Produce  json
// @Param   itemID path string true "Item ID"
// @Param   warehouseID path string true "Warehouse ID"
// @Success 200 {object} dto.StockResponse
// @Router /items/{itemID}/stock/{warehouseID} [get]
func (h *inventoryHandler) getStock(c *gin.Context) {
	if _, ok := companyScope(c); !ok {
		return
	}
	itemID := c.Param("itemID")
	warehouseID := c.Param("warehouseID")

	qty, err := h.inventoryService.GetStock(c.Request.Context(), itemID, warehouseID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StockResponse{ItemID: itemID, WarehouseID: warehouseID, Quantity: qty})
}

// registerInventoryRoutes registers item, warehouse and stock routes
func registerInventoryRoutes(group *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade) {
	h := newInventoryHandler(inventoryService)

	items := group.Group("/items")
	{
		items.POST("", h.createItem)
		items.GET("/:itemID", h.getItem)
		items.GET("/:itemID/stock/:warehouseID", h.getStock)
	}

	warehouses := group.Group("/warehouses")
	{
		warehouses.POST("", h.createWarehouse)
	}
}
