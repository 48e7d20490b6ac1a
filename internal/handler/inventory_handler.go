package handler

import (
	"net/http"
	"strconv"

	"shopledger/internal/middleware"
	"shopledger/internal/service"
	"shopledger/pkg/pagination"
	"shopledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	stock := router.Group("/api/stock")
	stock.Use(auth.RequireRole(middleware.RoleOwner, middleware.RoleStaff))
	{
		stock.POST("", h.AddStock)
		stock.GET("", h.ListStock)
		stock.GET("/search", h.SearchStock)
		stock.GET("/reorder", h.ReorderList)
	}
}

// AddStock records a delivery and bills the dealer
// @Summary      Add stock
// @Description  Increments an existing item or creates it; the purchase is billed to the dealer
// @Tags         stock
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AddStockRequest  true  "Delivery"
// @Success      201      {object}  response.Response{data=service.StockItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/stock [post]
func (h *InventoryHandler) AddStock(c *gin.Context) {
	var req service.AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	item, err := h.inventoryService.AddStock(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// ListStock
// @Summary      List stock
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Param        low    query     bool  false  "Only items below their reorder threshold"
// @Param        page   query     int   false  "Page number (default 1)"
// @Param        limit  query     int   false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=response.Page}
// @Router       /api/stock [get]
func (h *InventoryHandler) ListStock(c *gin.Context) {
	p := pagination.Parse(c)
	lowOnly, _ := strconv.ParseBool(c.DefaultQuery("low", "false"))

	items, total, err := h.inventoryService.ListStock(c.Request.Context(), p.Page, p.Limit, lowOnly)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paged(http.StatusOK, items, total, p.Page, p.Limit))
}

// SearchStock suggests item names for billing forms
// @Summary      Search stock
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Param        q    query     string  true  "Case-insensitive name fragment"
// @Success      200  {object}  response.Response{data=[]model.StockItem}
// @Router       /api/stock/search [get]
func (h *InventoryHandler) SearchStock(c *gin.Context) {
	items, err := h.inventoryService.SearchStock(c.Request.Context(), c.Query("q"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// ReorderList
// @Summary      Reorder list
// @Description  Low-stock items grouped by dealer
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.ReorderGroup}
// @Router       /api/stock/reorder [get]
func (h *InventoryHandler) ReorderList(c *gin.Context) {
	groups, err := h.inventoryService.ReorderList(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, groups))
}
