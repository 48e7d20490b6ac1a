package handler

import (
	"net/http"

	"shopledger/internal/middleware"
	"shopledger/internal/service"
	"shopledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledgerService service.LedgerService
}

func NewLedgerHandler(ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

func (h *LedgerHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	anyRole := auth.RequireRole(middleware.RoleOwner, middleware.RoleStaff)
	router.GET("/api/state", anyRole, h.GetState)
	router.GET("/api/shop", anyRole, h.GetShop)
	router.GET("/api/dashboard", anyRole, h.GetDashboard)
}

// GetState returns the whole ledger snapshot
// @Summary      Get state
// @Tags         ledger
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.StateResponse}
// @Router       /api/state [get]
func (h *LedgerHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.ledgerService.GetState(c.Request.Context())))
}

// GetShop
// @Summary      Get shop profile
// @Tags         ledger
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.Shop}
// @Router       /api/shop [get]
func (h *LedgerHandler) GetShop(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.ledgerService.GetShop(c.Request.Context())))
}

// GetDashboard
// @Summary      Get dashboard
// @Description  Counts and totals for the home screen
// @Tags         ledger
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.DashboardResponse}
// @Router       /api/dashboard [get]
func (h *LedgerHandler) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.ledgerService.Dashboard(c.Request.Context())))
}
