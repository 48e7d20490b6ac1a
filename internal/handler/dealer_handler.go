package handler

import (
	"net/http"

	"shopledger/internal/middleware"
	"shopledger/internal/service"
	"shopledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type DealerHandler struct {
	dealerService service.DealerService
}

func NewDealerHandler(dealerService service.DealerService) *DealerHandler {
	return &DealerHandler{dealerService: dealerService}
}

func (h *DealerHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	anyRole := auth.RequireRole(middleware.RoleOwner, middleware.RoleStaff)
	dealers := router.Group("/api/dealers")
	{
		dealers.GET("", anyRole, h.ListDealers)
		dealers.GET("/:name", anyRole, h.GetDealer)
		dealers.POST("/payments", anyRole, h.PayDealer)
		dealers.POST("/history/cleanup", anyRole, h.ClearInvalidHistory)
		dealers.POST("/:name/reset", auth.RequireRole(middleware.RoleOwner), h.ResetDealer)
	}
}

// ListDealers
// @Summary      List dealers
// @Description  Every dealer with billed, paid and outstanding amounts plus the totals
// @Tags         dealers
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.DealerListResponse}
// @Router       /api/dealers [get]
func (h *DealerHandler) ListDealers(c *gin.Context) {
	res, err := h.dealerService.ListDealers(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// GetDealer
// @Summary      Get dealer
// @Tags         dealers
// @Security     BearerAuth
// @Produce      json
// @Param        name  path      string  true  "Dealer name"
// @Success      200   {object}  response.Response{data=model.Dealer}
// @Failure      404   {object}  response.Response
// @Router       /api/dealers/{name} [get]
func (h *DealerHandler) GetDealer(c *gin.Context) {
	dealer, err := h.dealerService.GetDealer(c.Request.Context(), c.Param("name"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dealer))
}

// PayDealer
// @Summary      Pay dealer
// @Tags         dealers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.PayDealerRequest  true  "Payment"
// @Success      201      {object}  response.Response{data=model.Dealer}
// @Failure      400      {object}  response.Response
// @Router       /api/dealers/payments [post]
func (h *DealerHandler) PayDealer(c *gin.Context) {
	var req service.PayDealerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	dealer, err := h.dealerService.PayDealer(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, dealer))
}

// ClearInvalidHistory drops zero and negative dealer ledger lines
// @Summary      Clean dealer history
// @Tags         dealers
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/dealers/history/cleanup [post]
func (h *DealerHandler) ClearInvalidHistory(c *gin.Context) {
	removed, err := h.dealerService.ClearInvalidHistory(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"removed": removed}))
}

// ResetDealer wipes payments and history of a dealer
// @Summary      Reset dealer
// @Tags         dealers
// @Security     BearerAuth
// @Produce      json
// @Param        name  path      string  true  "Dealer name"
// @Success      200   {object}  response.Response{data=model.Dealer}
// @Failure      404   {object}  response.Response
// @Router       /api/dealers/{name}/reset [post]
func (h *DealerHandler) ResetDealer(c *gin.Context) {
	dealer, err := h.dealerService.ResetDealer(c.Request.Context(), c.Param("name"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dealer))
}
