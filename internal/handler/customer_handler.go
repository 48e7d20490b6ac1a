package handler

import (
	"net/http"
	"strconv"

	"shopledger/internal/middleware"
	"shopledger/internal/service"
	"shopledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	customerService service.CustomerService
}

func NewCustomerHandler(customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

func (h *CustomerHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	customers := router.Group("/api/customers")
	customers.Use(auth.RequireRole(middleware.RoleOwner, middleware.RoleStaff))
	{
		customers.GET("", h.ListCustomers)
		customers.GET("/:name", h.GetCustomer)
	}
}

// ListCustomers
// @Summary      List customers
// @Description  Customers with their pending total and credit position
// @Tags         customers
// @Security     BearerAuth
// @Produce      json
// @Param        q           query     string  false  "Name or phone fragment"
// @Param        over_limit  query     bool    false  "Only customers above their allowed limit"
// @Success      200         {object}  response.Response{data=[]model.CustomerBalance}
// @Router       /api/customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	overLimit, _ := strconv.ParseBool(c.DefaultQuery("over_limit", "false"))
	customers, err := h.customerService.ListCustomers(c.Request.Context(), c.Query("q"), overLimit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, customers))
}

// GetCustomer
// @Summary      Get customer
// @Tags         customers
// @Security     BearerAuth
// @Produce      json
// @Param        name  path      string  true  "Customer name"
// @Success      200   {object}  response.Response{data=service.CustomerDetailResponse}
// @Failure      404   {object}  response.Response
// @Router       /api/customers/{name} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.customerService.GetCustomer(c.Request.Context(), c.Param("name"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, customer))
}
