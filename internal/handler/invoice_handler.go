package handler

import (
	"net/http"

	"shopledger/internal/middleware"
	"shopledger/internal/service"
	"shopledger/pkg/pagination"
	"shopledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	invoices := router.Group("/api/invoices")
	invoices.Use(auth.RequireRole(middleware.RoleOwner, middleware.RoleStaff))
	{
		invoices.POST("", h.CreateInvoice)
		invoices.GET("", h.ListInvoices)
		invoices.GET("/:number", h.GetInvoice)
		invoices.GET("/:number/pdf", h.DownloadInvoicePDF)
	}
}

// CreateInvoice bills a customer, deducts stock and opens a pending balance
// @Summary      Create invoice
// @Description  Computes line totals, stamps the next invoice number and records the sale
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateInvoiceRequest  true  "Create Invoice Payload"
// @Success      201      {object}  response.Response{data=model.Invoice}
// @Failure      400      {object}  response.Response
// @Router       /api/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// ListInvoices returns invoices newest first
// @Summary      List invoices
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        customer  query     string  false  "Exact customer name"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Number of items per page (default 20)"
// @Success      200       {object}  response.Response{data=response.Page}
// @Router       /api/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	p := pagination.Parse(c)
	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), service.InvoiceFilter{
		Customer: c.Query("customer"),
		Page:     p.Page,
		Limit:    p.Limit,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, invoices, total, p.Page, p.Limit))
}

// GetInvoice
// @Summary      Get invoice
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        number  path      string  true  "Invoice number, e.g. INV-001"
// @Success      200     {object}  response.Response{data=model.Invoice}
// @Failure      404     {object}  response.Response
// @Router       /api/invoices/{number} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("number"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// DownloadInvoicePDF
// @Summary      Download invoice PDF
// @Tags         invoices
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        number  path  string  true  "Invoice number"
// @Success      200     {file}    file
// @Failure      404     {object}  response.Response
// @Router       /api/invoices/{number}/pdf [get]
func (h *InvoiceHandler) DownloadInvoicePDF(c *gin.Context) {
	number := c.Param("number")
	pdf, err := h.invoiceService.RenderInvoicePDF(c.Request.Context(), number)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+number+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
