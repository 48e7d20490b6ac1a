package handler

import (
	"net/http"

	"shopledger/internal/middleware"
	"shopledger/internal/service"
	"shopledger/pkg/pagination"
	"shopledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type QuotationHandler struct {
	quotationService service.QuotationService
}

func NewQuotationHandler(quotationService service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

func (h *QuotationHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	quotations := router.Group("/api/quotations")
	quotations.Use(auth.RequireRole(middleware.RoleOwner, middleware.RoleStaff))
	{
		quotations.POST("", h.CreateQuotation)
		quotations.GET("", h.ListQuotations)
		quotations.GET("/:number", h.GetQuotation)
		quotations.GET("/:number/pdf", h.DownloadQuotationPDF)
	}
}

// CreateQuotation
// @Summary      Create quotation
// @Description  Drafts a priced quotation. Stock and balances are not touched
// @Tags         quotations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateQuotationRequest  true  "Create Quotation Payload"
// @Success      201      {object}  response.Response{data=model.Quotation}
// @Failure      400      {object}  response.Response
// @Router       /api/quotations [post]
func (h *QuotationHandler) CreateQuotation(c *gin.Context) {
	var req service.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	quotation, err := h.quotationService.CreateQuotation(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, quotation))
}

// ListQuotations
// @Summary      List quotations
// @Tags         quotations
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=response.Page}
// @Router       /api/quotations [get]
func (h *QuotationHandler) ListQuotations(c *gin.Context) {
	p := pagination.Parse(c)
	quotations, total, err := h.quotationService.ListQuotations(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paged(http.StatusOK, quotations, total, p.Page, p.Limit))
}

// GetQuotation
// @Summary      Get quotation
// @Tags         quotations
// @Security     BearerAuth
// @Produce      json
// @Param        number  path      string  true  "Quotation number, e.g. QT-001"
// @Success      200     {object}  response.Response{data=model.Quotation}
// @Failure      404     {object}  response.Response
// @Router       /api/quotations/{number} [get]
func (h *QuotationHandler) GetQuotation(c *gin.Context) {
	quotation, err := h.quotationService.GetQuotation(c.Request.Context(), c.Param("number"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, quotation))
}

// DownloadQuotationPDF
// @Summary      Download quotation PDF
// @Tags         quotations
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        number  path  string  true  "Quotation number"
// @Success      200     {file}    file
// @Failure      404     {object}  response.Response
// @Router       /api/quotations/{number}/pdf [get]
func (h *QuotationHandler) DownloadQuotationPDF(c *gin.Context) {
	number := c.Param("number")
	pdf, err := h.quotationService.RenderQuotationPDF(c.Request.Context(), number)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+number+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
