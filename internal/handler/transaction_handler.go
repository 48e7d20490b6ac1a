package handler

import (
	"bytes"
	"net/http"

	"shopledger/internal/middleware"
	"shopledger/internal/service"
	"shopledger/pkg/pagination"
	"shopledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	transactionService service.TransactionService
	now                service.Clock
}

func NewTransactionHandler(transactionService service.TransactionService, now service.Clock) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, now: now}
}

func (h *TransactionHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	transactions := router.Group("/api/transactions")
	transactions.Use(auth.RequireRole(middleware.RoleOwner, middleware.RoleStaff))
	{
		transactions.POST("", h.AddTransaction)
		transactions.GET("", h.ListTransactions)
		transactions.GET("/summary", h.Summary)
		transactions.GET("/export", h.ExportCSV)
	}
}

// AddTransaction records a payment received in cash or online
// @Summary      Add transaction
// @Tags         transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AddTransactionRequest  true  "Transaction"
// @Success      201      {object}  response.Response{data=service.TransactionRow}
// @Failure      400      {object}  response.Response
// @Router       /api/transactions [post]
func (h *TransactionHandler) AddTransaction(c *gin.Context) {
	var req service.AddTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	row, err := h.transactionService.AddTransaction(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, row))
}

// ListTransactions
// @Summary      List transactions
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        type   query     string  false  "cash or online"
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=response.Page}
// @Failure      400    {object}  response.Response
// @Router       /api/transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	p := pagination.Parse(c)
	rows, total, err := h.transactionService.ListTransactions(c.Request.Context(), c.Query("type"), p.Page, p.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paged(http.StatusOK, rows, total, p.Page, p.Limit))
}

// Summary
// @Summary      Transaction totals
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.TransactionSummary}
// @Router       /api/transactions/summary [get]
func (h *TransactionHandler) Summary(c *gin.Context) {
	summary, err := h.transactionService.Summary(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// ExportCSV
// @Summary      Export transactions
// @Description  Both ledgers as CSV with the columns Type,Amount,Details,Date
// @Tags         transactions
// @Security     BearerAuth
// @Produce      text/csv
// @Success      200  {file}  file
// @Router       /api/transactions/export [get]
func (h *TransactionHandler) ExportCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.transactionService.ExportCSV(c.Request.Context(), &buf); err != nil {
		abortWithError(c, err)
		return
	}
	filename := "transactions_" + h.now().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
