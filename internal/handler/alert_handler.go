package handler

import (
	"net/http"

	"shopledger/internal/middleware"
	"shopledger/internal/service"
	"shopledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	alertService service.AlertService
}

func NewAlertHandler(alertService service.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

func (h *AlertHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	anyRole := auth.RequireRole(middleware.RoleOwner, middleware.RoleStaff)
	router.GET("/api/alerts", anyRole, h.ListAlerts)

	reminders := router.Group("/api/reminders")
	reminders.Use(anyRole)
	{
		reminders.POST("", h.AddReminder)
		reminders.DELETE("", h.ClearReminders)
	}
}

// ListAlerts
// @Summary      List alerts
// @Description  Overdue payments, exceeded limits and reminders, newest first
// @Tags         alerts
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Alert}
// @Router       /api/alerts [get]
func (h *AlertHandler) ListAlerts(c *gin.Context) {
	alerts, err := h.alertService.Alerts(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, alerts))
}

// AddReminder
// @Summary      Add reminder
// @Tags         alerts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AddReminderRequest  true  "Reminder"
// @Success      201      {object}  response.Response{data=model.Reminder}
// @Failure      400      {object}  response.Response
// @Router       /api/reminders [post]
func (h *AlertHandler) AddReminder(c *gin.Context) {
	var req service.AddReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	reminder, err := h.alertService.AddReminder(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, reminder))
}

// ClearReminders
// @Summary      Clear reminders
// @Tags         alerts
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/reminders [delete]
func (h *AlertHandler) ClearReminders(c *gin.Context) {
	cleared, err := h.alertService.ClearReminders(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"cleared": cleared}))
}
