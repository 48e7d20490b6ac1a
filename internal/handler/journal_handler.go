package handler

import (
	"net/http"

	"shopledger/internal/middleware"
	"shopledger/internal/service"
	"shopledger/pkg/pagination"
	"shopledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type JournalHandler struct {
	journalService service.JournalService
}

func NewJournalHandler(journalService service.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

func (h *JournalHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	group := router.Group("/api/events")
	group.Use(auth.RequireRole(middleware.RoleOwner)) // journal is owner-only
	{
		group.GET("", h.ListEvents)
	}
}

// ListEvents pages through the event journal
// @Summary      List journaled events
// @Description  Every applied event in dispatch order, newest first
// @Tags         journal
// @Security     BearerAuth
// @Produce      json
// @Param        kind   query     string  false  "Event kind, e.g. CREATE_INVOICE"
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=response.Page}
// @Failure      400    {object}  response.Response
// @Router       /api/events [get]
func (h *JournalHandler) ListEvents(c *gin.Context) {
	p := pagination.Parse(c)
	events, total, err := h.journalService.ListEvents(c.Request.Context(), c.Query("kind"), p.Page, p.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paged(http.StatusOK, events, total, p.Page, p.Limit))
}
