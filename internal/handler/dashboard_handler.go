package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmaalouf1/pm-tracker/internal/service"
)

type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, summary)
}

func (h *DashboardHandler) TermsByStatus(c *gin.Context) {
	counts, err := h.svc.TermsByStatus(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, counts)
}

func (h *DashboardHandler) Upcoming(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	terms, err := h.svc.Upcoming(c.Request.Context(), days, limit)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, terms)
}
