package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jmaalouf1/pm-tracker/internal/entity"
	"github.com/jmaalouf1/pm-tracker/internal/service"
)

type LookupHandler struct {
	svc *service.LookupService
}

func NewLookupHandler(svc *service.LookupService) *LookupHandler {
	return &LookupHandler{svc: svc}
}

func (h *LookupHandler) ListStatuses(c *gin.Context) {
	statusType := c.DefaultQuery("type", entity.StatusTypeProject)
	statuses, err := h.svc.ListStatuses(c.Request.Context(), statusType)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, statuses)
}

type ensureStatusRequest struct {
	Type string `json:"type" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// EnsureStatus inserts the status if it is new and returns the existing row
// otherwise, so clients can offer free-form values without duplicate checks.
func (h *LookupHandler) EnsureStatus(c *gin.Context) {
	var req ensureStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	status, err := h.svc.EnsureStatus(c.Request.Context(), req.Type, req.Name)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, status)
}

type ensureNameRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *LookupHandler) ListSegments(c *gin.Context) {
	segments, err := h.svc.ListSegments(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, segments)
}

func (h *LookupHandler) EnsureSegment(c *gin.Context) {
	var req ensureNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	id, err := h.svc.EnsureSegment(c.Request.Context(), req.Name)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"id": id, "name": req.Name})
}

func (h *LookupHandler) ListServiceLines(c *gin.Context) {
	lines, err := h.svc.ListServiceLines(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, lines)
}

func (h *LookupHandler) EnsureServiceLine(c *gin.Context) {
	var req ensureNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	id, err := h.svc.EnsureServiceLine(c.Request.Context(), req.Name)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"id": id, "name": req.Name})
}

func (h *LookupHandler) ListPartners(c *gin.Context) {
	partners, err := h.svc.ListPartners(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, partners)
}

func (h *LookupHandler) EnsurePartner(c *gin.Context) {
	var req ensureNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	id, err := h.svc.EnsurePartner(c.Request.Context(), req.Name)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"id": id, "name": req.Name})
}
