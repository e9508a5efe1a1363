package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmaalouf1/pm-tracker/internal/repository"
	"github.com/jmaalouf1/pm-tracker/internal/service"
)

type TermHandler struct {
	svc         *service.TermService
	templateSvc *service.TemplateService
}

func NewTermHandler(svc *service.TermService, templateSvc *service.TemplateService) *TermHandler {
	return &TermHandler{svc: svc, templateSvc: templateSvc}
}

// List GET /projects/:id/terms
func (h *TermHandler) List(c *gin.Context) {
	terms, err := h.svc.ListTerms(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, terms)
}

// Replace PUT /projects/:id/terms
//
// The request body is the complete new schedule. Nothing is kept from the old
// one; sequence numbers are reassigned from the body order.
func (h *TermHandler) Replace(c *gin.Context) {
	var candidates []service.TermCandidate
	if err := c.ShouldBindJSON(&candidates); err != nil {
		BadRequest(c, err.Error())
		return
	}
	terms, err := h.svc.ReplaceTerms(c.Request.Context(), c.Param("id"), candidates)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, terms)
}

type generateRequest struct {
	TemplateID string `json:"template_id" binding:"required"`
	Apply      bool   `json:"apply"`
}

// Generate POST /projects/:id/terms/generate
//
// Expands a named template against the project's contract value. Without
// apply the expansion is a preview only; with apply it replaces the schedule.
func (h *TermHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	projectID := c.Param("id")
	candidates, err := h.templateSvc.Expand(c.Request.Context(), projectID, req.TemplateID)
	if err != nil {
		Fail(c, err)
		return
	}
	if !req.Apply {
		Success(c, gin.H{"candidates": candidates, "applied": false})
		return
	}
	terms, err := h.svc.ReplaceTerms(c.Request.Context(), projectID, candidates)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"terms": terms, "applied": true})
}

type termStatusRequest struct {
	StatusID *string `json:"status_id"`
}

// UpdateStatus PATCH /terms/:id/status
func (h *TermHandler) UpdateStatus(c *gin.Context) {
	var req termStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := h.svc.UpdateTermStatus(c.Request.Context(), c.Param("id"), req.StatusID); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}

func searchParams(c *gin.Context) repository.TermSearchParams {
	return repository.TermSearchParams{
		ProjectID:  c.Query("project_id"),
		CustomerID: c.Query("customer_id"),
		StatusID:   c.Query("status_id"),
		Keyword:    c.Query("keyword"),
	}
}

// Search GET /terms
func (h *TermHandler) Search(c *gin.Context) {
	rows, err := h.svc.SearchTerms(c.Request.Context(), searchParams(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, rows)
}

// Export GET /terms/export
func (h *TermHandler) Export(c *gin.Context) {
	f, err := h.svc.ExportTerms(c.Request.Context(), searchParams(c))
	if err != nil {
		Fail(c, err)
		return
	}
	defer f.Close()

	filename := "payment_terms_" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}
