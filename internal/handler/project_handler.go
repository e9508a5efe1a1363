package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jmaalouf1/pm-tracker/internal/repository"
	"github.com/jmaalouf1/pm-tracker/internal/service"
)

type ProjectHandler struct {
	svc     *service.ProjectService
	termSvc *service.TermService
}

func NewProjectHandler(svc *service.ProjectService, termSvc *service.TermService) *ProjectHandler {
	return &ProjectHandler{svc: svc, termSvc: termSvc}
}

func (h *ProjectHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	params := repository.ProjectListParams{
		Keyword:    c.Query("keyword"),
		CustomerID: c.Query("customer_id"),
		StatusID:   c.Query("status_id"),
		Page:       page,
		Size:       pageSize,
	}
	projects, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, ListResponse{Items: projects, Pagination: NewPagination(page, pageSize, total)})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, project)
}

// Create inserts a project together with its initial term schedule. Both land
// in one transaction, so a rejected schedule leaves no project behind.
func (h *ProjectHandler) Create(c *gin.Context) {
	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	project, terms, err := h.termSvc.CreateProject(c.Request.Context(), &req, GetUserID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, gin.H{"project": project, "terms": terms})
}

func (h *ProjectHandler) Update(c *gin.Context) {
	var req service.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	project, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, project)
}

// FinancePatch is the finance-role surface: PO and invoice status only.
func (h *ProjectHandler) FinancePatch(c *gin.Context) {
	var req service.FinancePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	project, err := h.svc.FinancePatch(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, project)
}
