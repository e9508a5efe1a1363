package service

import (
	"context"
	"time"

	"github.com/jmaalouf1/pm-tracker/internal/entity"
	"github.com/jmaalouf1/pm-tracker/internal/repository"
	"github.com/shopspring/decimal"
)

// ProjectService covers the project CRUD surface. Creation lives on
// TermService because a project may be born with an initial term set in the
// same transaction.
type ProjectService struct {
	repo *repository.ProjectRepository
}

func NewProjectService(repo *repository.ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

func (s *ProjectService) List(ctx context.Context, params repository.ProjectListParams) ([]entity.Project, int64, error) {
	return s.repo.List(ctx, params)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*entity.Project, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("project", id, err)
	}
	return p, nil
}

type UpdateProjectRequest struct {
	Code            *string          `json:"code"`
	Name            *string          `json:"name"`
	CustomerID      *string          `json:"customer_id"`
	Description     *string          `json:"description"`
	ContractValue   *decimal.Decimal `json:"contract_value"`
	Currency        *string          `json:"currency"`
	SegmentID       *string          `json:"segment_id"`
	ServiceLineID   *string          `json:"service_line_id"`
	PartnerID       *string          `json:"partner_id"`
	StatusID        *string          `json:"status_id"`
	POStatusID      *string          `json:"po_status_id"`
	InvoiceStatusID *string          `json:"invoice_status_id"`
	StartDate       *time.Time       `json:"start_date"`
	EndDate         *time.Time       `json:"end_date"`
}

func (s *ProjectService) Update(ctx context.Context, id string, req *UpdateProjectRequest) (*entity.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("project", id, err)
	}
	if req.ContractValue != nil && req.ContractValue.Sign() < 0 {
		return nil, &ValidationError{Message: "contract value must not be negative"}
	}
	if req.Code != nil {
		project.Code = *req.Code
	}
	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.CustomerID != nil {
		project.CustomerID = *req.CustomerID
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.ContractValue != nil {
		project.ContractValue = req.ContractValue.Round(2)
	}
	if req.Currency != nil {
		project.Currency = *req.Currency
	}
	if req.SegmentID != nil {
		project.SegmentID = req.SegmentID
	}
	if req.ServiceLineID != nil {
		project.ServiceLineID = req.ServiceLineID
	}
	if req.PartnerID != nil {
		project.PartnerID = req.PartnerID
	}
	if req.StatusID != nil {
		project.StatusID = req.StatusID
	}
	if req.POStatusID != nil {
		project.POStatusID = req.POStatusID
	}
	if req.InvoiceStatusID != nil {
		project.InvoiceStatusID = req.InvoiceStatusID
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}
	// Customer is stale after field changes; drop the preload.
	project.Customer = nil
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, storageErr("update project", err)
	}
	return project, nil
}

// FinancePatchRequest restricts the finance role to status references.
type FinancePatchRequest struct {
	POStatusID      *string `json:"po_status_id"`
	InvoiceStatusID *string `json:"invoice_status_id"`
}

func (s *ProjectService) FinancePatch(ctx context.Context, id string, req *FinancePatchRequest) (*entity.Project, error) {
	if req.POStatusID == nil && req.InvoiceStatusID == nil {
		return nil, &ValidationError{Message: "no finance changes"}
	}
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("project", id, err)
	}
	if req.POStatusID != nil {
		project.POStatusID = req.POStatusID
	}
	if req.InvoiceStatusID != nil {
		project.InvoiceStatusID = req.InvoiceStatusID
	}
	project.Customer = nil
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, storageErr("finance patch", err)
	}
	return project, nil
}
