package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmaalouf1/pm-tracker/internal/entity"
	"github.com/jmaalouf1/pm-tracker/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TermService is the payment-term reconciliation engine. Every write it
// performs is all-or-nothing: the interactive edit path replaces a project's
// whole term set inside one transaction, and validation always finishes
// before the first mutation.
type TermService struct {
	db          *gorm.DB
	projectRepo *repository.ProjectRepository
	termRepo    *repository.TermRepository
	lookupRepo  *repository.LookupRepository
	logger      *zap.Logger
}

func NewTermService(db *gorm.DB, projectRepo *repository.ProjectRepository, termRepo *repository.TermRepository, lookupRepo *repository.LookupRepository, logger *zap.Logger) *TermService {
	return &TermService{
		db:          db,
		projectRepo: projectRepo,
		termRepo:    termRepo,
		lookupRepo:  lookupRepo,
		logger:      logger,
	}
}

// ReplaceTerms swaps the project's entire term set for the candidates, in
// order, with sequence numbers reassigned from 1. The project's contract
// value is authoritative for derived amounts. Returns the persisted set.
func (s *TermService) ReplaceTerms(ctx context.Context, projectID string, candidates []TermCandidate) ([]entity.ProjectTerm, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, notFound("project", projectID, err)
	}

	resolved, verr := ValidateTermSet(candidates, project.ContractValue)
	if verr != nil {
		return nil, verr
	}

	terms := buildTerms(projectID, resolved)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&entity.ProjectTerm{}).Error; err != nil {
			return err
		}
		for i := range terms {
			if err := tx.Create(&terms[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("replace terms", err)
	}

	s.logger.Info("replaced project terms",
		zap.String("project_id", projectID),
		zap.Int("count", len(terms)),
	)
	return terms, nil
}

// ListTerms returns the project's terms in schedule order.
func (s *TermService) ListTerms(ctx context.Context, projectID string) ([]entity.ProjectTerm, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, notFound("project", projectID, err)
	}
	return s.termRepo.ListByProject(ctx, projectID)
}

// CreateProjectRequest mirrors the project columns the API accepts.
type CreateProjectRequest struct {
	Code            string          `json:"code"`
	Name            string          `json:"name" binding:"required"`
	CustomerID      string          `json:"customer_id" binding:"required"`
	Description     string          `json:"description"`
	ContractValue   decimal.Decimal `json:"contract_value"`
	Currency        string          `json:"currency"`
	SegmentID       *string         `json:"segment_id"`
	ServiceLineID   *string         `json:"service_line_id"`
	PartnerID       *string         `json:"partner_id"`
	StatusID        *string         `json:"status_id"`
	POStatusID      *string         `json:"po_status_id"`
	InvoiceStatusID *string         `json:"invoice_status_id"`
	StartDate       *time.Time      `json:"start_date"`
	EndDate         *time.Time      `json:"end_date"`
	Terms           []TermCandidate `json:"terms"`
}

// CreateProject inserts the project and, when initial terms are supplied,
// persists them in the same transaction: the project is never observable
// with an invalid term set.
func (s *TermService) CreateProject(ctx context.Context, req *CreateProjectRequest, createdBy string) (*entity.Project, []entity.ProjectTerm, error) {
	if req.ContractValue.Sign() < 0 {
		return nil, nil, &ValidationError{Message: "contract value must not be negative"}
	}
	var customer entity.Customer
	if err := s.db.WithContext(ctx).Where("id = ?", req.CustomerID).First(&customer).Error; err != nil {
		return nil, nil, notFound("customer", req.CustomerID, err)
	}
	if _, err := s.projectRepo.FindByName(ctx, req.Name); err == nil {
		return nil, nil, &ConflictError{Entity: "project", Key: req.Name}
	}

	currency := req.Currency
	if currency == "" {
		currency = "SAR"
	}
	project := &entity.Project{
		ID:              uuid.New().String(),
		Code:            req.Code,
		Name:            req.Name,
		CustomerID:      req.CustomerID,
		Description:     req.Description,
		ContractValue:   req.ContractValue.Round(2),
		Currency:        currency,
		SegmentID:       req.SegmentID,
		ServiceLineID:   req.ServiceLineID,
		PartnerID:       req.PartnerID,
		StatusID:        req.StatusID,
		POStatusID:      req.POStatusID,
		InvoiceStatusID: req.InvoiceStatusID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		CreatedBy:       createdBy,
	}

	var terms []entity.ProjectTerm
	if len(req.Terms) > 0 {
		resolved, verr := ValidateTermSet(req.Terms, project.ContractValue)
		if verr != nil {
			return nil, nil, verr
		}
		terms = buildTerms(project.ID, resolved)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		for i := range terms {
			if err := tx.Create(&terms[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, storageErr("create project", err)
	}

	s.logger.Info("created project",
		zap.String("project_id", project.ID),
		zap.String("name", project.Name),
		zap.Int("terms", len(terms)),
	)
	return project, terms, nil
}

// UpdateTermStatus patches a single term's status reference.
func (s *TermService) UpdateTermStatus(ctx context.Context, termID string, statusID *string) error {
	term, err := s.termRepo.FindByID(ctx, termID)
	if err != nil {
		return notFound("term", termID, err)
	}
	if statusID != nil {
		if _, err := s.lookupRepo.FindStatusByID(ctx, *statusID); err != nil {
			return notFound("status", *statusID, err)
		}
	}
	term.StatusID = statusID
	if err := s.termRepo.Update(ctx, term); err != nil {
		return storageErr("update term status", err)
	}
	return nil
}

// SearchTerms spans all projects, filtered by project, customer, status and
// free text over the description.
func (s *TermService) SearchTerms(ctx context.Context, params repository.TermSearchParams) ([]repository.TermWithProject, error) {
	return s.termRepo.Search(ctx, params)
}

// ExportTerms writes the current search result as a workbook, one term per
// row, in the same column layout the import accepts.
func (s *TermService) ExportTerms(ctx context.Context, params repository.TermSearchParams) (*excelize.File, error) {
	rows, err := s.termRepo.Search(ctx, params)
	if err != nil {
		return nil, storageErr("export terms", err)
	}

	f := excelize.NewFile()
	const sheet = "PaymentTerms"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"project", "customer", "seq", "description", "percent", "amount", "status", "due_date", "notes"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for i, row := range rows {
		status := ""
		if row.StatusID != nil {
			if st, err := s.lookupRepo.FindStatusByID(ctx, *row.StatusID); err == nil {
				status = st.Name
			}
		}
		due := ""
		if row.DueDate != nil {
			due = row.DueDate.Format("2006-01-02")
		}
		values := []interface{}{
			row.ProjectName,
			row.CustomerName,
			row.Seq,
			row.Description,
			row.Percent.InexactFloat64(),
			row.Amount.InexactFloat64(),
			status,
			due,
			row.Notes,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}
	return f, nil
}

// buildTerms materializes resolved candidates as rows with dense 1-based
// sequence numbers in save order.
func buildTerms(projectID string, resolved []ResolvedTerm) []entity.ProjectTerm {
	terms := make([]entity.ProjectTerm, len(resolved))
	for i, rt := range resolved {
		terms[i] = entity.ProjectTerm{
			ID:             uuid.New().String(),
			ProjectID:      projectID,
			Seq:            i + 1,
			Description:    rt.Description,
			Percent:        rt.Percent,
			Amount:         rt.Amount,
			AmountExplicit: rt.AmountExplicit,
			StatusID:       rt.StatusID,
			DueDate:        rt.DueDate,
			Notes:          rt.Notes,
		}
	}
	return terms
}
