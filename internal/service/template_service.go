package service

import (
	"context"
	"fmt"

	"github.com/Knetic/govaluate"
	"github.com/google/uuid"
	"github.com/jmaalouf1/pm-tracker/internal/entity"
	"github.com/jmaalouf1/pm-tracker/internal/money"
	"github.com/jmaalouf1/pm-tracker/internal/repository"
	"github.com/shopspring/decimal"
)

// TemplateService manages reusable payment schedules and expands them into
// term candidates for a concrete project.
type TemplateService struct {
	repo        *repository.TemplateRepository
	projectRepo *repository.ProjectRepository
}

func NewTemplateService(repo *repository.TemplateRepository, projectRepo *repository.ProjectRepository) *TemplateService {
	return &TemplateService{repo: repo, projectRepo: projectRepo}
}

type TemplateItemInput struct {
	Description    string `json:"description" binding:"required"`
	PercentFormula string `json:"percent_formula" binding:"required"`
	DueOffsetDays  int    `json:"due_offset_days"`
}

type SaveTemplateRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	Items       []TemplateItemInput `json:"items" binding:"required"`
}

func (s *TemplateService) List(ctx context.Context) ([]entity.TermTemplate, error) {
	return s.repo.List(ctx)
}

func (s *TemplateService) Create(ctx context.Context, req *SaveTemplateRequest) (*entity.TermTemplate, error) {
	if verr := checkFormulas(req.Items); verr != nil {
		return nil, verr
	}
	tpl := &entity.TermTemplate{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	for i, item := range req.Items {
		tpl.Items = append(tpl.Items, entity.TermTemplateItem{
			ID:             uuid.New().String(),
			TemplateID:     tpl.ID,
			Seq:            i + 1,
			Description:    item.Description,
			PercentFormula: item.PercentFormula,
			DueOffsetDays:  item.DueOffsetDays,
		})
	}
	if err := s.repo.Create(ctx, tpl); err != nil {
		return nil, storageErr("create template", err)
	}
	return tpl, nil
}

func (s *TemplateService) Update(ctx context.Context, id string, req *SaveTemplateRequest) (*entity.TermTemplate, error) {
	tpl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("template", id, err)
	}
	if verr := checkFormulas(req.Items); verr != nil {
		return nil, verr
	}
	tpl.Name = req.Name
	tpl.Description = req.Description
	tpl.Items = nil
	for i, item := range req.Items {
		tpl.Items = append(tpl.Items, entity.TermTemplateItem{
			ID:             uuid.New().String(),
			TemplateID:     tpl.ID,
			Seq:            i + 1,
			Description:    item.Description,
			PercentFormula: item.PercentFormula,
			DueOffsetDays:  item.DueOffsetDays,
		})
	}
	if err := s.repo.Replace(ctx, tpl); err != nil {
		return nil, storageErr("update template", err)
	}
	return tpl, nil
}

func (s *TemplateService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound("template", id, err)
	}
	return s.repo.Delete(ctx, id)
}

// Expand evaluates the template's installment formulas against the project's
// contract value and returns term candidates ready for ReplaceTerms. The
// formula variable `total` is the contract value as a float.
func (s *TemplateService) Expand(ctx context.Context, projectID, templateID string) ([]TermCandidate, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, notFound("project", projectID, err)
	}
	tpl, err := s.repo.FindByID(ctx, templateID)
	if err != nil {
		return nil, notFound("template", templateID, err)
	}

	total, _ := project.ContractValue.Float64()
	params := map[string]interface{}{"total": total}

	candidates := make([]TermCandidate, 0, len(tpl.Items))
	for _, item := range tpl.Items {
		expr, err := govaluate.NewEvaluableExpression(item.PercentFormula)
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("bad formula %q: %v", item.PercentFormula, err)}
		}
		result, err := expr.Evaluate(params)
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("formula %q failed: %v", item.PercentFormula, err)}
		}
		value, ok := result.(float64)
		if !ok {
			return nil, &ValidationError{Message: fmt.Sprintf("formula %q is not numeric", item.PercentFormula)}
		}
		percent := money.ClampPercent(decimal.NewFromFloat(value).Round(2))

		candidate := TermCandidate{
			Description: item.Description,
			Percent:     &percent,
		}
		if item.DueOffsetDays > 0 && project.StartDate != nil {
			due := project.StartDate.AddDate(0, 0, item.DueOffsetDays)
			candidate.DueDate = &due
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

func checkFormulas(items []TemplateItemInput) *ValidationError {
	var rowErrs []RowError
	for i, item := range items {
		if _, err := govaluate.NewEvaluableExpression(item.PercentFormula); err != nil {
			rowErrs = append(rowErrs, RowError{Index: i, Field: "percent_formula", Reason: err.Error()})
		}
	}
	if len(rowErrs) > 0 {
		return &ValidationError{Message: "invalid template items", Rows: rowErrs}
	}
	return nil
}
