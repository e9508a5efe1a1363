package repository

import (
	"context"

	"github.com/jmaalouf1/pm-tracker/internal/entity"
	"gorm.io/gorm"
)

type TermRepository struct {
	db *gorm.DB
}

func NewTermRepository(db *gorm.DB) *TermRepository {
	return &TermRepository{db: db}
}

// ListByProject returns the project's terms in schedule order.
func (r *TermRepository) ListByProject(ctx context.Context, projectID string) ([]entity.ProjectTerm, error) {
	var terms []entity.ProjectTerm
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("seq").
		Find(&terms).Error
	return terms, err
}

func (r *TermRepository) FindByID(ctx context.Context, id string) (*entity.ProjectTerm, error) {
	var t entity.ProjectTerm
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TermRepository) Update(ctx context.Context, t *entity.ProjectTerm) error {
	return r.db.WithContext(ctx).Save(t).Error
}

type TermSearchParams struct {
	ProjectID  string
	CustomerID string
	StatusID   string
	Keyword    string
}

// TermWithProject is a search row joined with its project and customer names.
type TermWithProject struct {
	entity.ProjectTerm
	ProjectName  string `json:"project_name"`
	CustomerName string `json:"customer_name"`
}

// Search spans projects; used by the terms admin screen.
func (r *TermRepository) Search(ctx context.Context, params TermSearchParams) ([]TermWithProject, error) {
	query := r.db.WithContext(ctx).Model(&entity.ProjectTerm{}).
		Select("project_terms.*, projects.name AS project_name, customers.name AS customer_name").
		Joins("JOIN projects ON projects.id = project_terms.project_id").
		Joins("LEFT JOIN customers ON customers.id = projects.customer_id")
	if params.ProjectID != "" {
		query = query.Where("project_terms.project_id = ?", params.ProjectID)
	}
	if params.CustomerID != "" {
		query = query.Where("projects.customer_id = ?", params.CustomerID)
	}
	if params.StatusID != "" {
		query = query.Where("project_terms.status_id = ?", params.StatusID)
	}
	if params.Keyword != "" {
		query = query.Where("project_terms.description LIKE ?", "%"+params.Keyword+"%")
	}
	var rows []TermWithProject
	err := query.Order("project_terms.project_id, project_terms.seq").Find(&rows).Error
	return rows, err
}
