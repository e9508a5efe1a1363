package repository

import (
	"context"

	"github.com/jmaalouf1/pm-tracker/internal/entity"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, p *entity.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*entity.Project, error) {
	var p entity.Project
	err := r.db.WithContext(ctx).Preload("Customer").Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) FindByName(ctx context.Context, name string) (*entity.Project, error) {
	var p entity.Project
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *entity.Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}

type ProjectListParams struct {
	Keyword    string
	CustomerID string
	StatusID   string
	Page       int
	Size       int
}

func (r *ProjectRepository) List(ctx context.Context, params ProjectListParams) ([]entity.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Project{})
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", kw, kw)
	}
	if params.CustomerID != "" {
		query = query.Where("customer_id = ?", params.CustomerID)
	}
	if params.StatusID != "" {
		query = query.Where("status_id = ?", params.StatusID)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var projects []entity.Project
	err := query.Preload("Customer").Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&projects).Error
	return projects, total, err
}
