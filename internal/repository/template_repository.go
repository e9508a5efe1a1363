package repository

import (
	"context"

	"github.com/jmaalouf1/pm-tracker/internal/entity"
	"gorm.io/gorm"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(ctx context.Context, t *entity.TermTemplate) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*entity.TermTemplate, error) {
	var t entity.TermTemplate
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Where("id = ?", id).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepository) List(ctx context.Context) ([]entity.TermTemplate, error) {
	var templates []entity.TermTemplate
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Where("is_active = ?", true).Order("name").
		Find(&templates).Error
	return templates, err
}

// Replace swaps a template's items atomically together with its header fields.
func (r *TemplateRepository) Replace(ctx context.Context, t *entity.TermTemplate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", t.ID).Delete(&entity.TermTemplateItem{}).Error; err != nil {
			return err
		}
		return tx.Save(t).Error
	})
}

func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).Delete(&entity.TermTemplateItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.TermTemplate{}).Error
	})
}
