package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmaalouf1/pm-tracker/internal/entity"
	"gorm.io/gorm"
)

// LookupRepository serves the small reference tables: statuses, segments,
// service lines and partners.
type LookupRepository struct {
	db *gorm.DB
}

func NewLookupRepository(db *gorm.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

// EnsureStatus returns the id of the (type, name) status, inserting it when
// absent. Works inside an enclosing transaction when tx is passed.
func (r *LookupRepository) EnsureStatus(ctx context.Context, tx *gorm.DB, statusType, name string) (*string, error) {
	if name == "" {
		return nil, nil
	}
	if tx == nil {
		tx = r.db
	}
	var st entity.Status
	err := tx.WithContext(ctx).Where("type = ? AND name = ?", statusType, name).First(&st).Error
	if err == nil {
		return &st.ID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	st = entity.Status{ID: uuid.New().String(), Type: statusType, Name: name, IsActive: true}
	if err := tx.WithContext(ctx).Create(&st).Error; err != nil {
		return nil, err
	}
	return &st.ID, nil
}

func (r *LookupRepository) ListStatuses(ctx context.Context, statusType string) ([]entity.Status, error) {
	query := r.db.WithContext(ctx).Model(&entity.Status{}).Where("is_active = ?", true)
	if statusType != "" {
		query = query.Where("type = ?", statusType)
	}
	var statuses []entity.Status
	err := query.Order("type, name").Find(&statuses).Error
	return statuses, err
}

func (r *LookupRepository) FindStatusByID(ctx context.Context, id string) (*entity.Status, error) {
	var st entity.Status
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&st).Error
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// --- Segments / service lines / partners ---
// Same shape three times; generics would obscure more than they save here.

func (r *LookupRepository) EnsureSegment(ctx context.Context, tx *gorm.DB, name string) (*string, error) {
	if name == "" {
		return nil, nil
	}
	if tx == nil {
		tx = r.db
	}
	var seg entity.Segment
	err := tx.WithContext(ctx).Where("name = ?", name).First(&seg).Error
	if err == nil {
		return &seg.ID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	seg = entity.Segment{ID: uuid.New().String(), Name: name, IsActive: true}
	if err := tx.WithContext(ctx).Create(&seg).Error; err != nil {
		return nil, err
	}
	return &seg.ID, nil
}

func (r *LookupRepository) EnsureServiceLine(ctx context.Context, tx *gorm.DB, name string) (*string, error) {
	if name == "" {
		return nil, nil
	}
	if tx == nil {
		tx = r.db
	}
	var sl entity.ServiceLine
	err := tx.WithContext(ctx).Where("name = ?", name).First(&sl).Error
	if err == nil {
		return &sl.ID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	sl = entity.ServiceLine{ID: uuid.New().String(), Name: name, IsActive: true}
	if err := tx.WithContext(ctx).Create(&sl).Error; err != nil {
		return nil, err
	}
	return &sl.ID, nil
}

func (r *LookupRepository) EnsurePartner(ctx context.Context, tx *gorm.DB, name string) (*string, error) {
	if name == "" {
		return nil, nil
	}
	if tx == nil {
		tx = r.db
	}
	var p entity.Partner
	err := tx.WithContext(ctx).Where("name = ?", name).First(&p).Error
	if err == nil {
		return &p.ID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	p = entity.Partner{ID: uuid.New().String(), Name: name, IsActive: true}
	if err := tx.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	return &p.ID, nil
}

func (r *LookupRepository) ListSegments(ctx context.Context) ([]entity.Segment, error) {
	var items []entity.Segment
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&items).Error
	return items, err
}

func (r *LookupRepository) ListServiceLines(ctx context.Context) ([]entity.ServiceLine, error) {
	var items []entity.ServiceLine
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&items).Error
	return items, err
}

func (r *LookupRepository) ListPartners(ctx context.Context) ([]entity.Partner, error) {
	var items []entity.Partner
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&items).Error
	return items, err
}
