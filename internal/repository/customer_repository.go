package repository

import (
	"context"

	"github.com/jmaalouf1/pm-tracker/internal/entity"
	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c *entity.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*entity.Customer, error) {
	var c entity.Customer
	err := r.db.WithContext(ctx).Preload("Contacts").Where("id = ?", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) FindByName(ctx context.Context, name string) (*entity.Customer, error) {
	var c entity.Customer
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *entity.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

type CustomerListParams struct {
	Keyword string
	Page    int
	Size    int
}

// List searches name, commercial registration and VAT number.
func (r *CustomerRepository) List(ctx context.Context, params CustomerListParams) ([]entity.Customer, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Customer{})
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("name LIKE ? OR commercial_registration LIKE ? OR vat_number LIKE ?", kw, kw, kw)
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
	var customers []entity.Customer
	err := query.Preload("Contacts").Order("name").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&customers).Error
	return customers, total, err
}

// --- Contacts ---

func (r *CustomerRepository) CreateContact(ctx context.Context, ct *entity.CustomerContact) error {
	return r.db.WithContext(ctx).Create(ct).Error
}

func (r *CustomerRepository) FindContact(ctx context.Context, customerID, contactID string) (*entity.CustomerContact, error) {
	var ct entity.CustomerContact
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND id = ?", customerID, contactID).
		First(&ct).Error
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

func (r *CustomerRepository) UpdateContact(ctx context.Context, ct *entity.CustomerContact) error {
	return r.db.WithContext(ctx).Save(ct).Error
}

func (r *CustomerRepository) DeleteContact(ctx context.Context, customerID, contactID string) error {
	return r.db.WithContext(ctx).
		Where("customer_id = ? AND id = ?", customerID, contactID).
		Delete(&entity.CustomerContact{}).Error
}
