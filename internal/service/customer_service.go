package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmaalouf1/pm-tracker/internal/entity"
	"github.com/jmaalouf1/pm-tracker/internal/repository"
	"gorm.io/gorm"
)

type CustomerService struct {
	repo *repository.CustomerRepository
}

func NewCustomerService(repo *repository.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

type ContactInput struct {
	Role      string `json:"role"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	IsPrimary bool   `json:"is_primary"`
}

type CreateCustomerRequest struct {
	Name                   string         `json:"name" binding:"required"`
	Country                string         `json:"country"`
	Type                   string         `json:"type"`
	CommercialRegistration string         `json:"commercial_registration"`
	VATNumber              string         `json:"vat_number"`
	Contacts               []ContactInput `json:"contacts"`
}

type UpdateCustomerRequest struct {
	Name                   *string `json:"name"`
	Country                *string `json:"country"`
	Type                   *string `json:"type"`
	CommercialRegistration *string `json:"commercial_registration"`
	VATNumber              *string `json:"vat_number"`
	IsActive               *bool   `json:"is_active"`
}

func (s *CustomerService) List(ctx context.Context, params repository.CustomerListParams) ([]entity.Customer, int64, error) {
	return s.repo.List(ctx, params)
}

func (s *CustomerService) Get(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("customer", id, err)
	}
	return c, nil
}

func (s *CustomerService) Create(ctx context.Context, req *CreateCustomerRequest) (*entity.Customer, error) {
	if _, err := s.repo.FindByName(ctx, req.Name); err == nil {
		return nil, &ConflictError{Entity: "customer", Key: req.Name}
	} else if err != gorm.ErrRecordNotFound {
		return nil, storageErr("check customer name", err)
	}

	customer := &entity.Customer{
		ID:                     uuid.New().String(),
		Name:                   req.Name,
		Country:                req.Country,
		Type:                   req.Type,
		CommercialRegistration: req.CommercialRegistration,
		VATNumber:              req.VATNumber,
		IsActive:               true,
	}
	for _, ct := range req.Contacts {
		customer.Contacts = append(customer.Contacts, entity.CustomerContact{
			ID:         uuid.New().String(),
			CustomerID: customer.ID,
			Role:       ct.Role,
			Name:       ct.Name,
			Email:      ct.Email,
			Phone:      ct.Phone,
			IsPrimary:  ct.IsPrimary,
		})
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, storageErr("create customer", err)
	}
	return customer, nil
}

func (s *CustomerService) Update(ctx context.Context, id string, req *UpdateCustomerRequest) (*entity.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("customer", id, err)
	}
	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Country != nil {
		customer.Country = *req.Country
	}
	if req.Type != nil {
		customer.Type = *req.Type
	}
	if req.CommercialRegistration != nil {
		customer.CommercialRegistration = *req.CommercialRegistration
	}
	if req.VATNumber != nil {
		customer.VATNumber = *req.VATNumber
	}
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, storageErr("update customer", err)
	}
	return customer, nil
}

func (s *CustomerService) AddContact(ctx context.Context, customerID string, in *ContactInput) (*entity.CustomerContact, error) {
	if _, err := s.repo.FindByID(ctx, customerID); err != nil {
		return nil, notFound("customer", customerID, err)
	}
	contact := &entity.CustomerContact{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		Role:       in.Role,
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		IsPrimary:  in.IsPrimary,
	}
	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, storageErr("create contact", err)
	}
	return contact, nil
}

type UpdateContactRequest struct {
	Role      *string `json:"role"`
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	IsPrimary *bool   `json:"is_primary"`
}

func (s *CustomerService) UpdateContact(ctx context.Context, customerID, contactID string, req *UpdateContactRequest) (*entity.CustomerContact, error) {
	contact, err := s.repo.FindContact(ctx, customerID, contactID)
	if err != nil {
		return nil, notFound("contact", contactID, err)
	}
	if req.Role != nil {
		contact.Role = *req.Role
	}
	if req.Name != nil {
		contact.Name = *req.Name
	}
	if req.Email != nil {
		contact.Email = *req.Email
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}
	if req.IsPrimary != nil {
		contact.IsPrimary = *req.IsPrimary
	}
	if err := s.repo.UpdateContact(ctx, contact); err != nil {
		return nil, storageErr("update contact", err)
	}
	return contact, nil
}

func (s *CustomerService) DeleteContact(ctx context.Context, customerID, contactID string) error {
	if _, err := s.repo.FindContact(ctx, customerID, contactID); err != nil {
		return notFound("contact", contactID, err)
	}
	return s.repo.DeleteContact(ctx, customerID, contactID)
}
