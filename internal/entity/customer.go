package entity

import (
	"time"
)

// CustomerType values
const (
	CustomerTypePrivate    = "PRIVATE"
	CustomerTypeGovernment = "GOVERNMENT"
	CustomerTypeSemiGov    = "SEMI_GOVERNMENT"
)

// Customer is a client company. Name is the upsert key for bulk import,
// so it stays unique across the active set.
type Customer struct {
	ID                     string    `json:"id" gorm:"primaryKey;size:36"`
	Name                   string    `json:"name" gorm:"size:200;not null;uniqueIndex"`
	Country                string    `json:"country" gorm:"size:2"`
	Type                   string    `json:"type" gorm:"size:30"`
	CommercialRegistration string    `json:"commercial_registration" gorm:"size:50"`
	VATNumber              string    `json:"vat_number" gorm:"size:50"`
	IsActive               bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`

	Contacts []CustomerContact `json:"contacts,omitempty" gorm:"foreignKey:CustomerID"`
}

func (Customer) TableName() string {
	return "customers"
}

// CustomerContact belongs to exactly one customer.
type CustomerContact struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	CustomerID string    `json:"customer_id" gorm:"size:36;not null;index"`
	Role       string    `json:"role" gorm:"size:100"`
	Name       string    `json:"name" gorm:"size:200;not null"`
	Email      string    `json:"email" gorm:"size:200"`
	Phone      string    `json:"phone" gorm:"size:50"`
	IsPrimary  bool      `json:"is_primary" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (CustomerContact) TableName() string {
	return "customer_contacts"
}
