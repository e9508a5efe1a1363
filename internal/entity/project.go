package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project carries the contract value that every term amount derives from.
type Project struct {
	ID              string          `json:"id" gorm:"primaryKey;size:36"`
	Code            string          `json:"code" gorm:"size:50;index"`
	Name            string          `json:"name" gorm:"size:200;not null;uniqueIndex"`
	CustomerID      string          `json:"customer_id" gorm:"size:36;not null;index"`
	Description     string          `json:"description" gorm:"type:text"`
	ContractValue   decimal.Decimal `json:"contract_value" gorm:"type:decimal(14,2);not null;default:0"`
	Currency        string          `json:"currency" gorm:"size:3;not null;default:SAR"`
	SegmentID       *string         `json:"segment_id" gorm:"size:36"`
	ServiceLineID   *string         `json:"service_line_id" gorm:"size:36"`
	PartnerID       *string         `json:"partner_id" gorm:"size:36"`
	StatusID        *string         `json:"status_id" gorm:"size:36"`
	POStatusID      *string         `json:"po_status_id" gorm:"size:36"`
	InvoiceStatusID *string         `json:"invoice_status_id" gorm:"size:36"`
	StartDate       *time.Time      `json:"start_date"`
	EndDate         *time.Time      `json:"end_date"`
	CreatedBy       string          `json:"created_by" gorm:"size:36"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Customer *Customer     `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Terms    []ProjectTerm `json:"terms,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

func (Project) TableName() string {
	return "projects"
}

// ProjectTerm is one milestone of a project's payment schedule.
// Seq is dense and 1-based within a project; AmountExplicit marks amounts
// that were supplied directly instead of derived from the percentage.
type ProjectTerm struct {
	ID             string          `json:"id" gorm:"primaryKey;size:36"`
	ProjectID      string          `json:"project_id" gorm:"size:36;not null;uniqueIndex:idx_project_terms_seq,priority:1"`
	Seq            int             `json:"seq" gorm:"not null;uniqueIndex:idx_project_terms_seq,priority:2"`
	Description    string          `json:"description" gorm:"size:500;not null"`
	Percent        decimal.Decimal `json:"percent" gorm:"type:decimal(5,2);not null"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null;default:0"`
	AmountExplicit bool            `json:"amount_explicit" gorm:"not null;default:false"`
	StatusID       *string         `json:"status_id" gorm:"size:36"`
	DueDate        *time.Time      `json:"due_date"`
	Notes          string          `json:"notes" gorm:"type:text"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (ProjectTerm) TableName() string {
	return "project_terms"
}
