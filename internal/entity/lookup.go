package entity

import "time"

// StatusType values. One statuses table serves the four status lookups,
// keyed by (type, name).
const (
	StatusTypeProject = "project_status"
	StatusTypePO      = "po_status"
	StatusTypeInvoice = "invoice_status"
	StatusTypeTerm    = "term_status"
)

// Term status names the dashboard treats as settled.
const (
	TermStatusPaid      = "Paid"
	TermStatusCancelled = "Cancelled"
)

type Status struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Type      string    `json:"type" gorm:"size:30;not null;uniqueIndex:idx_statuses_type_name,priority:1"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex:idx_statuses_type_name,priority:2"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Status) TableName() string {
	return "statuses"
}

type Segment struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Segment) TableName() string {
	return "segments"
}

type ServiceLine struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ServiceLine) TableName() string {
	return "service_lines"
}

type Partner struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Partner) TableName() string {
	return "partners"
}
