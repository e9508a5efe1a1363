package entity

import "time"

// TermTemplate is a reusable payment schedule. Each item carries a formula
// evaluated against the project's contract value when the template is applied.
type TermTemplate struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Description string    `json:"description" gorm:"size:500"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Items []TermTemplateItem `json:"items,omitempty" gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
}

func (TermTemplate) TableName() string {
	return "term_templates"
}

// TermTemplateItem defines one installment. PercentFormula is a govaluate
// expression over the variable `total`, e.g. "20" or "100 * 0.25".
// DueOffsetDays, when > 0, sets the due date relative to the project start.
type TermTemplateItem struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	TemplateID     string    `json:"template_id" gorm:"size:36;not null;index"`
	Seq            int       `json:"seq" gorm:"not null"`
	Description    string    `json:"description" gorm:"size:500;not null"`
	PercentFormula string    `json:"percent_formula" gorm:"size:200;not null"`
	DueOffsetDays  int       `json:"due_offset_days" gorm:"not null;default:0"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (TermTemplateItem) TableName() string {
	return "term_template_items"
}
