package repository

import "gorm.io/gorm"

// Repositories bundles all tracker repositories.
type Repositories struct {
	Customer *CustomerRepository
	Project  *ProjectRepository
	Term     *TermRepository
	Lookup   *LookupRepository
	Template *TemplateRepository
	User     *UserRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Customer: NewCustomerRepository(db),
		Project:  NewProjectRepository(db),
		Term:     NewTermRepository(db),
		Lookup:   NewLookupRepository(db),
		Template: NewTemplateRepository(db),
		User:     NewUserRepository(db),
	}
}
