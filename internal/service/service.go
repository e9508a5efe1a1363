package service

import (
	"github.com/jmaalouf1/pm-tracker/internal/config"
	"github.com/jmaalouf1/pm-tracker/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services bundles every tracker service.
type Services struct {
	Auth      *AuthService
	Customer  *CustomerService
	Project   *ProjectService
	Term      *TermService
	Template  *TemplateService
	Import    *ImportService
	Dashboard *DashboardService
	Lookup    *LookupService
}

func NewServices(repos *repository.Repositories, db *gorm.DB, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	return &Services{
		Auth:      NewAuthService(repos.User, cfg),
		Customer:  NewCustomerService(repos.Customer),
		Project:   NewProjectService(repos.Project),
		Term:      NewTermService(db, repos.Project, repos.Term, repos.Lookup, logger),
		Template:  NewTemplateService(repos.Template, repos.Project),
		Import:    NewImportService(db, repos.Customer, repos.Project, repos.Lookup, logger),
		Dashboard: NewDashboardService(db, rdb, logger),
		Lookup:    NewLookupService(repos.Lookup),
	}
}
