package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jmaalouf1/pm-tracker/internal/entity"
	"github.com/jmaalouf1/pm-tracker/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := entity.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCustomer(t *testing.T, db *gorm.DB, name string) *entity.Customer {
	t.Helper()
	customer := &entity.Customer{ID: uuid.New().String(), Name: name, IsActive: true}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return customer
}

func seedProject(t *testing.T, db *gorm.DB, customerID, name string, contractValue decimal.Decimal) *entity.Project {
	t.Helper()
	project := &entity.Project{
		ID:            uuid.New().String(),
		Name:          name,
		CustomerID:    customerID,
		ContractValue: contractValue,
		Currency:      "SAR",
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return project
}

func newTermService(db *gorm.DB) *TermService {
	return NewTermService(db,
		repository.NewProjectRepository(db),
		repository.NewTermRepository(db),
		repository.NewLookupRepository(db),
		zap.NewNop(),
	)
}

func newImportService(db *gorm.DB) *ImportService {
	return NewImportService(db,
		repository.NewCustomerRepository(db),
		repository.NewProjectRepository(db),
		repository.NewLookupRepository(db),
		zap.NewNop(),
	)
}

func countTerms(t *testing.T, db *gorm.DB, projectID string) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&entity.ProjectTerm{}).Where("project_id = ?", projectID).Count(&n).Error; err != nil {
		t.Fatalf("count terms: %v", err)
	}
	return n
}

var testCtx = context.Background()
