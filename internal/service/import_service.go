package service

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"
	"github.com/jmaalouf1/pm-tracker/internal/entity"
	"github.com/jmaalouf1/pm-tracker/internal/money"
	"github.com/jmaalouf1/pm-tracker/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ImportService is the bulk-import reconciliation pipeline: parse the whole
// workbook, validate every row and cross-row invariant, then commit all four
// tables in one transaction in dependency order. Validation never mutates;
// commit is all-or-nothing.
//
// Retrying a failed import is safe for customers, projects and terms (upsert
// by key). Contacts are insert-only, so a retry after a commit that already
// went through can duplicate contact rows.
type ImportService struct {
	db           *gorm.DB
	customerRepo *repository.CustomerRepository
	projectRepo  *repository.ProjectRepository
	lookupRepo   *repository.LookupRepository
	logger       *zap.Logger
}

func NewImportService(db *gorm.DB, customerRepo *repository.CustomerRepository, projectRepo *repository.ProjectRepository, lookupRepo *repository.LookupRepository, logger *zap.Logger) *ImportService {
	return &ImportService{
		db:           db,
		customerRepo: customerRepo,
		projectRepo:  projectRepo,
		lookupRepo:   lookupRepo,
		logger:       logger,
	}
}

// ImportResult counts the rows the commit phase touched.
type ImportResult struct {
	Customers int `json:"customers"`
	Contacts  int `json:"contacts"`
	Projects  int `json:"projects"`
	Terms     int `json:"terms"`
}

// ImportWorkbook runs the full pipeline against an xlsx stream.
func (s *ImportService) ImportWorkbook(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ValidationError{Message: "cannot parse workbook: " + err.Error()}
	}
	defer f.Close()

	wb, rowErrs := ParseWorkbook(f)
	if len(rowErrs) > 0 {
		return nil, &ValidationError{Message: "invalid rows", Rows: rowErrs}
	}

	if verr := s.validate(ctx, wb); verr != nil {
		return nil, verr
	}

	result := &ImportResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.commit(ctx, tx, wb, result)
	})
	if err != nil {
		return nil, storageErr("import commit", err)
	}

	s.logger.Info("workbook imported",
		zap.Int("customers", result.Customers),
		zap.Int("contacts", result.Contacts),
		zap.Int("projects", result.Projects),
		zap.Int("terms", result.Terms),
	)
	return result, nil
}

// validate checks cross-row invariants before any write: per-project
// percentage totals and name references against the store plus earlier
// sheets of the same workbook.
func (s *ImportService) validate(ctx context.Context, wb *Workbook) *ValidationError {
	var rowErrs []RowError

	// Customer names available to later sheets: the Customers sheet plus the store.
	customerNames := map[string]bool{}
	for _, c := range wb.Customers {
		customerNames[c.Name] = true
	}
	knownCustomer := func(name string) (bool, error) {
		if customerNames[name] {
			return true, nil
		}
		_, err := s.customerRepo.FindByName(ctx, name)
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		customerNames[name] = true
		return true, nil
	}

	for i, ct := range wb.Contacts {
		ok, err := knownCustomer(ct.CustomerName)
		if err != nil {
			return &ValidationError{Message: "validation failed: " + err.Error()}
		}
		if !ok {
			rowErrs = append(rowErrs, RowError{Sheet: SheetContacts, Index: i, Field: "customer_name", Reason: "unknown customer " + ct.CustomerName})
		}
	}

	projectNames := map[string]bool{}
	for i, p := range wb.Projects {
		projectNames[p.Name] = true
		ok, err := knownCustomer(p.CustomerName)
		if err != nil {
			return &ValidationError{Message: "validation failed: " + err.Error()}
		}
		if !ok {
			rowErrs = append(rowErrs, RowError{Sheet: SheetProjects, Index: i, Field: "customer_name", Reason: "unknown customer " + p.CustomerName})
		}
	}
	knownProject := func(name string) (bool, error) {
		if projectNames[name] {
			return true, nil
		}
		_, err := s.projectRepo.FindByName(ctx, name)
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		projectNames[name] = true
		return true, nil
	}

	percents := map[string][]decimal.Decimal{}
	for i, t := range wb.Terms {
		ok, err := knownProject(t.ProjectName)
		if err != nil {
			return &ValidationError{Message: "validation failed: " + err.Error()}
		}
		if !ok {
			rowErrs = append(rowErrs, RowError{Sheet: SheetTerms, Index: i, Field: "project_name", Reason: "unknown project " + t.ProjectName})
		}
		percents[t.ProjectName] = append(percents[t.ProjectName], t.Percent)
	}

	// All offending projects are reported together, not just the first.
	var perProject []ProjectPercentError
	for name, ps := range percents {
		if ok, diff := money.SumsToFull(ps); !ok {
			perProject = append(perProject, ProjectPercentError{Project: name, DiffBP: diff})
		}
	}
	sort.Slice(perProject, func(i, j int) bool { return perProject[i].Project < perProject[j].Project })

	if len(rowErrs) > 0 || len(perProject) > 0 {
		return &ValidationError{
			Message:    "workbook failed validation",
			Rows:       rowErrs,
			PerProject: perProject,
		}
	}
	return nil
}

// commit writes all four tables inside the caller's transaction, in strict
// dependency order: customers, contacts, projects, terms.
func (s *ImportService) commit(ctx context.Context, tx *gorm.DB, wb *Workbook, result *ImportResult) error {
	// Customers: upsert by exact name.
	for _, c := range wb.Customers {
		var existing entity.Customer
		err := tx.Where("name = ?", c.Name).First(&existing).Error
		switch {
		case err == nil:
			existing.Country = c.Country
			existing.Type = c.Type
			existing.CommercialRegistration = c.CommercialRegistration
			existing.VATNumber = c.VATNumber
			existing.IsActive = c.IsActive
			if err := tx.Save(&existing).Error; err != nil {
				return fmt.Errorf("update customer %s: %w", c.Name, err)
			}
		case err == gorm.ErrRecordNotFound:
			cust := entity.Customer{
				ID:                     uuid.New().String(),
				Name:                   c.Name,
				Country:                c.Country,
				Type:                   c.Type,
				CommercialRegistration: c.CommercialRegistration,
				VATNumber:              c.VATNumber,
				IsActive:               c.IsActive,
			}
			if err := tx.Create(&cust).Error; err != nil {
				return fmt.Errorf("insert customer %s: %w", c.Name, err)
			}
		default:
			return err
		}
		result.Customers++
	}

	// Contacts: insert only. A customer that vanished since validation skips
	// the row; contacts are non-authoritative detail.
	for _, ct := range wb.Contacts {
		var cust entity.Customer
		if err := tx.Where("name = ?", ct.CustomerName).First(&cust).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				s.logger.Warn("skipping contact with unresolved customer",
					zap.String("contact", ct.Name),
					zap.String("customer", ct.CustomerName),
				)
				continue
			}
			return err
		}
		contact := entity.CustomerContact{
			ID:         uuid.New().String(),
			CustomerID: cust.ID,
			Role:       ct.Role,
			Name:       ct.Name,
			Email:      ct.Email,
			Phone:      ct.Phone,
			IsPrimary:  ct.IsPrimary,
		}
		if err := tx.Create(&contact).Error; err != nil {
			return fmt.Errorf("insert contact %s: %w", ct.Name, err)
		}
		result.Contacts++
	}

	// Projects: upsert by exact name, resolving lookups first.
	for _, p := range wb.Projects {
		var cust entity.Customer
		if err := tx.Where("name = ?", p.CustomerName).First(&cust).Error; err != nil {
			return fmt.Errorf("resolve customer %s: %w", p.CustomerName, err)
		}
		statusID, err := s.lookupRepo.EnsureStatus(ctx, tx, entity.StatusTypeProject, p.Status)
		if err != nil {
			return err
		}
		poStatusID, err := s.lookupRepo.EnsureStatus(ctx, tx, entity.StatusTypePO, p.POStatus)
		if err != nil {
			return err
		}
		invStatusID, err := s.lookupRepo.EnsureStatus(ctx, tx, entity.StatusTypeInvoice, p.InvoiceStatus)
		if err != nil {
			return err
		}
		segmentID, err := s.lookupRepo.EnsureSegment(ctx, tx, p.Segment)
		if err != nil {
			return err
		}
		serviceLineID, err := s.lookupRepo.EnsureServiceLine(ctx, tx, p.ServiceLine)
		if err != nil {
			return err
		}
		partnerID, err := s.lookupRepo.EnsurePartner(ctx, tx, p.Partner)
		if err != nil {
			return err
		}

		currency := p.Currency
		if currency == "" {
			currency = "SAR"
		}
		var existing entity.Project
		err = tx.Where("name = ?", p.Name).First(&existing).Error
		switch {
		case err == nil:
			existing.CustomerID = cust.ID
			existing.ContractValue = p.ContractValue
			existing.Currency = currency
			existing.SegmentID = segmentID
			existing.ServiceLineID = serviceLineID
			existing.PartnerID = partnerID
			existing.StatusID = statusID
			existing.POStatusID = poStatusID
			existing.InvoiceStatusID = invStatusID
			existing.StartDate = p.StartDate
			existing.EndDate = p.EndDate
			if err := tx.Save(&existing).Error; err != nil {
				return fmt.Errorf("update project %s: %w", p.Name, err)
			}
		case err == gorm.ErrRecordNotFound:
			project := entity.Project{
				ID:              uuid.New().String(),
				Name:            p.Name,
				CustomerID:      cust.ID,
				ContractValue:   p.ContractValue,
				Currency:        currency,
				SegmentID:       segmentID,
				ServiceLineID:   serviceLineID,
				PartnerID:       partnerID,
				StatusID:        statusID,
				POStatusID:      poStatusID,
				InvoiceStatusID: invStatusID,
				StartDate:       p.StartDate,
				EndDate:         p.EndDate,
			}
			if err := tx.Create(&project).Error; err != nil {
				return fmt.Errorf("insert project %s: %w", p.Name, err)
			}
		default:
			return err
		}
		result.Projects++
	}

	// Terms: merge by (project_id, seq). The sheet never deletes terms it
	// does not mention; a partial upload must not erase the rest of the set.
	for _, t := range wb.Terms {
		var project entity.Project
		if err := tx.Where("name = ?", t.ProjectName).First(&project).Error; err != nil {
			return fmt.Errorf("resolve project %s: %w", t.ProjectName, err)
		}
		statusID, err := s.lookupRepo.EnsureStatus(ctx, tx, entity.StatusTypeTerm, t.Status)
		if err != nil {
			return err
		}
		amount := money.AmountFromPercent(project.ContractValue, t.Percent)

		var existing entity.ProjectTerm
		err = tx.Where("project_id = ? AND seq = ?", project.ID, t.Seq).First(&existing).Error
		switch {
		case err == nil:
			existing.Percent = t.Percent
			existing.Amount = amount
			existing.AmountExplicit = false
			existing.Description = t.Description
			existing.DueDate = t.DueDate
			existing.StatusID = statusID
			if err := tx.Save(&existing).Error; err != nil {
				return fmt.Errorf("update term %s/%d: %w", t.ProjectName, t.Seq, err)
			}
		case err == gorm.ErrRecordNotFound:
			term := entity.ProjectTerm{
				ID:          uuid.New().String(),
				ProjectID:   project.ID,
				Seq:         t.Seq,
				Description: t.Description,
				Percent:     t.Percent,
				Amount:      amount,
				StatusID:    statusID,
				DueDate:     t.DueDate,
			}
			if err := tx.Create(&term).Error; err != nil {
				return fmt.Errorf("insert term %s/%d: %w", t.ProjectName, t.Seq, err)
			}
		default:
			return err
		}
		result.Terms++
	}

	return nil
}

// Template builds the import workbook with the four sheets and starred
// required headers.
func (s *ImportService) Template() (*excelize.File, error) {
	f := excelize.NewFile()

	sheets := []struct {
		name    string
		headers []string
	}{
		{SheetCustomers, []string{"customer_name*", "country", "type", "commercial_registration", "vat_number", "is_active"}},
		{SheetContacts, []string{"customer_name*", "contact_name*", "role", "email", "phone", "is_primary"}},
		{SheetProjects, []string{"project_name*", "customer_name*", "segment", "service_line", "partner", "status", "po_status", "invoice_status", "contract_value", "currency", "start_date", "end_date"}},
		{SheetTerms, []string{"project_name*", "seq*", "percentage*", "description*", "due_date", "status"}},
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return nil, err
	}

	for i, sheet := range sheets {
		if i == 0 {
			f.SetSheetName("Sheet1", sheet.name)
		} else {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return nil, err
			}
		}
		for col, h := range sheet.headers {
			name, _ := excelize.ColumnNumberToName(col + 1)
			cell := name + "1"
			if err := f.SetCellValue(sheet.name, cell, h); err != nil {
				return nil, err
			}
			f.SetCellStyle(sheet.name, cell, cell, bold)
		}
	}
	return f, nil
}
