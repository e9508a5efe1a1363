package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmaalouf1/pm-tracker/internal/entity"
	"github.com/jmaalouf1/pm-tracker/internal/money"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const summaryCacheKey = "pm:dashboard:summary"
const summaryCacheTTL = 60 * time.Second

// DashboardService aggregates term amounts for the overview screens. The
// amounts are presentation-only and derived the same way as stored amounts:
// contract value times percent over 100.
type DashboardService struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger *zap.Logger
}

// NewDashboardService accepts a nil redis client; caching is then disabled.
func NewDashboardService(db *gorm.DB, rdb *redis.Client, logger *zap.Logger) *DashboardService {
	return &DashboardService{db: db, rdb: rdb, logger: logger}
}

type StatusCount struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type TermsBucket struct {
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type Summary struct {
	TotalProjects    int64         `json:"total_projects"`
	ProjectsByStatus []StatusCount `json:"projects_by_status"`
	Pending          TermsBucket   `json:"pending"`
	Overdue          TermsBucket   `json:"overdue"`
}

// termAgg is one term row joined with what the aggregates need.
type termAgg struct {
	Percent       decimal.Decimal
	ContractValue decimal.Decimal
	StatusName    string
	DueDate       *time.Time
}

func (s *DashboardService) loadTermAggs(ctx context.Context) ([]termAgg, error) {
	var rows []termAgg
	err := s.db.WithContext(ctx).Model(&entity.ProjectTerm{}).
		Select("project_terms.percent, projects.contract_value, COALESCE(statuses.name, 'Planned') AS status_name, project_terms.due_date").
		Joins("JOIN projects ON projects.id = project_terms.project_id").
		Joins("LEFT JOIN statuses ON statuses.id = project_terms.status_id").
		Scan(&rows).Error
	return rows, err
}

func settled(status string) bool {
	return status == entity.TermStatusPaid || status == entity.TermStatusCancelled
}

// Summary builds the dashboard header numbers, cached for a minute when a
// redis client is wired.
func (s *DashboardService) Summary(ctx context.Context) (*Summary, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, summaryCacheKey).Bytes(); err == nil {
			var cached Summary
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	var out Summary
	if err := s.db.WithContext(ctx).Model(&entity.Project{}).Count(&out.TotalProjects).Error; err != nil {
		return nil, storageErr("count projects", err)
	}

	type nameCount struct {
		Status string
		Count  int64
	}
	var byStatus []nameCount
	err := s.db.WithContext(ctx).Model(&entity.Project{}).
		Select("COALESCE(statuses.name, 'Unknown') AS status, COUNT(*) AS count").
		Joins("LEFT JOIN statuses ON statuses.id = projects.status_id").
		Group("statuses.name").Order("count DESC").
		Scan(&byStatus).Error
	if err != nil {
		return nil, storageErr("projects by status", err)
	}
	for _, row := range byStatus {
		out.ProjectsByStatus = append(out.ProjectsByStatus, StatusCount{Status: row.Status, Count: row.Count})
	}

	terms, err := s.loadTermAggs(ctx)
	if err != nil {
		return nil, storageErr("load terms", err)
	}
	out.Pending.Amount = decimal.Zero
	out.Overdue.Amount = decimal.Zero
	today := time.Now().Truncate(24 * time.Hour)
	for _, t := range terms {
		if settled(t.StatusName) {
			continue
		}
		amount := money.AmountFromPercent(t.ContractValue, t.Percent)
		out.Pending.Count++
		out.Pending.Amount = out.Pending.Amount.Add(amount)
		if t.DueDate != nil && t.DueDate.Before(today) {
			out.Overdue.Count++
			out.Overdue.Amount = out.Overdue.Amount.Add(amount)
		}
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(&out); err == nil {
			if err := s.rdb.Set(ctx, summaryCacheKey, raw, summaryCacheTTL).Err(); err != nil {
				s.logger.Warn("summary cache write failed", zap.Error(err))
			}
		}
	}
	return &out, nil
}

// TermsByStatus groups every term under its status name with count and amount.
func (s *DashboardService) TermsByStatus(ctx context.Context) ([]StatusCount, error) {
	terms, err := s.loadTermAggs(ctx)
	if err != nil {
		return nil, storageErr("load terms", err)
	}
	byStatus := map[string]*StatusCount{}
	var order []string
	for _, t := range terms {
		sc, ok := byStatus[t.StatusName]
		if !ok {
			sc = &StatusCount{Status: t.StatusName, Amount: decimal.Zero}
			byStatus[t.StatusName] = sc
			order = append(order, t.StatusName)
		}
		sc.Count++
		sc.Amount = sc.Amount.Add(money.AmountFromPercent(t.ContractValue, t.Percent))
	}
	out := make([]StatusCount, 0, len(order))
	for _, name := range order {
		out = append(out, *byStatus[name])
	}
	return out, nil
}

// UpcomingTerm is one unsettled term due within the window.
type UpcomingTerm struct {
	ID           string          `json:"id"`
	ProjectName  string          `json:"project_name"`
	CustomerName string          `json:"customer_name"`
	Seq          int             `json:"seq"`
	Description  string          `json:"description"`
	Percent      decimal.Decimal `json:"percent"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	DueDate      time.Time       `json:"due_date"`
}

// Upcoming lists unsettled terms due in the next `days`, soonest first.
func (s *DashboardService) Upcoming(ctx context.Context, days, limit int) ([]UpcomingTerm, error) {
	if days <= 0 {
		days = 30
	}
	if limit <= 0 || limit > 100 {
		limit = 15
	}
	horizon := time.Now().AddDate(0, 0, days)

	type row struct {
		ID            string
		ProjectName   string
		CustomerName  string
		Seq           int
		Description   string
		Percent       decimal.Decimal
		ContractValue decimal.Decimal
		StatusName    string
		DueDate       time.Time
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&entity.ProjectTerm{}).
		Select(`project_terms.id, projects.name AS project_name, customers.name AS customer_name,
			project_terms.seq, project_terms.description, project_terms.percent,
			projects.contract_value, COALESCE(statuses.name, 'Planned') AS status_name, project_terms.due_date`).
		Joins("JOIN projects ON projects.id = project_terms.project_id").
		Joins("LEFT JOIN customers ON customers.id = projects.customer_id").
		Joins("LEFT JOIN statuses ON statuses.id = project_terms.status_id").
		Where("project_terms.due_date IS NOT NULL AND project_terms.due_date <= ?", horizon).
		Order("project_terms.due_date").
		Scan(&rows).Error
	if err != nil {
		return nil, storageErr("upcoming terms", err)
	}

	out := make([]UpcomingTerm, 0, limit)
	for _, r := range rows {
		if settled(r.StatusName) {
			continue
		}
		out = append(out, UpcomingTerm{
			ID:           r.ID,
			ProjectName:  r.ProjectName,
			CustomerName: r.CustomerName,
			Seq:          r.Seq,
			Description:  r.Description,
			Percent:      r.Percent,
			Amount:       money.AmountFromPercent(r.ContractValue, r.Percent),
			Status:       r.StatusName,
			DueDate:      r.DueDate,
		})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
