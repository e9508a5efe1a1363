package service

import (
	"testing"
	"time"

	"github.com/jmaalouf1/pm-tracker/internal/entity"
	"github.com/jmaalouf1/pm-tracker/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func seedTerms(t *testing.T, db *gorm.DB) (projectID string) {
	t.Helper()
	customer := seedCustomer(t, db, "Acme")
	project := seedProject(t, db, customer.ID, "Rollout", dec("1000.00"))

	lookupRepo := repository.NewLookupRepository(db)
	paidID, err := lookupRepo.EnsureStatus(testCtx, nil, entity.StatusTypeTerm, entity.TermStatusPaid)
	if err != nil {
		t.Fatalf("EnsureStatus: %v", err)
	}

	past := time.Now().AddDate(0, 0, -10)
	soon := time.Now().AddDate(0, 0, 5)
	terms := []TermCandidate{
		{Description: "Paid advance", Percent: decp("30"), StatusID: paidID, DueDate: &past},
		{Description: "Overdue milestone", Percent: decp("30"), DueDate: &past},
		{Description: "Upcoming final", Percent: decp("40"), DueDate: &soon},
	}
	if _, err := newTermService(db).ReplaceTerms(testCtx, project.ID, terms); err != nil {
		t.Fatalf("ReplaceTerms: %v", err)
	}
	return project.ID
}

func TestDashboardSummaryBuckets(t *testing.T) {
	db := setupDB(t)
	seedTerms(t, db)
	svc := NewDashboardService(db, nil, zap.NewNop())

	summary, err := svc.Summary(testCtx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.TotalProjects != 1 {
		t.Errorf("total projects = %d, want 1", summary.TotalProjects)
	}
	// Paid term is settled; the other two are pending, one of them overdue.
	if summary.Pending.Count != 2 {
		t.Errorf("pending count = %d, want 2", summary.Pending.Count)
	}
	if !summary.Pending.Amount.Equal(dec("700")) {
		t.Errorf("pending amount = %s, want 700", summary.Pending.Amount)
	}
	if summary.Overdue.Count != 1 {
		t.Errorf("overdue count = %d, want 1", summary.Overdue.Count)
	}
	if !summary.Overdue.Amount.Equal(dec("300")) {
		t.Errorf("overdue amount = %s, want 300", summary.Overdue.Amount)
	}
}

func TestDashboardTermsByStatus(t *testing.T) {
	db := setupDB(t)
	seedTerms(t, db)
	svc := NewDashboardService(db, nil, zap.NewNop())

	counts, err := svc.TermsByStatus(testCtx)
	if err != nil {
		t.Fatalf("TermsByStatus: %v", err)
	}
	byName := map[string]StatusCount{}
	for _, sc := range counts {
		byName[sc.Status] = sc
	}
	if byName[entity.TermStatusPaid].Count != 1 {
		t.Errorf("paid count = %d, want 1", byName[entity.TermStatusPaid].Count)
	}
	if byName["Planned"].Count != 2 {
		t.Errorf("planned count = %d, want 2 (terms without status)", byName["Planned"].Count)
	}
}

func TestDashboardUpcomingSkipsSettled(t *testing.T) {
	db := setupDB(t)
	seedTerms(t, db)
	svc := NewDashboardService(db, nil, zap.NewNop())

	upcoming, err := svc.Upcoming(testCtx, 30, 10)
	if err != nil {
		t.Fatalf("Upcoming: %v", err)
	}
	// Both unsettled terms are inside the 30-day window; the paid one is not
	// listed even though its due date qualifies.
	if len(upcoming) != 2 {
		t.Fatalf("upcoming = %d, want 2", len(upcoming))
	}
	if !upcoming[0].DueDate.Before(upcoming[1].DueDate) {
		t.Error("upcoming not ordered soonest first")
	}
	for _, u := range upcoming {
		if u.Status == entity.TermStatusPaid {
			t.Errorf("settled term %q listed", u.Description)
		}
	}
}
