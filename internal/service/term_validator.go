package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmaalouf1/pm-tracker/internal/money"
	"github.com/shopspring/decimal"
)

// TermCandidate is one requested milestone. Either Percent or Amount must be
// supplied; the other side is derived once, here, so create, replace and
// import all share a single canonical row afterwards.
type TermCandidate struct {
	Description string           `json:"description"`
	Percent     *decimal.Decimal `json:"percent,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	StatusID    *string          `json:"status_id,omitempty"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// ResolvedTerm is a canonical candidate: both sides of the percent/amount
// pair filled in, explicit amounts marked so they are never recomputed.
type ResolvedTerm struct {
	Description    string
	Percent        decimal.Decimal
	Amount         decimal.Decimal
	AmountExplicit bool
	StatusID       *string
	DueDate        *time.Time
	Notes          string
}

// ValidateTermSet checks an ordered candidate list against the project's
// contract value. Row checks short-circuit per row but every offending row
// is collected before failing; the sum check runs only when all rows hold.
// On success the resolved set is returned and no prior mutation has happened.
func ValidateTermSet(candidates []TermCandidate, total decimal.Decimal) ([]ResolvedTerm, *ValidationError) {
	if len(candidates) == 0 {
		return nil, &ValidationError{Message: "terms list is empty"}
	}

	resolved := make([]ResolvedTerm, 0, len(candidates))
	var rowErrs []RowError
	for i, c := range candidates {
		if c.Percent == nil && c.Amount == nil {
			rowErrs = append(rowErrs, RowError{Index: i, Field: "percent", Reason: "either percent or amount is required"})
			continue
		}
		var percent decimal.Decimal
		if c.Percent != nil {
			percent = *c.Percent
			if percent.Sign() < 0 || percent.GreaterThan(decimal.NewFromInt(100)) {
				rowErrs = append(rowErrs, RowError{Index: i, Field: "percent", Reason: "percent must be between 0 and 100"})
				continue
			}
			percent = percent.Round(2)
		} else {
			// The derived percent obeys the same bounds as an explicit one, so
			// a bad amount cannot hide behind compensating rows in the sum check.
			if c.Amount.Sign() < 0 {
				rowErrs = append(rowErrs, RowError{Index: i, Field: "amount", Reason: "amount must not be negative"})
				continue
			}
			percent = money.PercentFromAmount(total, *c.Amount)
			if percent.GreaterThan(decimal.NewFromInt(100)) {
				rowErrs = append(rowErrs, RowError{Index: i, Field: "amount", Reason: "amount must not exceed the contract value"})
				continue
			}
		}
		if strings.TrimSpace(c.Description) == "" {
			rowErrs = append(rowErrs, RowError{Index: i, Field: "description", Reason: "description is required"})
			continue
		}

		rt := ResolvedTerm{
			Description: strings.TrimSpace(c.Description),
			Percent:     percent,
			StatusID:    c.StatusID,
			DueDate:     c.DueDate,
			Notes:       c.Notes,
		}
		if c.Amount != nil {
			rt.Amount = c.Amount.Round(2)
			rt.AmountExplicit = true
		} else {
			rt.Amount = money.AmountFromPercent(total, percent)
		}
		resolved = append(resolved, rt)
	}
	if len(rowErrs) > 0 {
		return nil, &ValidationError{Message: "invalid terms", Rows: rowErrs}
	}

	percents := make([]decimal.Decimal, len(resolved))
	for i, rt := range resolved {
		percents[i] = rt.Percent
	}
	if ok, diff := money.SumsToFull(percents); !ok {
		return nil, &ValidationError{
			Message:    fmt.Sprintf("sum of percentages must equal 100%% (off by %s%%)", decimal.New(diff, -2)),
			PerProject: []ProjectPercentError{{DiffBP: diff}},
		}
	}
	return resolved, nil
}
