package service

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decp(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestValidateTermSetDerivesAmounts(t *testing.T) {
	total := dec("1000.00")
	resolved, verr := ValidateTermSet([]TermCandidate{
		{Description: "Advance", Percent: decp("30")},
		{Description: "Delivery", Percent: decp("70")},
	}, total)
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if len(resolved) != 2 {
		t.Fatalf("resolved = %d terms, want 2", len(resolved))
	}
	if !resolved[0].Amount.Equal(dec("300")) {
		t.Errorf("advance amount = %s, want 300", resolved[0].Amount)
	}
	if !resolved[1].Amount.Equal(dec("700")) {
		t.Errorf("delivery amount = %s, want 700", resolved[1].Amount)
	}
	if resolved[0].AmountExplicit || resolved[1].AmountExplicit {
		t.Error("derived amounts must not be marked explicit")
	}
}

func TestValidateTermSetExplicitAmount(t *testing.T) {
	// An explicit amount wins over the derived one and the percent side is
	// back-filled from it.
	total := dec("1000.00")
	resolved, verr := ValidateTermSet([]TermCandidate{
		{Description: "Advance", Amount: decp("300")},
		{Description: "Delivery", Percent: decp("70")},
	}, total)
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if !resolved[0].AmountExplicit {
		t.Error("explicit amount must be marked")
	}
	if !resolved[0].Percent.Equal(dec("30")) {
		t.Errorf("back-derived percent = %s, want 30", resolved[0].Percent)
	}
	if !resolved[0].Amount.Equal(dec("300")) {
		t.Errorf("amount = %s, want 300 untouched", resolved[0].Amount)
	}
}

func TestValidateTermSetEmpty(t *testing.T) {
	if _, verr := ValidateTermSet(nil, dec("1000")); verr == nil {
		t.Fatal("empty candidate list must be rejected")
	}
}

func TestValidateTermSetCollectsRowErrors(t *testing.T) {
	_, verr := ValidateTermSet([]TermCandidate{
		{Description: "", Percent: decp("50")},
		{Description: "ok", Percent: decp("120")},
		{Description: "neither side"},
	}, dec("1000"))
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if len(verr.Rows) != 3 {
		t.Fatalf("rows = %d, want all 3 collected", len(verr.Rows))
	}
	for i, want := range []int{0, 1, 2} {
		if verr.Rows[i].Index != want {
			t.Errorf("rows[%d].Index = %d, want %d", i, verr.Rows[i].Index, want)
		}
	}
}

func TestValidateTermSetExplicitAmountBounds(t *testing.T) {
	total := dec("1000.00")

	// A negative amount back-derives a negative percent; compensating rows
	// would satisfy the sum check, so the row itself must be rejected.
	_, verr := ValidateTermSet([]TermCandidate{
		{Description: "Refund", Amount: decp("-1000")},
		{Description: "Pad", Percent: decp("100")},
		{Description: "Pad more", Percent: decp("100")},
	}, total)
	if verr == nil {
		t.Fatal("negative explicit amount must be rejected")
	}
	if len(verr.Rows) != 1 || verr.Rows[0].Field != "amount" {
		t.Errorf("rows = %+v, want one amount error", verr.Rows)
	}

	_, verr = ValidateTermSet([]TermCandidate{
		{Description: "Too big", Amount: decp("1500")},
		{Description: "Pad", Percent: decp("-50")},
	}, total)
	if verr == nil {
		t.Fatal("amount above the contract value must be rejected")
	}
}

func TestValidateTermSetSumCheck(t *testing.T) {
	cases := []struct {
		name     string
		percents []string
		ok       bool
	}{
		{"exact", []string{"50", "50"}, true},
		{"thirds", []string{"33.33", "33.33", "33.34"}, true},
		{"one bp under", []string{"50", "49.99"}, true},
		{"two bp under", []string{"50", "49.98"}, false},
		{"one percent over", []string{"50", "51"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			candidates := make([]TermCandidate, len(tc.percents))
			for i, p := range tc.percents {
				candidates[i] = TermCandidate{Description: "m", Percent: decp(p)}
			}
			_, verr := ValidateTermSet(candidates, dec("1000"))
			if tc.ok && verr != nil {
				t.Errorf("unexpected error: %v", verr)
			}
			if !tc.ok && verr == nil {
				t.Error("expected sum error")
			}
		})
	}
}

func TestValidateTermSetRoundsHalfAwayFromZero(t *testing.T) {
	resolved, verr := ValidateTermSet([]TermCandidate{
		{Description: "half", Percent: decp("50")},
		{Description: "rest", Percent: decp("50")},
	}, dec("0.01"))
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if !resolved[0].Amount.Equal(dec("0.01")) {
		t.Errorf("amount = %s, want 0.01 (0.005 rounds up)", resolved[0].Amount)
	}
}
