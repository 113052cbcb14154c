package ledger

import (
	"testing"
	"time"

	"github.com/govalues/money"
	"github.com/shopspring/decimal"
)

func TestInvoiceTotals(t *testing.T) {
	price := func(minor int64) money.Amount {
		a, err := money.NewAmountFromMinorUnits("XOF", minor)
		if err != nil {
			t.Fatalf("amount: %v", err)
		}
		return a
	}
	inv := Invoice{
		Currency: "XOF",
		Lines: []InvoiceLine{
			{Description: "Sacs de riz", Quantity: 3, UnitPrice: price(12500), AccountNumber: 701},
			{Description: "Livraison", Quantity: 1, UnitPrice: price(2000), AccountNumber: 707},
		},
	}
	units, _ := inv.Total().MinorUnits()
	if units != 39500 {
		t.Fatalf("invoice total: got %d, want 39500", units)
	}
	lineUnits, _ := inv.Lines[0].Total().MinorUnits()
	if lineUnits != 37500 {
		t.Fatalf("line total: got %d, want 37500", lineUnits)
	}
}

func TestBudgetCovers(t *testing.T) {
	b := Budget{AccountPrefix: "60", Year: 2025, Month: time.March}
	in := JournalEntry{AccountNumber: 601, Date: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)}
	if !b.Covers(in) {
		t.Fatal("601 in March 2025 should be covered")
	}
	otherMonth := in
	otherMonth.Date = otherMonth.Date.AddDate(0, 1, 0)
	if b.Covers(otherMonth) {
		t.Fatal("April entry should not be covered")
	}
	otherAccount := in
	otherAccount.AccountNumber = 701
	if b.Covers(otherAccount) {
		t.Fatal("701 should not match prefix 60")
	}
}

func TestSavingsGoalProgress(t *testing.T) {
	g := SavingsGoal{Target: decimal.NewFromInt(1000), Saved: decimal.NewFromInt(250)}
	if !g.Progress().Equal(decimal.RequireFromString("0.25")) {
		t.Fatalf("progress: got %s", g.Progress())
	}
	if g.Reached() {
		t.Fatal("goal not reached yet")
	}
	g.Saved = decimal.NewFromInt(1000)
	if !g.Reached() {
		t.Fatal("goal should be reached")
	}
	empty := SavingsGoal{}
	if !empty.Progress().IsZero() {
		t.Fatal("zero target yields zero progress")
	}
}
