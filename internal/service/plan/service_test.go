package plan_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kdiallo/sikabooks/internal/coa"
	"github.com/kdiallo/sikabooks/internal/errs"
	"github.com/kdiallo/sikabooks/internal/ledger"
	"github.com/kdiallo/sikabooks/internal/service/journal"
	"github.com/kdiallo/sikabooks/internal/service/plan"
	"github.com/kdiallo/sikabooks/internal/storage/memory"
)

func newService(t *testing.T) (plan.Service, journal.Service) {
	t.Helper()
	store := memory.New()
	return plan.New(store, store, store), journal.New(store, store, coa.Default())
}

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func post(t *testing.T, svc journal.Service, date time.Time, charge int, amount string) {
	t.Helper()
	_, err := svc.PostGroup(context.Background(), date, "dépense", ledger.SourceManual, uuid.Nil, []journal.Line{
		{AccountNumber: charge, Debit: amt(amount)},
		{AccountNumber: 571, Credit: amt(amount)},
	})
	if err != nil {
		t.Fatalf("PostGroup: %v", err)
	}
}

func TestBudgetStatusDerivesSpending(t *testing.T) {
	planSvc, journalSvc := newService(t)
	ctx := context.Background()

	b, err := planSvc.CreateBudget(ctx, ledger.Budget{
		Name:          "Achats mars",
		AccountPrefix: "60",
		Year:          2025,
		Month:         time.March,
		Limit:         amt("1000"),
	})
	if err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}

	post(t, journalSvc, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), 601, "400")
	post(t, journalSvc, time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC), 603, "300")
	// Different month and different prefix: both outside the budget.
	post(t, journalSvc, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), 601, "900")
	post(t, journalSvc, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), 622, "150")

	st, err := planSvc.Status(ctx, b.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !st.Spent.Equal(amt("700")) {
		t.Errorf("spent = %s, want 700", st.Spent)
	}
	if !st.Remaining.Equal(amt("300")) {
		t.Errorf("remaining = %s, want 300", st.Remaining)
	}
	if st.Over {
		t.Errorf("budget flagged over")
	}
}

func TestBudgetStatusOverLimit(t *testing.T) {
	planSvc, journalSvc := newService(t)
	ctx := context.Background()

	b, err := planSvc.CreateBudget(ctx, ledger.Budget{
		Name:          "Loyer",
		AccountPrefix: "62",
		Year:          2025,
		Month:         time.March,
		Limit:         amt("100"),
	})
	if err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}
	post(t, journalSvc, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 622, "250")

	st, err := planSvc.Status(ctx, b.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !st.Over {
		t.Errorf("budget not flagged over")
	}
	if !st.Remaining.Equal(amt("-150")) {
		t.Errorf("remaining = %s, want -150", st.Remaining)
	}
}

func TestCreateBudgetValidation(t *testing.T) {
	planSvc, _ := newService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		b    ledger.Budget
		want error
	}{
		{"empty prefix", ledger.Budget{Name: "x", Year: 2025, Month: time.March, Limit: amt("1")}, errs.ErrInvalid},
		{"non numeric prefix", ledger.Budget{Name: "x", AccountPrefix: "6a", Year: 2025, Month: time.March, Limit: amt("1")}, errs.ErrInvalid},
		{"bad month", ledger.Budget{Name: "x", AccountPrefix: "60", Year: 2025, Month: 13, Limit: amt("1")}, errs.ErrInvalid},
		{"zero limit", ledger.Budget{Name: "x", AccountPrefix: "60", Year: 2025, Month: time.March, Limit: amt("0")}, errs.ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := planSvc.CreateBudget(ctx, tc.b)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestGoalContributionAndProgress(t *testing.T) {
	planSvc, _ := newService(t)
	ctx := context.Background()

	g, err := planSvc.CreateGoal(ctx, ledger.SavingsGoal{Name: "Fonds de roulement", Target: amt("2000")})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	g, err = planSvc.Contribute(ctx, g.ID, amt("500"))
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	if !g.Saved.Equal(amt("500")) {
		t.Errorf("saved = %s, want 500", g.Saved)
	}
	if !g.Progress().Equal(amt("0.25")) {
		t.Errorf("progress = %s, want 0.25", g.Progress())
	}
	if g.Reached() {
		t.Errorf("goal reached too early")
	}

	g, err = planSvc.Contribute(ctx, g.ID, amt("1500"))
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	if !g.Reached() {
		t.Errorf("goal not reached at target")
	}
}

func TestContributeClampsAtTarget(t *testing.T) {
	planSvc, _ := newService(t)
	ctx := context.Background()

	g, err := planSvc.CreateGoal(ctx, ledger.SavingsGoal{Name: "Fonds de roulement", Target: amt("1000")})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	g, err = planSvc.Contribute(ctx, g.ID, amt("1500"))
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	if !g.Saved.Equal(amt("1000")) {
		t.Errorf("saved = %s, want 1000 (clamped)", g.Saved)
	}
	if !g.Progress().Equal(amt("1")) {
		t.Errorf("progress = %s, want 1", g.Progress())
	}

	// Further contributions keep the goal pinned at the target.
	g, err = planSvc.Contribute(ctx, g.ID, amt("50"))
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	if !g.Saved.Equal(amt("1000")) {
		t.Errorf("saved after extra contribution = %s, want 1000", g.Saved)
	}
}

func TestContributeRejectsNonPositive(t *testing.T) {
	planSvc, _ := newService(t)
	ctx := context.Background()

	g, err := planSvc.CreateGoal(ctx, ledger.SavingsGoal{Name: "x", Target: amt("100")})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	if _, err := planSvc.Contribute(ctx, g.ID, amt("0")); !errors.Is(err, errs.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
	if _, err := planSvc.Contribute(ctx, uuid.New(), amt("10")); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
