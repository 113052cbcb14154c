// Package plan implements budgets and savings goals. Budget consumption is
// never stored; it is derived from the journal snapshot on demand, the same
// way the reports are.
package plan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kdiallo/sikabooks/internal/errs"
	"github.com/kdiallo/sikabooks/internal/ledger"
	"github.com/kdiallo/sikabooks/internal/service/journal"
)

// Repo defines read operations needed by the service.
type Repo interface {
	Budgets(ctx context.Context) ([]ledger.Budget, error)
	Budget(ctx context.Context, id uuid.UUID) (ledger.Budget, error)
	Goals(ctx context.Context) ([]ledger.SavingsGoal, error)
	Goal(ctx context.Context, id uuid.UUID) (ledger.SavingsGoal, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
	CreateBudget(ctx context.Context, b ledger.Budget) (ledger.Budget, error)
	CreateGoal(ctx context.Context, g ledger.SavingsGoal) (ledger.SavingsGoal, error)
	UpdateGoal(ctx context.Context, g ledger.SavingsGoal) (ledger.SavingsGoal, error)
}

// BudgetStatus is the derived view of one budget against actual spending.
type BudgetStatus struct {
	Budget    ledger.Budget
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	Over      bool
}

// Service exposes budget and savings-goal operations.
type Service interface {
	CreateBudget(ctx context.Context, b ledger.Budget) (ledger.Budget, error)
	ListBudgets(ctx context.Context) ([]ledger.Budget, error)
	Status(ctx context.Context, id uuid.UUID) (BudgetStatus, error)
	CreateGoal(ctx context.Context, g ledger.SavingsGoal) (ledger.SavingsGoal, error)
	ListGoals(ctx context.Context) ([]ledger.SavingsGoal, error)
	Contribute(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (ledger.SavingsGoal, error)
}

type service struct {
	repo    Repo
	entries journal.Repo
	writer  Writer
}

func New(repo Repo, entries journal.Repo, writer Writer) Service {
	return &service{repo: repo, entries: entries, writer: writer}
}

func (s *service) CreateBudget(ctx context.Context, b ledger.Budget) (ledger.Budget, error) {
	if b.Name == "" || !isDigits(b.AccountPrefix) {
		return ledger.Budget{}, errs.ErrInvalid
	}
	if b.Year < 2000 || b.Month < time.January || b.Month > time.December {
		return ledger.Budget{}, errs.ErrInvalid
	}
	if !b.Limit.IsPositive() {
		return ledger.Budget{}, errs.ErrInvalidAmount
	}
	b.ID = uuid.New()
	return s.writer.CreateBudget(ctx, b)
}

func (s *service) ListBudgets(ctx context.Context) ([]ledger.Budget, error) {
	return s.repo.Budgets(ctx)
}

// Status computes actual spending for the budget's month and account prefix
// from the current journal snapshot. Spending is the net debit of covered
// entries; refunds (credits) reduce it.
func (s *service) Status(ctx context.Context, id uuid.UUID) (BudgetStatus, error) {
	if id == uuid.Nil {
		return BudgetStatus{}, errs.ErrInvalid
	}
	b, err := s.repo.Budget(ctx, id)
	if err != nil {
		return BudgetStatus{}, err
	}
	entries, err := s.entries.Entries(ctx)
	if err != nil {
		return BudgetStatus{}, err
	}
	spent := decimal.Zero
	for _, e := range entries {
		if b.Covers(e) {
			spent = spent.Add(e.Debit).Sub(e.Credit)
		}
	}
	return BudgetStatus{
		Budget:    b,
		Spent:     spent,
		Remaining: b.Limit.Sub(spent),
		Over:      spent.GreaterThan(b.Limit),
	}, nil
}

func (s *service) CreateGoal(ctx context.Context, g ledger.SavingsGoal) (ledger.SavingsGoal, error) {
	if g.Name == "" {
		return ledger.SavingsGoal{}, errs.ErrInvalid
	}
	if !g.Target.IsPositive() {
		return ledger.SavingsGoal{}, errs.ErrInvalidAmount
	}
	if g.Saved.IsNegative() {
		return ledger.SavingsGoal{}, errs.ErrInvalidAmount
	}
	g.ID = uuid.New()
	return s.writer.CreateGoal(ctx, g)
}

func (s *service) ListGoals(ctx context.Context) ([]ledger.SavingsGoal, error) {
	return s.repo.Goals(ctx)
}

// Contribute adds a positive amount to the goal's saved total, clamped at
// the target so progress never exceeds 1.
func (s *service) Contribute(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (ledger.SavingsGoal, error) {
	if id == uuid.Nil {
		return ledger.SavingsGoal{}, errs.ErrInvalid
	}
	if !amount.IsPositive() {
		return ledger.SavingsGoal{}, errs.ErrInvalidAmount
	}
	g, err := s.repo.Goal(ctx, id)
	if err != nil {
		return ledger.SavingsGoal{}, err
	}
	g.Saved = g.Saved.Add(amount)
	if g.Saved.GreaterThan(g.Target) {
		g.Saved = g.Target
	}
	return s.writer.UpdateGoal(ctx, g)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
