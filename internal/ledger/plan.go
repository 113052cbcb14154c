package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget caps spending on a family of charge accounts for one month.
// AccountPrefix is matched against the decimal form of account numbers, the
// same convention the income statement classifier uses.
type Budget struct {
	ID            uuid.UUID
	Name          string
	AccountPrefix string
	Year          int
	Month         time.Month
	Limit         decimal.Decimal
}

// Covers reports whether the budget applies to the given entry.
func (b Budget) Covers(e JournalEntry) bool {
	if e.Date.Year() != b.Year || e.Date.Month() != b.Month {
		return false
	}
	key := e.AccountKey()
	return len(key) >= len(b.AccountPrefix) && key[:len(b.AccountPrefix)] == b.AccountPrefix
}

// SavingsGoal tracks progress toward a target amount.
type SavingsGoal struct {
	ID     uuid.UUID
	Name   string
	Target decimal.Decimal
	Saved  decimal.Decimal
}

// Progress returns Saved/Target rounded to 4 places, or zero when the
// target is not positive.
func (g SavingsGoal) Progress() decimal.Decimal {
	if !g.Target.IsPositive() {
		return decimal.Zero
	}
	return g.Saved.DivRound(g.Target, 4)
}

// Reached reports whether the goal target has been met.
func (g SavingsGoal) Reached() bool {
	return g.Target.IsPositive() && g.Saved.GreaterThanOrEqual(g.Target)
}
