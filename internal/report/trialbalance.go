// Package report derives accounting views from a snapshot of journal
// entries: trial balance, general ledger and income statement. Builders are
// pure functions; they never mutate their input, hold no state between
// calls, and are total over any well-formed entry slice.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kdiallo/sikabooks/internal/coa"
	"github.com/kdiallo/sikabooks/internal/ledger"
)

// TrialBalanceRow is the per-account aggregate of debits and credits.
type TrialBalanceRow struct {
	AccountNumber int
	AccountName   string
	TotalDebit    decimal.Decimal
	TotalCredit   decimal.Decimal
}

// TrialBalance lists one row per account appearing in the entry set, sorted
// ascending by account number, with grand totals. Balanced is a reporting
// signal only; an unbalanced set still yields a complete result.
type TrialBalance struct {
	Rows        []TrialBalanceRow
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Balanced    bool
}

// BuildTrialBalance groups entries by account and sums each side. Account
// numbers the chart does not resolve are reported under coa.UnknownName.
func BuildTrialBalance(entries []ledger.JournalEntry, chart *coa.Chart) TrialBalance {
	byAccount := make(map[int]*TrialBalanceRow)
	for _, e := range entries {
		row, ok := byAccount[e.AccountNumber]
		if !ok {
			row = &TrialBalanceRow{
				AccountNumber: e.AccountNumber,
				AccountName:   chart.NameOf(e.AccountNumber),
			}
			byAccount[e.AccountNumber] = row
		}
		row.TotalDebit = row.TotalDebit.Add(e.Debit)
		row.TotalCredit = row.TotalCredit.Add(e.Credit)
	}

	out := TrialBalance{Rows: make([]TrialBalanceRow, 0, len(byAccount))}
	for _, row := range byAccount {
		out.Rows = append(out.Rows, *row)
	}
	sort.Slice(out.Rows, func(i, j int) bool {
		return out.Rows[i].AccountNumber < out.Rows[j].AccountNumber
	})
	for _, row := range out.Rows {
		out.TotalDebit = out.TotalDebit.Add(row.TotalDebit)
		out.TotalCredit = out.TotalCredit.Add(row.TotalCredit)
	}
	out.Balanced = out.TotalDebit.Equal(out.TotalCredit)
	return out
}
