package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kdiallo/sikabooks/internal/coa"
	"github.com/kdiallo/sikabooks/internal/ledger"
)

// LedgerLine pairs an entry with the account balance after applying it.
type LedgerLine struct {
	Entry   ledger.JournalEntry
	Balance decimal.Decimal
}

// LedgerAccount is the chronological listing of one account's entries with a
// running balance computed on the account's normal side.
type LedgerAccount struct {
	AccountNumber int
	AccountName   string
	NormalSide    ledger.Side
	Lines         []LedgerLine
	TotalDebit    decimal.Decimal
	TotalCredit   decimal.Decimal
	Balance       decimal.Decimal
}

// BuildGeneralLedger emits one section per account present in the input,
// sorted ascending by account number. Entries within an account are ordered
// by date; entries sharing a date keep their input order (stable sort), so
// the tie-break is the caller's insertion order. Accounts absent from the
// chart use coa.UnknownName and coa.UnknownSide.
func BuildGeneralLedger(entries []ledger.JournalEntry, chart *coa.Chart) []LedgerAccount {
	byAccount := make(map[int][]ledger.JournalEntry)
	numbers := make([]int, 0)
	for _, e := range entries {
		if _, ok := byAccount[e.AccountNumber]; !ok {
			numbers = append(numbers, e.AccountNumber)
		}
		byAccount[e.AccountNumber] = append(byAccount[e.AccountNumber], e)
	}
	sort.Ints(numbers)

	out := make([]LedgerAccount, 0, len(numbers))
	for _, num := range numbers {
		selected := byAccount[num]
		sort.SliceStable(selected, func(i, j int) bool {
			return selected[i].Date.Before(selected[j].Date)
		})

		acct := LedgerAccount{
			AccountNumber: num,
			AccountName:   chart.NameOf(num),
			NormalSide:    chart.SideOf(num),
			Lines:         make([]LedgerLine, 0, len(selected)),
		}
		running := decimal.Zero
		for _, e := range selected {
			if acct.NormalSide == ledger.SideDebit {
				running = running.Add(e.Debit).Sub(e.Credit)
			} else {
				running = running.Add(e.Credit).Sub(e.Debit)
			}
			acct.Lines = append(acct.Lines, LedgerLine{Entry: e, Balance: running})
			acct.TotalDebit = acct.TotalDebit.Add(e.Debit)
			acct.TotalCredit = acct.TotalCredit.Add(e.Credit)
		}
		acct.Balance = running
		out = append(out, acct)
	}
	return out
}
