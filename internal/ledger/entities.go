package ledger

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side represents the accounting position an account's balance grows on.
type Side string

const (
	// SideDebit marks accounts whose balance increases with debits (assets, charges).
	SideDebit Side = "debit"
	// SideCredit marks accounts whose balance increases with credits (liabilities, equity, revenue).
	SideCredit Side = "credit"
)

// Account is one row of the SYSCOHADA chart of accounts.
type Account struct {
	Number     int
	Name       string
	NormalSide Side
}

// Class returns the SYSCOHADA class of the account: the leading digit of its
// number. It is always derived, never stored, so it cannot diverge from Number.
func (a Account) Class() int {
	n := a.Number
	for n >= 10 {
		n /= 10
	}
	return n
}

// EntrySource identifies the subsystem that posted a journal entry.
type EntrySource string

const (
	SourceManual   EntrySource = "manual"
	SourceInvoice  EntrySource = "invoice"
	SourcePayment  EntrySource = "payment"
	SourceSale     EntrySource = "sale"
	SourcePurchase EntrySource = "purchase"
)

// JournalEntry is a single debit-or-credit line tied to an account, a date
// and a description. Entries posted together share a GroupID; a balanced
// group has sum(debit) == sum(credit), enforced at creation time.
type JournalEntry struct {
	ID            uuid.UUID
	GroupID       uuid.UUID
	Date          time.Time
	AccountNumber int
	Description   string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Source        EntrySource
	SourceID      uuid.UUID
}

// AccountKey returns the entry's account number in its string form, the form
// the income statement classifier matches prefixes against.
func (e JournalEntry) AccountKey() string {
	return strconv.Itoa(e.AccountNumber)
}
