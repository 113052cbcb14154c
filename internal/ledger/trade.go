package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"
	"github.com/shopspring/decimal"

	"github.com/kdiallo/sikabooks/internal/meta"
)

// Product is a stocked item a small enterprise sells or restocks.
type Product struct {
	ID        uuid.UUID
	Name      string
	SKU       string
	Currency  string
	UnitPrice money.Amount
	UnitCost  money.Amount
	Stock     int64
	Metadata  meta.Metadata `json:"metadata,omitempty"`
	Active    bool
}

// Sale records a quantity of a product sold on a date. PostedGroupID links
// to the journal group written alongside the stock decrement.
type Sale struct {
	ID            uuid.UUID
	ProductID     uuid.UUID
	Quantity      int64
	Total         money.Amount
	Date          time.Time
	PostedGroupID uuid.UUID
}

// Purchase records a restock of a product. PostedGroupID links to the
// journal group written alongside the stock increment.
type Purchase struct {
	ID            uuid.UUID
	ProductID     uuid.UUID
	Quantity      int64
	Total         money.Amount
	Date          time.Time
	PostedGroupID uuid.UUID
}

// MoneyToDecimal converts a currency amount to the plain decimal form the
// journal records, using the currency's minor-unit scale.
func MoneyToDecimal(a money.Amount) decimal.Decimal {
	units, _ := a.MinorUnits()
	return decimal.New(units, -int32(a.Curr().Scale()))
}

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft  InvoiceStatus = "draft"
	InvoiceIssued InvoiceStatus = "issued"
	InvoicePaid   InvoiceStatus = "paid"
)

// InvoiceLine is one billed line of an invoice. AccountNumber is the revenue
// account the line is posted to when the invoice is issued.
type InvoiceLine struct {
	ID            uuid.UUID
	Description   string
	Quantity      int64
	UnitPrice     money.Amount
	AccountNumber int
}

// Total returns quantity x unit price for the line.
func (l InvoiceLine) Total() money.Amount {
	units, _ := l.UnitPrice.MinorUnits()
	amt, _ := money.NewAmountFromMinorUnits(l.UnitPrice.Curr().Code(), units*l.Quantity)
	return amt
}

// Invoice is a customer invoice. Number is assigned when the invoice is
// issued, from a per-year sequential counter.
type Invoice struct {
	ID            uuid.UUID
	Number        string
	Customer      string
	Currency      string
	Date          time.Time
	Status        InvoiceStatus
	Lines         []InvoiceLine
	Metadata      meta.Metadata `json:"metadata,omitempty"`
	IssuedAt      *time.Time
	PaidAt        *time.Time
	PostedGroupID uuid.UUID
}

// Total sums the line totals in the invoice currency.
func (inv Invoice) Total() money.Amount {
	total, _ := money.NewAmountFromMinorUnits(inv.Currency, 0)
	for _, l := range inv.Lines {
		if v, err := total.Add(l.Total()); err == nil {
			total = v
		}
	}
	return total
}
