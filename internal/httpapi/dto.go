package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kdiallo/sikabooks/internal/ledger"
	"github.com/kdiallo/sikabooks/internal/meta"
	"github.com/kdiallo/sikabooks/internal/report"
	"github.com/kdiallo/sikabooks/internal/service/journal"
	"github.com/kdiallo/sikabooks/internal/service/plan"
)

// --- Journal ---

type postTransactionRequest struct {
	Date        time.Time             `json:"date"`
	Description string                `json:"description"`
	Lines       []postTransactionLine `json:"lines"`
}

type postTransactionLine struct {
	AccountNumber int    `json:"account_number"`
	Debit         string `json:"debit,omitempty"`
	Credit        string `json:"credit,omitempty"`
}

// transactionInput is the validated form stored in the request context.
type transactionInput struct {
	Date        time.Time
	Description string
	Lines       []journal.Line
}

func (req postTransactionRequest) toInput() (transactionInput, error) {
	in := transactionInput{
		Date:        req.Date,
		Description: req.Description,
		Lines:       make([]journal.Line, 0, len(req.Lines)),
	}
	for i, ln := range req.Lines {
		debit, err := parseAmount(ln.Debit)
		if err != nil {
			return transactionInput{}, errors.New("line[" + strconv.Itoa(i) + "]: invalid debit")
		}
		credit, err := parseAmount(ln.Credit)
		if err != nil {
			return transactionInput{}, errors.New("line[" + strconv.Itoa(i) + "]: invalid credit")
		}
		in.Lines = append(in.Lines, journal.Line{
			AccountNumber: ln.AccountNumber,
			Debit:         debit,
			Credit:        credit,
		})
	}
	return in, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

type entryResponse struct {
	ID            uuid.UUID          `json:"id"`
	GroupID       uuid.UUID          `json:"group_id"`
	Date          time.Time          `json:"date"`
	AccountNumber int                `json:"account_number"`
	Description   string             `json:"description"`
	Debit         decimal.Decimal    `json:"debit"`
	Credit        decimal.Decimal    `json:"credit"`
	Source        ledger.EntrySource `json:"source"`
	SourceID      uuid.UUID          `json:"source_id,omitempty"`
}

func toEntryResponse(e ledger.JournalEntry) entryResponse {
	return entryResponse{
		ID:            e.ID,
		GroupID:       e.GroupID,
		Date:          e.Date,
		AccountNumber: e.AccountNumber,
		Description:   e.Description,
		Debit:         e.Debit,
		Credit:        e.Credit,
		Source:        e.Source,
		SourceID:      e.SourceID,
	}
}

func toEntryResponses(entries []ledger.JournalEntry) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	return out
}

// --- Chart of accounts ---

type accountResponse struct {
	Number     int         `json:"number"`
	Name       string      `json:"name"`
	NormalSide ledger.Side `json:"normal_side"`
	Class      int         `json:"class"`
}

func toAccountResponse(a ledger.Account) accountResponse {
	return accountResponse{Number: a.Number, Name: a.Name, NormalSide: a.NormalSide, Class: a.Class()}
}

// --- Reports ---

type trialBalanceRow struct {
	AccountNumber int             `json:"account_number"`
	AccountName   string          `json:"account_name"`
	TotalDebit    decimal.Decimal `json:"total_debit"`
	TotalCredit   decimal.Decimal `json:"total_credit"`
}

type trialBalanceResponse struct {
	Rows        []trialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
	Balanced    bool              `json:"balanced"`
}

func toTrialBalanceResponse(tb report.TrialBalance) trialBalanceResponse {
	rows := make([]trialBalanceRow, 0, len(tb.Rows))
	for _, r := range tb.Rows {
		rows = append(rows, trialBalanceRow{
			AccountNumber: r.AccountNumber,
			AccountName:   r.AccountName,
			TotalDebit:    r.TotalDebit,
			TotalCredit:   r.TotalCredit,
		})
	}
	return trialBalanceResponse{
		Rows:        rows,
		TotalDebit:  tb.TotalDebit,
		TotalCredit: tb.TotalCredit,
		Balanced:    tb.Balanced,
	}
}

type ledgerLineResponse struct {
	Entry   entryResponse   `json:"entry"`
	Balance decimal.Decimal `json:"balance"`
}

type ledgerAccountResponse struct {
	AccountNumber int                  `json:"account_number"`
	AccountName   string               `json:"account_name"`
	NormalSide    ledger.Side          `json:"normal_side"`
	Lines         []ledgerLineResponse `json:"lines"`
	TotalDebit    decimal.Decimal      `json:"total_debit"`
	TotalCredit   decimal.Decimal      `json:"total_credit"`
	Balance       decimal.Decimal      `json:"balance"`
}

func toGeneralLedgerResponse(accounts []report.LedgerAccount) []ledgerAccountResponse {
	out := make([]ledgerAccountResponse, 0, len(accounts))
	for _, a := range accounts {
		lines := make([]ledgerLineResponse, 0, len(a.Lines))
		for _, ln := range a.Lines {
			lines = append(lines, ledgerLineResponse{Entry: toEntryResponse(ln.Entry), Balance: ln.Balance})
		}
		out = append(out, ledgerAccountResponse{
			AccountNumber: a.AccountNumber,
			AccountName:   a.AccountName,
			NormalSide:    a.NormalSide,
			Lines:         lines,
			TotalDebit:    a.TotalDebit,
			TotalCredit:   a.TotalCredit,
			Balance:       a.Balance,
		})
	}
	return out
}

type incomeStatementLine struct {
	Label    string          `json:"label"`
	Amount   decimal.Decimal `json:"amount"`
	Subtotal bool            `json:"subtotal,omitempty"`
	Total    bool            `json:"total,omitempty"`
	Indent   int             `json:"indent,omitempty"`
}

type incomeStatementResponse struct {
	Lines               []incomeStatementLine `json:"lines"`
	OperatingIncome     decimal.Decimal       `json:"operating_income"`
	OperatingExpenses   decimal.Decimal       `json:"operating_expenses"`
	OperatingResult     decimal.Decimal       `json:"operating_result"`
	FinancialResult     decimal.Decimal       `json:"financial_result"`
	OrdinaryResult      decimal.Decimal       `json:"ordinary_result"`
	ExtraordinaryResult decimal.Decimal       `json:"extraordinary_result"`
	IncomeTax           decimal.Decimal       `json:"income_tax"`
	NetResult           decimal.Decimal       `json:"net_result"`
}

func toIncomeStatementResponse(st report.IncomeStatement) incomeStatementResponse {
	lines := make([]incomeStatementLine, 0, len(st.Lines))
	for _, ln := range st.Lines {
		lines = append(lines, incomeStatementLine{
			Label:    ln.Label,
			Amount:   ln.Amount,
			Subtotal: ln.Subtotal,
			Total:    ln.Total,
			Indent:   ln.Indent,
		})
	}
	return incomeStatementResponse{
		Lines:               lines,
		OperatingIncome:     st.OperatingIncome,
		OperatingExpenses:   st.OperatingExpenses,
		OperatingResult:     st.OperatingResult,
		FinancialResult:     st.FinancialResult,
		OrdinaryResult:      st.OrdinaryResult,
		ExtraordinaryResult: st.ExtraordinaryResult,
		IncomeTax:           st.IncomeTax,
		NetResult:           st.NetResult,
	}
}

// --- Products and stock movements ---

type postProductRequest struct {
	Name           string        `json:"name"`
	SKU            string        `json:"sku,omitempty"`
	Currency       string        `json:"currency"`
	UnitPriceMinor int64         `json:"unit_price_minor"`
	UnitCostMinor  int64         `json:"unit_cost_minor"`
	Stock          int64         `json:"stock"`
	Metadata       meta.Metadata `json:"metadata,omitempty"`
}

type productResponse struct {
	ID             uuid.UUID     `json:"id"`
	Name           string        `json:"name"`
	SKU            string        `json:"sku"`
	Currency       string        `json:"currency"`
	UnitPriceMinor int64         `json:"unit_price_minor"`
	UnitCostMinor  int64         `json:"unit_cost_minor"`
	Stock          int64         `json:"stock"`
	Metadata       meta.Metadata `json:"metadata,omitempty"`
	Active         bool          `json:"active"`
}

func toProductResponse(p ledger.Product) productResponse {
	priceMinor, _ := p.UnitPrice.MinorUnits()
	costMinor, _ := p.UnitCost.MinorUnits()
	return productResponse{
		ID:             p.ID,
		Name:           p.Name,
		SKU:            p.SKU,
		Currency:       p.Currency,
		UnitPriceMinor: priceMinor,
		UnitCostMinor:  costMinor,
		Stock:          p.Stock,
		Metadata:       p.Metadata,
		Active:         p.Active,
	}
}

type postTradeRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	Date      time.Time `json:"date"`
}

type tradeResponse struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"product_id"`
	Quantity      int64     `json:"quantity"`
	TotalMinor    int64     `json:"total_minor"`
	Currency      string    `json:"currency"`
	Date          time.Time `json:"date"`
	PostedGroupID uuid.UUID `json:"posted_group_id"`
}

func toSaleResponse(v ledger.Sale) tradeResponse {
	minor, _ := v.Total.MinorUnits()
	return tradeResponse{
		ID:            v.ID,
		ProductID:     v.ProductID,
		Quantity:      v.Quantity,
		TotalMinor:    minor,
		Currency:      v.Total.Curr().Code(),
		Date:          v.Date,
		PostedGroupID: v.PostedGroupID,
	}
}

func toPurchaseResponse(v ledger.Purchase) tradeResponse {
	minor, _ := v.Total.MinorUnits()
	return tradeResponse{
		ID:            v.ID,
		ProductID:     v.ProductID,
		Quantity:      v.Quantity,
		TotalMinor:    minor,
		Currency:      v.Total.Curr().Code(),
		Date:          v.Date,
		PostedGroupID: v.PostedGroupID,
	}
}

// --- Invoices ---

type postInvoiceLine struct {
	Description    string `json:"description"`
	Quantity       int64  `json:"quantity"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
	AccountNumber  int    `json:"account_number,omitempty"`
}

type postInvoiceRequest struct {
	Customer string            `json:"customer"`
	Currency string            `json:"currency"`
	Date     time.Time         `json:"date"`
	Lines    []postInvoiceLine `json:"lines"`
	Metadata meta.Metadata     `json:"metadata,omitempty"`
}

type invoiceLineResponse struct {
	ID             uuid.UUID `json:"id"`
	Description    string    `json:"description"`
	Quantity       int64     `json:"quantity"`
	UnitPriceMinor int64     `json:"unit_price_minor"`
	AccountNumber  int       `json:"account_number"`
	TotalMinor     int64     `json:"total_minor"`
}

type invoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	Number        string                `json:"number,omitempty"`
	Customer      string                `json:"customer"`
	Currency      string                `json:"currency"`
	Date          time.Time             `json:"date"`
	Status        ledger.InvoiceStatus  `json:"status"`
	Lines         []invoiceLineResponse `json:"lines"`
	TotalMinor    int64                 `json:"total_minor"`
	Metadata      meta.Metadata         `json:"metadata,omitempty"`
	IssuedAt      *time.Time            `json:"issued_at,omitempty"`
	PaidAt        *time.Time            `json:"paid_at,omitempty"`
	PostedGroupID uuid.UUID             `json:"posted_group_id,omitempty"`
}

func toInvoiceResponse(inv ledger.Invoice) invoiceResponse {
	lines := make([]invoiceLineResponse, 0, len(inv.Lines))
	for _, ln := range inv.Lines {
		priceMinor, _ := ln.UnitPrice.MinorUnits()
		totalMinor, _ := ln.Total().MinorUnits()
		lines = append(lines, invoiceLineResponse{
			ID:             ln.ID,
			Description:    ln.Description,
			Quantity:       ln.Quantity,
			UnitPriceMinor: priceMinor,
			AccountNumber:  ln.AccountNumber,
			TotalMinor:     totalMinor,
		})
	}
	totalMinor, _ := inv.Total().MinorUnits()
	return invoiceResponse{
		ID:            inv.ID,
		Number:        inv.Number,
		Customer:      inv.Customer,
		Currency:      inv.Currency,
		Date:          inv.Date,
		Status:        inv.Status,
		Lines:         lines,
		TotalMinor:    totalMinor,
		Metadata:      inv.Metadata,
		IssuedAt:      inv.IssuedAt,
		PaidAt:        inv.PaidAt,
		PostedGroupID: inv.PostedGroupID,
	}
}

// --- Budgets and goals ---

type postBudgetRequest struct {
	Name          string `json:"name"`
	AccountPrefix string `json:"account_prefix"`
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	Limit         string `json:"limit"`
}

type budgetResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	AccountPrefix string          `json:"account_prefix"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	Limit         decimal.Decimal `json:"limit"`
}

func toBudgetResponse(b ledger.Budget) budgetResponse {
	return budgetResponse{
		ID:            b.ID,
		Name:          b.Name,
		AccountPrefix: b.AccountPrefix,
		Year:          b.Year,
		Month:         int(b.Month),
		Limit:         b.Limit,
	}
}

type budgetStatusResponse struct {
	Budget    budgetResponse  `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Over      bool            `json:"over"`
}

func toBudgetStatusResponse(st plan.BudgetStatus) budgetStatusResponse {
	return budgetStatusResponse{
		Budget:    toBudgetResponse(st.Budget),
		Spent:     st.Spent,
		Remaining: st.Remaining,
		Over:      st.Over,
	}
}

type postGoalRequest struct {
	Name   string `json:"name"`
	Target string `json:"target"`
	Saved  string `json:"saved,omitempty"`
}

type contributeRequest struct {
	Amount string `json:"amount"`
}

type goalResponse struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Target   decimal.Decimal `json:"target"`
	Saved    decimal.Decimal `json:"saved"`
	Progress decimal.Decimal `json:"progress"`
	Reached  bool            `json:"reached"`
}

func toGoalResponse(g ledger.SavingsGoal) goalResponse {
	return goalResponse{
		ID:       g.ID,
		Name:     g.Name,
		Target:   g.Target,
		Saved:    g.Saved,
		Progress: g.Progress(),
		Reached:  g.Reached(),
	}
}
