// Package invoice implements customer invoicing: draft creation, issuance
// with a per-year sequential number, and payment. Issuing and paying post
// balanced journal groups in the same transaction as the status change.
package invoice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kdiallo/sikabooks/internal/errs"
	"github.com/kdiallo/sikabooks/internal/ledger"
	"github.com/kdiallo/sikabooks/internal/service/journal"
)

const (
	accountReceivables = 411 // Clients
	accountBank        = 512 // Banques
	defaultRevenue     = 701 // Ventes de marchandises
)

// Repo defines read operations needed by the service.
type Repo interface {
	Invoices(ctx context.Context) ([]ledger.Invoice, error)
	Invoice(ctx context.Context, id uuid.UUID) (ledger.Invoice, error)
}

// Writer defines write operations. UpdateInvoice persists the invoice and,
// when entries are given, the journal group in one transaction.
type Writer interface {
	CreateInvoice(ctx context.Context, inv ledger.Invoice) (ledger.Invoice, error)
	UpdateInvoice(ctx context.Context, inv ledger.Invoice, entries []ledger.JournalEntry) (ledger.Invoice, error)
}

// Sequencer hands out the next per-year invoice sequence number. The store
// must make this atomic so concurrent issuance never duplicates a number.
type Sequencer interface {
	NextInvoiceSeq(ctx context.Context, year int) (int64, error)
}

// Service exposes the invoice lifecycle.
type Service interface {
	Create(ctx context.Context, inv ledger.Invoice) (ledger.Invoice, error)
	List(ctx context.Context) ([]ledger.Invoice, error)
	Get(ctx context.Context, id uuid.UUID) (ledger.Invoice, error)
	Issue(ctx context.Context, id uuid.UUID, date time.Time) (ledger.Invoice, error)
	Pay(ctx context.Context, id uuid.UUID, cashAccount int, date time.Time) (ledger.Invoice, error)
}

type service struct {
	repo   Repo
	writer Writer
	seq    Sequencer
}

func New(repo Repo, writer Writer, seq Sequencer) Service {
	return &service{repo: repo, writer: writer, seq: seq}
}

// Create stores a draft. Lines without a revenue account default to 701.
func (s *service) Create(ctx context.Context, inv ledger.Invoice) (ledger.Invoice, error) {
	if inv.Customer == "" || inv.Currency == "" || inv.Date.IsZero() {
		return ledger.Invoice{}, errs.ErrInvalid
	}
	if len(inv.Lines) == 0 {
		return ledger.Invoice{}, errs.ErrInvalid
	}
	if err := inv.Metadata.Validate(); err != nil {
		return ledger.Invoice{}, errs.ErrInvalid
	}
	inv.Currency = strings.ToUpper(inv.Currency)
	for i := range inv.Lines {
		ln := &inv.Lines[i]
		if ln.Description == "" || ln.Quantity <= 0 {
			return ledger.Invoice{}, errs.ErrInvalid
		}
		if units, ok := ln.UnitPrice.MinorUnits(); !ok || units < 0 {
			return ledger.Invoice{}, errs.ErrInvalidAmount
		}
		if ln.UnitPrice.Curr().Code() != inv.Currency {
			return ledger.Invoice{}, errs.ErrInvalid
		}
		if ln.AccountNumber == 0 {
			ln.AccountNumber = defaultRevenue
		}
		ln.ID = uuid.New()
	}
	inv.ID = uuid.New()
	inv.Status = ledger.InvoiceDraft
	inv.Number = ""
	inv.Date = inv.Date.UTC()
	return s.writer.CreateInvoice(ctx, inv)
}

func (s *service) List(ctx context.Context) ([]ledger.Invoice, error) {
	return s.repo.Invoices(ctx)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (ledger.Invoice, error) {
	if id == uuid.Nil {
		return ledger.Invoice{}, errs.ErrInvalid
	}
	return s.repo.Invoice(ctx, id)
}

// Issue numbers a draft and posts receivable against revenue, one credit
// line per invoice line account.
func (s *service) Issue(ctx context.Context, id uuid.UUID, date time.Time) (ledger.Invoice, error) {
	if id == uuid.Nil || date.IsZero() {
		return ledger.Invoice{}, errs.ErrInvalid
	}
	inv, err := s.repo.Invoice(ctx, id)
	if err != nil {
		return ledger.Invoice{}, err
	}
	if inv.Status != ledger.InvoiceDraft {
		return ledger.Invoice{}, errs.ErrInvalidStatus
	}
	seq, err := s.seq.NextInvoiceSeq(ctx, date.Year())
	if err != nil {
		return ledger.Invoice{}, err
	}
	inv.Number = fmt.Sprintf("FAC-%d-%04d", date.Year(), seq)

	total := ledger.MoneyToDecimal(inv.Total())
	lines := []journal.Line{{AccountNumber: accountReceivables, Debit: total}}
	for _, cr := range creditsByAccount(inv) {
		lines = append(lines, cr)
	}
	entries, err := journal.BuildGroup(date, "Facture "+inv.Number+" - "+inv.Customer, ledger.SourceInvoice, inv.ID, lines)
	if err != nil {
		return ledger.Invoice{}, err
	}
	now := date.UTC()
	inv.Status = ledger.InvoiceIssued
	inv.IssuedAt = &now
	inv.PostedGroupID = entries[0].GroupID
	return s.writer.UpdateInvoice(ctx, inv, entries)
}

// Pay settles an issued invoice: debit the cash or bank account, credit the
// receivable.
func (s *service) Pay(ctx context.Context, id uuid.UUID, cashAccount int, date time.Time) (ledger.Invoice, error) {
	if id == uuid.Nil || date.IsZero() {
		return ledger.Invoice{}, errs.ErrInvalid
	}
	if cashAccount == 0 {
		cashAccount = accountBank
	}
	inv, err := s.repo.Invoice(ctx, id)
	if err != nil {
		return ledger.Invoice{}, err
	}
	if inv.Status != ledger.InvoiceIssued {
		return ledger.Invoice{}, errs.ErrInvalidStatus
	}
	total := ledger.MoneyToDecimal(inv.Total())
	entries, err := journal.BuildGroup(date, "Règlement "+inv.Number+" - "+inv.Customer, ledger.SourcePayment, inv.ID, []journal.Line{
		{AccountNumber: cashAccount, Debit: total},
		{AccountNumber: accountReceivables, Credit: total},
	})
	if err != nil {
		return ledger.Invoice{}, err
	}
	now := date.UTC()
	inv.Status = ledger.InvoicePaid
	inv.PaidAt = &now
	return s.writer.UpdateInvoice(ctx, inv, entries)
}

// creditsByAccount aggregates line totals per revenue account, in first
// occurrence order, so the posted group stays small and deterministic.
func creditsByAccount(inv ledger.Invoice) []journal.Line {
	sums := make(map[int]decimal.Decimal)
	order := make([]int, 0, len(inv.Lines))
	for _, ln := range inv.Lines {
		if _, ok := sums[ln.AccountNumber]; !ok {
			order = append(order, ln.AccountNumber)
		}
		sums[ln.AccountNumber] = sums[ln.AccountNumber].Add(ledger.MoneyToDecimal(ln.Total()))
	}
	out := make([]journal.Line, 0, len(order))
	for _, num := range order {
		out = append(out, journal.Line{AccountNumber: num, Credit: sums[num]})
	}
	return out
}
