// Package journal owns journal-entry creation rules and the reporting
// surface. Balanced groups are enforced here, at creation time; the report
// builders downstream only ever detect imbalance, never reject it.
package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kdiallo/sikabooks/internal/coa"
	"github.com/kdiallo/sikabooks/internal/errs"
	"github.com/kdiallo/sikabooks/internal/ledger"
	"github.com/kdiallo/sikabooks/internal/report"
)

// Repo defines read operations needed by the service.
type Repo interface {
	Entries(ctx context.Context) ([]ledger.JournalEntry, error)
	Entry(ctx context.Context, id uuid.UUID) (ledger.JournalEntry, error)
}

// Writer defines write operations needed by the service. Implementations
// persist a group atomically.
type Writer interface {
	CreateEntries(ctx context.Context, entries []ledger.JournalEntry) error
}

// Line is one side of a transaction group to be posted.
type Line struct {
	AccountNumber int
	Debit         decimal.Decimal
	Credit        decimal.Decimal
}

// Service exposes posting of balanced groups and the derived reports.
type Service interface {
	PostGroup(ctx context.Context, date time.Time, description string, source ledger.EntrySource, sourceID uuid.UUID, lines []Line) ([]ledger.JournalEntry, error)
	ListEntries(ctx context.Context, from, to *time.Time) ([]ledger.JournalEntry, error)
	GetEntry(ctx context.Context, id uuid.UUID) (ledger.JournalEntry, error)
	TrialBalance(ctx context.Context, from, to *time.Time) (report.TrialBalance, error)
	GeneralLedger(ctx context.Context, from, to *time.Time) ([]report.LedgerAccount, error)
	IncomeStatement(ctx context.Context, from, to *time.Time) (report.IncomeStatement, error)
	Chart() *coa.Chart
}

type service struct {
	repo   Repo
	writer Writer
	chart  *coa.Chart
}

func New(repo Repo, writer Writer, chart *coa.Chart) Service {
	return &service{repo: repo, writer: writer, chart: chart}
}

func (s *service) Chart() *coa.Chart { return s.chart }

// validateGroup checks the creation-time invariant: well-formed lines whose
// debits and credits balance.
func validateGroup(date time.Time, description string, lines []Line) error {
	if date.IsZero() || description == "" {
		return errs.ErrInvalid
	}
	if len(lines) < 2 {
		return errs.ErrInvalid
	}
	var sumDebit, sumCredit decimal.Decimal
	for _, ln := range lines {
		if ln.AccountNumber <= 0 {
			return errs.ErrInvalid
		}
		if ln.Debit.IsNegative() || ln.Credit.IsNegative() {
			return errs.ErrInvalidAmount
		}
		if ln.Debit.IsZero() && ln.Credit.IsZero() {
			return errs.ErrInvalidAmount
		}
		sumDebit = sumDebit.Add(ln.Debit)
		sumCredit = sumCredit.Add(ln.Credit)
	}
	if !sumDebit.Equal(sumCredit) {
		return errs.ErrUnbalanced
	}
	return nil
}

// BuildGroup validates and constructs a balanced group of entries sharing
// one date, description and group ID, without persisting it. Callers that
// must write entries atomically with other rows (sales, invoice issuance)
// build here and commit through their own writer.
func BuildGroup(date time.Time, description string, source ledger.EntrySource, sourceID uuid.UUID, lines []Line) ([]ledger.JournalEntry, error) {
	if err := validateGroup(date, description, lines); err != nil {
		return nil, err
	}
	if source == "" {
		source = ledger.SourceManual
	}
	groupID := uuid.New()
	entries := make([]ledger.JournalEntry, 0, len(lines))
	for _, ln := range lines {
		entries = append(entries, ledger.JournalEntry{
			ID:            uuid.New(),
			GroupID:       groupID,
			Date:          date.UTC(),
			AccountNumber: ln.AccountNumber,
			Description:   description,
			Debit:         ln.Debit,
			Credit:        ln.Credit,
			Source:        source,
			SourceID:      sourceID,
		})
	}
	return entries, nil
}

// PostGroup validates and persists a balanced group of entries.
func (s *service) PostGroup(ctx context.Context, date time.Time, description string, source ledger.EntrySource, sourceID uuid.UUID, lines []Line) ([]ledger.JournalEntry, error) {
	entries, err := BuildGroup(date, description, source, sourceID, lines)
	if err != nil {
		return nil, err
	}
	if err := s.writer.CreateEntries(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *service) ListEntries(ctx context.Context, from, to *time.Time) ([]ledger.JournalEntry, error) {
	entries, err := s.repo.Entries(ctx)
	if err != nil {
		return nil, err
	}
	return filterByDate(entries, from, to), nil
}

func (s *service) GetEntry(ctx context.Context, id uuid.UUID) (ledger.JournalEntry, error) {
	if id == uuid.Nil {
		return ledger.JournalEntry{}, errs.ErrInvalid
	}
	return s.repo.Entry(ctx, id)
}

// TrialBalance derives the per-account debit/credit totals from the current
// entry snapshot.
func (s *service) TrialBalance(ctx context.Context, from, to *time.Time) (report.TrialBalance, error) {
	entries, err := s.repo.Entries(ctx)
	if err != nil {
		return report.TrialBalance{}, err
	}
	return report.BuildTrialBalance(filterByDate(entries, from, to), s.chart), nil
}

// GeneralLedger derives the per-account chronological listing with running
// balances from the current entry snapshot.
func (s *service) GeneralLedger(ctx context.Context, from, to *time.Time) ([]report.LedgerAccount, error) {
	entries, err := s.repo.Entries(ctx)
	if err != nil {
		return nil, err
	}
	return report.BuildGeneralLedger(filterByDate(entries, from, to), s.chart), nil
}

// IncomeStatement derives the SYSCOHADA profit and loss view from the
// current entry snapshot.
func (s *service) IncomeStatement(ctx context.Context, from, to *time.Time) (report.IncomeStatement, error) {
	entries, err := s.repo.Entries(ctx)
	if err != nil {
		return report.IncomeStatement{}, err
	}
	return report.BuildIncomeStatement(filterByDate(entries, from, to)), nil
}

func filterByDate(entries []ledger.JournalEntry, from, to *time.Time) []ledger.JournalEntry {
	if from == nil && to == nil {
		return entries
	}
	out := make([]ledger.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if from != nil && e.Date.Before(*from) {
			continue
		}
		if to != nil && e.Date.After(*to) {
			continue
		}
		out = append(out, e)
	}
	return out
}
