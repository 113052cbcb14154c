// Package memory provides an in-memory store used for development and
// tests. It keeps code paths easy to follow while allowing the pgx-backed
// store to be plugged in for real deployments.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kdiallo/sikabooks/internal/errs"
	"github.com/kdiallo/sikabooks/internal/ledger"
)

// entryKey orders journal entries asc by (Date, insertion sequence). The
// sequence tie-break makes same-date ordering deterministic, which the
// general ledger's stable sort relies on.
type entryKey struct {
	Date time.Time
	Seq  uint64
	ID   uuid.UUID
}

// Store is an in-memory implementation of every repository and writer used
// by the services. Guarded by an RWMutex for concurrent reads and writes.
type Store struct {
	mu         sync.RWMutex
	seq        uint64
	entries    map[uuid.UUID]ledger.JournalEntry
	entryKeys  []entryKey
	products   map[uuid.UUID]ledger.Product
	sales      map[uuid.UUID]ledger.Sale
	purchases  map[uuid.UUID]ledger.Purchase
	invoices   map[uuid.UUID]ledger.Invoice
	invoiceSeq map[int]int64
	budgets    map[uuid.UUID]ledger.Budget
	goals      map[uuid.UUID]ledger.SavingsGoal
}

// New constructs an empty store.
func New() *Store {
	s := &Store{}
	s.reset()
	return s
}

// Reset clears all data. Test helper.
func (s *Store) Reset() {
	s.mu.Lock()
	s.reset()
	s.mu.Unlock()
}

func (s *Store) reset() {
	s.seq = 0
	s.entries = map[uuid.UUID]ledger.JournalEntry{}
	s.entryKeys = nil
	s.products = map[uuid.UUID]ledger.Product{}
	s.sales = map[uuid.UUID]ledger.Sale{}
	s.purchases = map[uuid.UUID]ledger.Purchase{}
	s.invoices = map[uuid.UUID]ledger.Invoice{}
	s.invoiceSeq = map[int]int64{}
	s.budgets = map[uuid.UUID]ledger.Budget{}
	s.goals = map[uuid.UUID]ledger.SavingsGoal{}
}

// --- Journal ---

// Entries returns all journal entries sorted asc by (date, insertion order).
func (s *Store) Entries(_ context.Context) ([]ledger.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.JournalEntry, 0, len(s.entryKeys))
	for _, k := range s.entryKeys {
		out = append(out, s.entries[k.ID])
	}
	return out, nil
}

// Entry returns a single journal entry.
func (s *Store) Entry(_ context.Context, id uuid.UUID) (ledger.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return ledger.JournalEntry{}, errs.ErrNotFound
	}
	return e, nil
}

// CreateEntries stores a group of entries atomically.
func (s *Store) CreateEntries(_ context.Context, entries []ledger.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertEntriesLocked(entries)
	return nil
}

// insertEntriesLocked appends entries to the map and the sorted index.
// Caller must hold s.mu (write lock).
func (s *Store) insertEntriesLocked(entries []ledger.JournalEntry) {
	for _, e := range entries {
		s.seq++
		s.entries[e.ID] = e
		k := entryKey{Date: e.Date, Seq: s.seq, ID: e.ID}
		i := sort.Search(len(s.entryKeys), func(i int) bool {
			if s.entryKeys[i].Date.After(k.Date) {
				return true
			}
			return s.entryKeys[i].Date.Equal(k.Date) && s.entryKeys[i].Seq > k.Seq
		})
		s.entryKeys = append(s.entryKeys, entryKey{})
		copy(s.entryKeys[i+1:], s.entryKeys[i:])
		s.entryKeys[i] = k
	}
}

// --- Products / trades ---

// Products returns all products sorted by SKU.
func (s *Store) Products(_ context.Context) ([]ledger.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

// Product returns one product by ID.
func (s *Store) Product(_ context.Context, id uuid.UUID) (ledger.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return ledger.Product{}, errs.ErrNotFound
	}
	return p, nil
}

// CreateProduct persists a new product.
func (s *Store) CreateProduct(_ context.Context, p ledger.Product) (ledger.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
	return p, nil
}

// Sales returns all sales sorted by date.
func (s *Store) Sales(_ context.Context) ([]ledger.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.Sale, 0, len(s.sales))
	for _, v := range s.sales {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// Purchases returns all purchases sorted by date.
func (s *Store) Purchases(_ context.Context) ([]ledger.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.Purchase, 0, len(s.purchases))
	for _, v := range s.purchases {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// CreateSale persists the sale, the product's new stock level and the
// journal group under one lock, so no partial state is observable.
func (s *Store) CreateSale(_ context.Context, sale ledger.Sale, product ledger.Product, entries []ledger.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[product.ID]; !ok {
		return errs.ErrNotFound
	}
	s.sales[sale.ID] = sale
	s.products[product.ID] = product
	s.insertEntriesLocked(entries)
	return nil
}

// CreatePurchase persists the purchase, stock level and journal group
// atomically.
func (s *Store) CreatePurchase(_ context.Context, purchase ledger.Purchase, product ledger.Product, entries []ledger.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[product.ID]; !ok {
		return errs.ErrNotFound
	}
	s.purchases[purchase.ID] = purchase
	s.products[product.ID] = product
	s.insertEntriesLocked(entries)
	return nil
}

// --- Invoices ---

// Invoices returns all invoices sorted by date then number.
func (s *Store) Invoices(_ context.Context) ([]ledger.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].Number < out[j].Number
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

// Invoice returns one invoice by ID.
func (s *Store) Invoice(_ context.Context, id uuid.UUID) (ledger.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	if !ok {
		return ledger.Invoice{}, errs.ErrNotFound
	}
	return inv, nil
}

// CreateInvoice persists a draft invoice.
func (s *Store) CreateInvoice(_ context.Context, inv ledger.Invoice) (ledger.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[inv.ID] = inv
	return inv, nil
}

// UpdateInvoice persists invoice changes and, when given, the journal group
// in the same critical section.
func (s *Store) UpdateInvoice(_ context.Context, inv ledger.Invoice, entries []ledger.JournalEntry) (ledger.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[inv.ID]; !ok {
		return ledger.Invoice{}, errs.ErrNotFound
	}
	s.invoices[inv.ID] = inv
	if len(entries) > 0 {
		s.insertEntriesLocked(entries)
	}
	return inv, nil
}

// NextInvoiceSeq returns the next sequential invoice number for a year.
func (s *Store) NextInvoiceSeq(_ context.Context, year int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoiceSeq[year]++
	return s.invoiceSeq[year], nil
}

// --- Budgets and goals ---

// Budgets returns all budgets sorted by name.
func (s *Store) Budgets(_ context.Context) ([]ledger.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.Budget, 0, len(s.budgets))
	for _, b := range s.budgets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Budget returns one budget by ID.
func (s *Store) Budget(_ context.Context, id uuid.UUID) (ledger.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.budgets[id]
	if !ok {
		return ledger.Budget{}, errs.ErrNotFound
	}
	return b, nil
}

// CreateBudget persists a budget.
func (s *Store) CreateBudget(_ context.Context, b ledger.Budget) (ledger.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[b.ID] = b
	return b, nil
}

// Goals returns all savings goals sorted by name.
func (s *Store) Goals(_ context.Context) ([]ledger.SavingsGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.SavingsGoal, 0, len(s.goals))
	for _, g := range s.goals {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Goal returns one savings goal by ID.
func (s *Store) Goal(_ context.Context, id uuid.UUID) (ledger.SavingsGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.goals[id]
	if !ok {
		return ledger.SavingsGoal{}, errs.ErrNotFound
	}
	return g, nil
}

// CreateGoal persists a savings goal.
func (s *Store) CreateGoal(_ context.Context, g ledger.SavingsGoal) (ledger.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.ID] = g
	return g, nil
}

// UpdateGoal persists changes to a savings goal.
func (s *Store) UpdateGoal(_ context.Context, g ledger.SavingsGoal) (ledger.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[g.ID]; !ok {
		return ledger.SavingsGoal{}, errs.ErrNotFound
	}
	s.goals[g.ID] = g
	return g, nil
}
