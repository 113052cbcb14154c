// Package postgres provides a pgx-backed storage implementation satisfying
// the repository and writer interfaces used by the services.
//
// It is intentionally small and explicit. The expected schema lives under
// db/migrations. Decimal columns travel as text between Go and Postgres;
// money travels as minor units plus a currency code.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kdiallo/sikabooks/internal/errs"
	"github.com/kdiallo/sikabooks/internal/ledger"
	"github.com/kdiallo/sikabooks/internal/meta"
)

// Store holds a pgx connection pool and implements the read/write
// interfaces used across the service layer. Safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// --- Journal ---

// Entries returns all journal entries ordered asc by (date, insertion order).
func (s *Store) Entries(ctx context.Context) ([]ledger.JournalEntry, error) {
	rows, err := s.pool.Query(ctx, `
		select id, group_id, date, account_number, description, debit::text, credit::text, source, source_id
		from entries
		order by date asc, seq asc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ledger.JournalEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Entry returns a single journal entry by ID.
func (s *Store) Entry(ctx context.Context, id uuid.UUID) (ledger.JournalEntry, error) {
	row := s.pool.QueryRow(ctx, `
		select id, group_id, date, account_number, description, debit::text, credit::text, source, source_id
		from entries
		where id = $1
	`, id)
	e, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.JournalEntry{}, errs.ErrNotFound
	}
	return e, err
}

// CreateEntries inserts a group of entries in one transaction.
func (s *Store) CreateEntries(ctx context.Context, entries []ledger.JournalEntry) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := insertEntries(ctx, tx, entries); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type rowScanner interface{ Scan(dest ...any) error }

func scanEntry(row rowScanner) (ledger.JournalEntry, error) {
	var e ledger.JournalEntry
	var debit, credit string
	var source string
	if err := row.Scan(&e.ID, &e.GroupID, &e.Date, &e.AccountNumber, &e.Description, &debit, &credit, &source, &e.SourceID); err != nil {
		return ledger.JournalEntry{}, err
	}
	var err error
	if e.Debit, err = decimal.NewFromString(debit); err != nil {
		return ledger.JournalEntry{}, err
	}
	if e.Credit, err = decimal.NewFromString(credit); err != nil {
		return ledger.JournalEntry{}, err
	}
	e.Source = ledger.EntrySource(source)
	return e, nil
}

func insertEntries(ctx context.Context, tx pgx.Tx, entries []ledger.JournalEntry) error {
	for _, e := range entries {
		if _, err := tx.Exec(ctx, `
			insert into entries (id, group_id, date, account_number, description, debit, credit, source, source_id)
			values ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`, e.ID, e.GroupID, e.Date, e.AccountNumber, e.Description, e.Debit.String(), e.Credit.String(), string(e.Source), e.SourceID); err != nil {
			return err
		}
	}
	return nil
}

// --- Products / trades ---

// Products returns all products ordered by SKU.
func (s *Store) Products(ctx context.Context) ([]ledger.Product, error) {
	rows, err := s.pool.Query(ctx, `
		select id, name, sku, currency, unit_price_minor, unit_cost_minor, stock, metadata, active
		from products
		order by sku asc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ledger.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Product returns one product by ID.
func (s *Store) Product(ctx context.Context, id uuid.UUID) (ledger.Product, error) {
	row := s.pool.QueryRow(ctx, `
		select id, name, sku, currency, unit_price_minor, unit_cost_minor, stock, metadata, active
		from products
		where id = $1
	`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.Product{}, errs.ErrNotFound
	}
	return p, err
}

func scanProduct(row rowScanner) (ledger.Product, error) {
	var p ledger.Product
	var priceMinor, costMinor int64
	var mdBytes []byte
	if err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Currency, &priceMinor, &costMinor, &p.Stock, &mdBytes, &p.Active); err != nil {
		return ledger.Product{}, err
	}
	p.UnitPrice, _ = money.NewAmountFromMinorUnits(p.Currency, priceMinor)
	p.UnitCost, _ = money.NewAmountFromMinorUnits(p.Currency, costMinor)
	if len(mdBytes) > 0 {
		var m meta.Metadata
		if err := m.UnmarshalJSON(mdBytes); err == nil {
			p.Metadata = m
		}
	}
	return p, nil
}

// CreateProduct inserts a product row.
func (s *Store) CreateProduct(ctx context.Context, p ledger.Product) (ledger.Product, error) {
	md, _ := p.Metadata.MarshalStableJSON()
	priceMinor, _ := p.UnitPrice.MinorUnits()
	costMinor, _ := p.UnitCost.MinorUnits()
	_, err := s.pool.Exec(ctx, `
		insert into products (id, name, sku, currency, unit_price_minor, unit_cost_minor, stock, metadata, active)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, p.ID, p.Name, p.SKU, p.Currency, priceMinor, costMinor, p.Stock, md, p.Active)
	if err != nil {
		return ledger.Product{}, err
	}
	return p, nil
}

// Sales returns all sales ordered by date.
func (s *Store) Sales(ctx context.Context) ([]ledger.Sale, error) {
	rows, err := s.pool.Query(ctx, `
		select id, product_id, quantity, total_minor, currency, date, posted_group_id
		from sales
		order by date asc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ledger.Sale, 0)
	for rows.Next() {
		var v ledger.Sale
		var minor int64
		var curr string
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Quantity, &minor, &curr, &v.Date, &v.PostedGroupID); err != nil {
			return nil, err
		}
		v.Total, _ = money.NewAmountFromMinorUnits(curr, minor)
		out = append(out, v)
	}
	return out, rows.Err()
}

// Purchases returns all purchases ordered by date.
func (s *Store) Purchases(ctx context.Context) ([]ledger.Purchase, error) {
	rows, err := s.pool.Query(ctx, `
		select id, product_id, quantity, total_minor, currency, date, posted_group_id
		from purchases
		order by date asc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ledger.Purchase, 0)
	for rows.Next() {
		var v ledger.Purchase
		var minor int64
		var curr string
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Quantity, &minor, &curr, &v.Date, &v.PostedGroupID); err != nil {
			return nil, err
		}
		v.Total, _ = money.NewAmountFromMinorUnits(curr, minor)
		out = append(out, v)
	}
	return out, rows.Err()
}

// CreateSale persists the sale, the product's new stock level and the
// journal group in one transaction.
func (s *Store) CreateSale(ctx context.Context, sale ledger.Sale, product ledger.Product, entries []ledger.JournalEntry) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	minor, _ := sale.Total.MinorUnits()
	if _, err := tx.Exec(ctx, `
		insert into sales (id, product_id, quantity, total_minor, currency, date, posted_group_id)
		values ($1,$2,$3,$4,$5,$6,$7)
	`, sale.ID, sale.ProductID, sale.Quantity, minor, sale.Total.Curr().Code(), sale.Date, sale.PostedGroupID); err != nil {
		return err
	}
	ct, err := tx.Exec(ctx, `update products set stock=$1 where id=$2`, product.Stock, product.ID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	if err := insertEntries(ctx, tx, entries); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// CreatePurchase persists the purchase, stock level and journal group in
// one transaction.
func (s *Store) CreatePurchase(ctx context.Context, purchase ledger.Purchase, product ledger.Product, entries []ledger.JournalEntry) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	minor, _ := purchase.Total.MinorUnits()
	if _, err := tx.Exec(ctx, `
		insert into purchases (id, product_id, quantity, total_minor, currency, date, posted_group_id)
		values ($1,$2,$3,$4,$5,$6,$7)
	`, purchase.ID, purchase.ProductID, purchase.Quantity, minor, purchase.Total.Curr().Code(), purchase.Date, purchase.PostedGroupID); err != nil {
		return err
	}
	ct, err := tx.Exec(ctx, `update products set stock=$1 where id=$2`, product.Stock, product.ID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	if err := insertEntries(ctx, tx, entries); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// --- Invoices ---

// Invoices returns all invoices with lines populated, ordered by date.
func (s *Store) Invoices(ctx context.Context) ([]ledger.Invoice, error) {
	rows, err := s.pool.Query(ctx, `
		select id, number, customer, currency, date, status, metadata, issued_at, paid_at, posted_group_id
		from invoices
		order by date asc, number asc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	invoices := make([]ledger.Invoice, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
		ids = append(ids, inv.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return invoices, nil
	}
	lineRows, err := s.pool.Query(ctx, `
		select id, invoice_id, description, quantity, unit_price_minor, account_number
		from invoice_lines
		where invoice_id = any($1)
		order by id asc
	`, ids)
	if err != nil {
		return nil, err
	}
	defer lineRows.Close()
	idx := make(map[uuid.UUID]*ledger.Invoice, len(invoices))
	for i := range invoices {
		idx[invoices[i].ID] = &invoices[i]
	}
	for lineRows.Next() {
		var ln ledger.InvoiceLine
		var invoiceID uuid.UUID
		var minor int64
		if err := lineRows.Scan(&ln.ID, &invoiceID, &ln.Description, &ln.Quantity, &minor, &ln.AccountNumber); err != nil {
			return nil, err
		}
		inv := idx[invoiceID]
		if inv == nil {
			continue
		}
		ln.UnitPrice, _ = money.NewAmountFromMinorUnits(inv.Currency, minor)
		inv.Lines = append(inv.Lines, ln)
	}
	return invoices, lineRows.Err()
}

// Invoice returns one invoice with lines populated.
func (s *Store) Invoice(ctx context.Context, id uuid.UUID) (ledger.Invoice, error) {
	row := s.pool.QueryRow(ctx, `
		select id, number, customer, currency, date, status, metadata, issued_at, paid_at, posted_group_id
		from invoices
		where id = $1
	`, id)
	inv, err := scanInvoice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.Invoice{}, errs.ErrNotFound
	}
	if err != nil {
		return ledger.Invoice{}, err
	}
	rows, err := s.pool.Query(ctx, `
		select id, description, quantity, unit_price_minor, account_number
		from invoice_lines
		where invoice_id = $1
		order by id asc
	`, id)
	if err != nil {
		return ledger.Invoice{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var ln ledger.InvoiceLine
		var minor int64
		if err := rows.Scan(&ln.ID, &ln.Description, &ln.Quantity, &minor, &ln.AccountNumber); err != nil {
			return ledger.Invoice{}, err
		}
		ln.UnitPrice, _ = money.NewAmountFromMinorUnits(inv.Currency, minor)
		inv.Lines = append(inv.Lines, ln)
	}
	return inv, rows.Err()
}

func scanInvoice(row rowScanner) (ledger.Invoice, error) {
	var inv ledger.Invoice
	var status string
	var mdBytes []byte
	var number *string
	if err := row.Scan(&inv.ID, &number, &inv.Customer, &inv.Currency, &inv.Date, &status, &mdBytes, &inv.IssuedAt, &inv.PaidAt, &inv.PostedGroupID); err != nil {
		return ledger.Invoice{}, err
	}
	if number != nil {
		inv.Number = *number
	}
	inv.Status = ledger.InvoiceStatus(status)
	if len(mdBytes) > 0 {
		var m meta.Metadata
		if err := m.UnmarshalJSON(mdBytes); err == nil {
			inv.Metadata = m
		}
	}
	return inv, nil
}

// CreateInvoice inserts the invoice header and its lines in a transaction.
func (s *Store) CreateInvoice(ctx context.Context, inv ledger.Invoice) (ledger.Invoice, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ledger.Invoice{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	md, _ := inv.Metadata.MarshalStableJSON()
	if _, err := tx.Exec(ctx, `
		insert into invoices (id, number, customer, currency, date, status, metadata, issued_at, paid_at, posted_group_id)
		values ($1, nullif($2,''), $3, $4, $5, $6, $7, $8, $9, $10)
	`, inv.ID, inv.Number, inv.Customer, inv.Currency, inv.Date, string(inv.Status), md, inv.IssuedAt, inv.PaidAt, inv.PostedGroupID); err != nil {
		return ledger.Invoice{}, err
	}
	for _, ln := range inv.Lines {
		minor, _ := ln.UnitPrice.MinorUnits()
		if _, err := tx.Exec(ctx, `
			insert into invoice_lines (id, invoice_id, description, quantity, unit_price_minor, account_number)
			values ($1,$2,$3,$4,$5,$6)
		`, ln.ID, inv.ID, ln.Description, ln.Quantity, minor, ln.AccountNumber); err != nil {
			return ledger.Invoice{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return ledger.Invoice{}, err
	}
	return inv, nil
}

// UpdateInvoice persists header changes and, when entries are given, the
// journal group in the same transaction. Lines are immutable after create.
func (s *Store) UpdateInvoice(ctx context.Context, inv ledger.Invoice, entries []ledger.JournalEntry) (ledger.Invoice, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ledger.Invoice{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	md, _ := inv.Metadata.MarshalStableJSON()
	ct, err := tx.Exec(ctx, `
		update invoices
		set number=nullif($1,''), status=$2, metadata=$3, issued_at=$4, paid_at=$5, posted_group_id=$6
		where id=$7
	`, inv.Number, string(inv.Status), md, inv.IssuedAt, inv.PaidAt, inv.PostedGroupID, inv.ID)
	if err != nil {
		return ledger.Invoice{}, err
	}
	if ct.RowsAffected() == 0 {
		return ledger.Invoice{}, errs.ErrNotFound
	}
	if len(entries) > 0 {
		if err := insertEntries(ctx, tx, entries); err != nil {
			return ledger.Invoice{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return ledger.Invoice{}, err
	}
	return inv, nil
}

// NextInvoiceSeq atomically increments and returns the per-year counter.
func (s *Store) NextInvoiceSeq(ctx context.Context, year int) (int64, error) {
	var seq int64
	err := s.pool.QueryRow(ctx, `
		insert into invoice_counters (year, seq) values ($1, 1)
		on conflict (year) do update set seq = invoice_counters.seq + 1
		returning seq
	`, year).Scan(&seq)
	return seq, err
}

// --- Budgets and goals ---

// Budgets returns all budgets ordered by name.
func (s *Store) Budgets(ctx context.Context) ([]ledger.Budget, error) {
	rows, err := s.pool.Query(ctx, `
		select id, name, account_prefix, year, month, spending_limit::text
		from budgets
		order by name asc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ledger.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Budget returns one budget by ID.
func (s *Store) Budget(ctx context.Context, id uuid.UUID) (ledger.Budget, error) {
	row := s.pool.QueryRow(ctx, `
		select id, name, account_prefix, year, month, spending_limit::text
		from budgets
		where id = $1
	`, id)
	b, err := scanBudget(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.Budget{}, errs.ErrNotFound
	}
	return b, err
}

func scanBudget(row rowScanner) (ledger.Budget, error) {
	var b ledger.Budget
	var month int
	var limit string
	if err := row.Scan(&b.ID, &b.Name, &b.AccountPrefix, &b.Year, &month, &limit); err != nil {
		return ledger.Budget{}, err
	}
	b.Month = time.Month(month)
	var err error
	if b.Limit, err = decimal.NewFromString(limit); err != nil {
		return ledger.Budget{}, err
	}
	return b, nil
}

// CreateBudget inserts a budget row.
func (s *Store) CreateBudget(ctx context.Context, b ledger.Budget) (ledger.Budget, error) {
	_, err := s.pool.Exec(ctx, `
		insert into budgets (id, name, account_prefix, year, month, spending_limit)
		values ($1,$2,$3,$4,$5,$6)
	`, b.ID, b.Name, b.AccountPrefix, b.Year, int(b.Month), b.Limit.String())
	if err != nil {
		return ledger.Budget{}, err
	}
	return b, nil
}

// Goals returns all savings goals ordered by name.
func (s *Store) Goals(ctx context.Context) ([]ledger.SavingsGoal, error) {
	rows, err := s.pool.Query(ctx, `
		select id, name, target::text, saved::text
		from goals
		order by name asc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ledger.SavingsGoal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Goal returns one savings goal by ID.
func (s *Store) Goal(ctx context.Context, id uuid.UUID) (ledger.SavingsGoal, error) {
	row := s.pool.QueryRow(ctx, `
		select id, name, target::text, saved::text
		from goals
		where id = $1
	`, id)
	g, err := scanGoal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.SavingsGoal{}, errs.ErrNotFound
	}
	return g, err
}

func scanGoal(row rowScanner) (ledger.SavingsGoal, error) {
	var g ledger.SavingsGoal
	var target, saved string
	if err := row.Scan(&g.ID, &g.Name, &target, &saved); err != nil {
		return ledger.SavingsGoal{}, err
	}
	var err error
	if g.Target, err = decimal.NewFromString(target); err != nil {
		return ledger.SavingsGoal{}, err
	}
	if g.Saved, err = decimal.NewFromString(saved); err != nil {
		return ledger.SavingsGoal{}, err
	}
	return g, nil
}

// CreateGoal inserts a savings goal row.
func (s *Store) CreateGoal(ctx context.Context, g ledger.SavingsGoal) (ledger.SavingsGoal, error) {
	_, err := s.pool.Exec(ctx, `
		insert into goals (id, name, target, saved)
		values ($1,$2,$3,$4)
	`, g.ID, g.Name, g.Target.String(), g.Saved.String())
	if err != nil {
		return ledger.SavingsGoal{}, err
	}
	return g, nil
}

// UpdateGoal persists changes to a savings goal.
func (s *Store) UpdateGoal(ctx context.Context, g ledger.SavingsGoal) (ledger.SavingsGoal, error) {
	ct, err := s.pool.Exec(ctx, `
		update goals set name=$1, target=$2, saved=$3 where id=$4
	`, g.Name, g.Target.String(), g.Saved.String(), g.ID)
	if err != nil {
		return ledger.SavingsGoal{}, err
	}
	if ct.RowsAffected() == 0 {
		return ledger.SavingsGoal{}, errs.ErrNotFound
	}
	return g, nil
}
