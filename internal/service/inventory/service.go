// Package inventory implements product stock rules for small enterprises:
// sales decrement stock, purchases increment it, and both post a balanced
// journal group in the same storage transaction as the stock change.
package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/kdiallo/sikabooks/internal/errs"
	"github.com/kdiallo/sikabooks/internal/ledger"
	"github.com/kdiallo/sikabooks/internal/service/journal"
	"github.com/kdiallo/sikabooks/internal/sku"
)

// Accounts the trade flows post to.
const (
	accountCash      = 571 // Caisse
	accountSales     = 701 // Ventes de marchandises
	accountPurchases = 601 // Achats de marchandises
	accountSuppliers = 401 // Fournisseurs
)

// Repo defines read operations needed by the service.
type Repo interface {
	Products(ctx context.Context) ([]ledger.Product, error)
	Product(ctx context.Context, id uuid.UUID) (ledger.Product, error)
	Sales(ctx context.Context) ([]ledger.Sale, error)
	Purchases(ctx context.Context) ([]ledger.Purchase, error)
}

// Writer defines write operations. CreateSale and CreatePurchase persist the
// trade record, the product's new stock level and the journal group in one
// transaction; partial writes must not be observable.
type Writer interface {
	CreateProduct(ctx context.Context, p ledger.Product) (ledger.Product, error)
	CreateSale(ctx context.Context, sale ledger.Sale, product ledger.Product, entries []ledger.JournalEntry) error
	CreatePurchase(ctx context.Context, purchase ledger.Purchase, product ledger.Product, entries []ledger.JournalEntry) error
}

// Service exposes product management and the stock-consistency transactions.
type Service interface {
	CreateProduct(ctx context.Context, p ledger.Product) (ledger.Product, error)
	ListProducts(ctx context.Context) ([]ledger.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (ledger.Product, error)
	RecordSale(ctx context.Context, productID uuid.UUID, quantity int64, date time.Time) (ledger.Sale, error)
	RecordPurchase(ctx context.Context, productID uuid.UUID, quantity int64, date time.Time) (ledger.Purchase, error)
}

type service struct {
	repo   Repo
	writer Writer
}

func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

func (s *service) CreateProduct(ctx context.Context, p ledger.Product) (ledger.Product, error) {
	if p.Name == "" || p.Currency == "" {
		return ledger.Product{}, errs.ErrInvalid
	}
	if p.Stock < 0 {
		return ledger.Product{}, errs.ErrInvalid
	}
	if err := p.Metadata.Validate(); err != nil {
		return ledger.Product{}, errs.ErrInvalid
	}
	p.Currency = strings.ToUpper(p.Currency)
	if p.SKU == "" {
		p.SKU = sku.Derive(p.Name)
	}
	if !sku.Valid(p.SKU) {
		return ledger.Product{}, errs.ErrInvalid
	}
	existing, err := s.repo.Products(ctx)
	if err != nil {
		return ledger.Product{}, err
	}
	for _, other := range existing {
		if other.SKU == p.SKU {
			return ledger.Product{}, errs.ErrConflict
		}
	}
	p.ID = uuid.New()
	p.Active = true
	return s.writer.CreateProduct(ctx, p)
}

func (s *service) ListProducts(ctx context.Context) ([]ledger.Product, error) {
	return s.repo.Products(ctx)
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (ledger.Product, error) {
	if id == uuid.Nil {
		return ledger.Product{}, errs.ErrInvalid
	}
	return s.repo.Product(ctx, id)
}

// RecordSale decrements stock and posts cash-in against sales revenue.
// Overselling is rejected before anything is written.
func (s *service) RecordSale(ctx context.Context, productID uuid.UUID, quantity int64, date time.Time) (ledger.Sale, error) {
	if productID == uuid.Nil || quantity <= 0 || date.IsZero() {
		return ledger.Sale{}, errs.ErrInvalid
	}
	p, err := s.repo.Product(ctx, productID)
	if err != nil {
		return ledger.Sale{}, err
	}
	if !p.Active {
		return ledger.Sale{}, errs.ErrInvalidStatus
	}
	if p.Stock < quantity {
		return ledger.Sale{}, errs.ErrInsufficientStock
	}
	total, err := scaleAmount(p.UnitPrice, quantity)
	if err != nil {
		return ledger.Sale{}, errs.ErrInvalidAmount
	}
	sale := ledger.Sale{
		ID:        uuid.New(),
		ProductID: p.ID,
		Quantity:  quantity,
		Total:     total,
		Date:      date.UTC(),
	}
	amount := ledger.MoneyToDecimal(total)
	entries, err := journal.BuildGroup(date, "Vente "+p.Name, ledger.SourceSale, sale.ID, []journal.Line{
		{AccountNumber: accountCash, Debit: amount},
		{AccountNumber: accountSales, Credit: amount},
	})
	if err != nil {
		return ledger.Sale{}, err
	}
	sale.PostedGroupID = entries[0].GroupID
	p.Stock -= quantity
	if err := s.writer.CreateSale(ctx, sale, p, entries); err != nil {
		return ledger.Sale{}, err
	}
	return sale, nil
}

// RecordPurchase increments stock and posts the purchase charge against the
// supplier payable.
func (s *service) RecordPurchase(ctx context.Context, productID uuid.UUID, quantity int64, date time.Time) (ledger.Purchase, error) {
	if productID == uuid.Nil || quantity <= 0 || date.IsZero() {
		return ledger.Purchase{}, errs.ErrInvalid
	}
	p, err := s.repo.Product(ctx, productID)
	if err != nil {
		return ledger.Purchase{}, err
	}
	if !p.Active {
		return ledger.Purchase{}, errs.ErrInvalidStatus
	}
	total, err := scaleAmount(p.UnitCost, quantity)
	if err != nil {
		return ledger.Purchase{}, errs.ErrInvalidAmount
	}
	purchase := ledger.Purchase{
		ID:        uuid.New(),
		ProductID: p.ID,
		Quantity:  quantity,
		Total:     total,
		Date:      date.UTC(),
	}
	amount := ledger.MoneyToDecimal(total)
	entries, err := journal.BuildGroup(date, "Achat "+p.Name, ledger.SourcePurchase, purchase.ID, []journal.Line{
		{AccountNumber: accountPurchases, Debit: amount},
		{AccountNumber: accountSuppliers, Credit: amount},
	})
	if err != nil {
		return ledger.Purchase{}, err
	}
	purchase.PostedGroupID = entries[0].GroupID
	p.Stock += quantity
	if err := s.writer.CreatePurchase(ctx, purchase, p, entries); err != nil {
		return ledger.Purchase{}, err
	}
	return purchase, nil
}

// scaleAmount multiplies a unit amount by a quantity in minor units.
func scaleAmount(unit money.Amount, quantity int64) (money.Amount, error) {
	units, ok := unit.MinorUnits()
	if !ok {
		return money.Amount{}, errs.ErrInvalidAmount
	}
	return money.NewAmountFromMinorUnits(unit.Curr().Code(), units*quantity)
}
