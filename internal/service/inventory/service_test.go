package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/kdiallo/sikabooks/internal/errs"
	"github.com/kdiallo/sikabooks/internal/ledger"
	"github.com/kdiallo/sikabooks/internal/service/inventory"
	"github.com/kdiallo/sikabooks/internal/storage/memory"
)

func newService(t *testing.T) (inventory.Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	return inventory.New(store, store), store
}

func xof(t *testing.T, minor int64) money.Amount {
	t.Helper()
	a, err := money.NewAmountFromMinorUnits("XOF", minor)
	if err != nil {
		t.Fatalf("amount: %v", err)
	}
	return a
}

func seedProduct(t *testing.T, svc inventory.Service, stock int64) ledger.Product {
	t.Helper()
	p, err := svc.CreateProduct(context.Background(), ledger.Product{
		Name:      "Sac de riz 25kg",
		Currency:  "XOF",
		UnitPrice: xof(t, 15000),
		UnitCost:  xof(t, 11000),
		Stock:     stock,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	return p
}

func TestCreateProductDefaultsSKU(t *testing.T) {
	svc, _ := newService(t)

	p := seedProduct(t, svc, 10)
	if p.SKU != "sac-de-riz-25kg" {
		t.Errorf("sku = %q", p.SKU)
	}
	if !p.Active {
		t.Errorf("product not active")
	}
}

func TestCreateProductRejectsDuplicateSKU(t *testing.T) {
	svc, _ := newService(t)
	seedProduct(t, svc, 10)

	_, err := svc.CreateProduct(context.Background(), ledger.Product{
		Name:      "Sac de riz 25kg",
		Currency:  "XOF",
		UnitPrice: xof(t, 15000),
		UnitCost:  xof(t, 11000),
	})
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestRecordSaleDecrementsStockAndPosts(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	p := seedProduct(t, svc, 10)

	sale, err := svc.RecordSale(ctx, p.ID, 3, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	if minor, _ := sale.Total.MinorUnits(); minor != 45000 {
		t.Errorf("total minor = %d, want 45000", minor)
	}

	got, err := svc.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got.Stock != 7 {
		t.Errorf("stock = %d, want 7", got.Stock)
	}

	entries, err := store.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("posted entries = %d, want 2", len(entries))
	}
	var debit571, credit701 bool
	for _, e := range entries {
		if e.GroupID != sale.PostedGroupID {
			t.Errorf("entry group = %s, want %s", e.GroupID, sale.PostedGroupID)
		}
		if e.Source != ledger.SourceSale || e.SourceID != sale.ID {
			t.Errorf("entry source = %s/%s", e.Source, e.SourceID)
		}
		if e.AccountNumber == 571 && e.Debit.String() == "45000" {
			debit571 = true
		}
		if e.AccountNumber == 701 && e.Credit.String() == "45000" {
			credit701 = true
		}
	}
	if !debit571 || !credit701 {
		t.Errorf("expected 571 debit and 701 credit of 45000, got %+v", entries)
	}
}

func TestRecordSaleRejectsOversell(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	p := seedProduct(t, svc, 2)

	_, err := svc.RecordSale(ctx, p.ID, 3, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, errs.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	// Nothing may have been written.
	got, _ := svc.GetProduct(ctx, p.ID)
	if got.Stock != 2 {
		t.Errorf("stock = %d, want 2", got.Stock)
	}
	entries, _ := store.Entries(ctx)
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
}

func TestRecordPurchaseIncrementsStockAndPosts(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	p := seedProduct(t, svc, 1)

	purchase, err := svc.RecordPurchase(ctx, p.ID, 5, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("RecordPurchase: %v", err)
	}
	if minor, _ := purchase.Total.MinorUnits(); minor != 55000 {
		t.Errorf("total minor = %d, want 55000", minor)
	}

	got, _ := svc.GetProduct(ctx, p.ID)
	if got.Stock != 6 {
		t.Errorf("stock = %d, want 6", got.Stock)
	}

	entries, _ := store.Entries(ctx)
	if len(entries) != 2 {
		t.Fatalf("posted entries = %d, want 2", len(entries))
	}
	for _, e := range entries {
		if e.AccountNumber != 601 && e.AccountNumber != 401 {
			t.Errorf("unexpected account %d", e.AccountNumber)
		}
		if e.Source != ledger.SourcePurchase {
			t.Errorf("source = %s", e.Source)
		}
	}
}

func TestRecordSaleUnknownProduct(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.RecordSale(context.Background(), uuid.New(), 1, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
