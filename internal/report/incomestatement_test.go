package report

import (
	"testing"

	"github.com/kdiallo/sikabooks/internal/ledger"
)

func TestBuildIncomeStatement_SalesAndPurchases(t *testing.T) {
	entries := []ledger.JournalEntry{
		entry(601, 1000, 0, day),
		entry(701, 0, 1000, day),
	}
	st := BuildIncomeStatement(entries)
	eq(t, st.OperatingIncome, 1000, "operating income")
	eq(t, st.OperatingExpenses, 1000, "operating expenses")
	eq(t, st.OperatingResult, 0, "operating result")
	eq(t, st.NetResult, 0, "net result")
}

func TestBuildIncomeStatement_FullCascade(t *testing.T) {
	entries := []ledger.JournalEntry{
		entry(701, 0, 5000, day), // ventes
		entry(711, 0, 500, day),  // subventions
		entry(758, 0, 100, day),  // autres produits (75x)
		entry(601, 2000, 0, day), // achats
		entry(622, 300, 0, day),  // services extérieurs (62x)
		entry(641, 900, 0, day),  // personnel
		entry(631, 150, 0, day),  // impôts et taxes
		entry(651, 50, 0, day),   // autres charges
		entry(681, 200, 0, day),  // dotations
		entry(771, 0, 80, day),   // produits financiers
		entry(671, 120, 0, day),  // charges financières
		entry(821, 0, 60, day),   // produits des cessions (HAO minus)
		entry(811, 40, 0, day),   // valeurs comptables (HAO plus, as net credit)
		entry(871, 90, 0, day),   // impôts sur le résultat
	}
	st := BuildIncomeStatement(entries)
	eq(t, st.OperatingIncome, 5600, "operating income")
	eq(t, st.OperatingExpenses, 3600, "operating expenses")
	eq(t, st.OperatingResult, 2000, "operating result")
	eq(t, st.FinancialResult, -40, "financial result")
	eq(t, st.OrdinaryResult, 1960, "ordinary result")
	// HAO: (credit-debit of 81/83/85/89) - (credit-debit of 82/84/86) = (-40) - 60
	eq(t, st.ExtraordinaryResult, -100, "extraordinary result")
	eq(t, st.IncomeTax, 90, "income tax")
	eq(t, st.NetResult, 1770, "net result")
}

func TestBuildIncomeStatement_EmptyIsRowComplete(t *testing.T) {
	st := BuildIncomeStatement(nil)
	if len(st.Lines) != 19 {
		t.Fatalf("expected the full fixed row set (19), got %d", len(st.Lines))
	}
	for _, ln := range st.Lines {
		if !ln.Amount.IsZero() {
			t.Fatalf("line %q not zero on empty input: %s", ln.Label, ln.Amount)
		}
	}
	eq(t, st.NetResult, 0, "net result")
}

func TestBuildIncomeStatement_FixedRowOrder(t *testing.T) {
	st := BuildIncomeStatement(nil)
	wantOrder := []string{
		"Ventes de marchandises et produits",
		"Subventions d'exploitation",
		"Autres produits d'exploitation",
		"Total des produits d'exploitation",
		"Achats et variations de stocks",
		"Services extérieurs et autres consommations",
		"Charges de personnel",
		"Impôts et taxes",
		"Autres charges",
		"Dotations aux amortissements et aux provisions",
		"Total des charges d'exploitation",
		"Résultat d'exploitation",
		"Produits financiers",
		"Charges financières",
		"Résultat financier",
		"Résultat des activités ordinaires",
		"Résultat hors activités ordinaires",
		"Impôts sur le résultat",
		"Résultat net de l'exercice",
	}
	if len(st.Lines) != len(wantOrder) {
		t.Fatalf("expected %d lines, got %d", len(wantOrder), len(st.Lines))
	}
	for i, want := range wantOrder {
		if st.Lines[i].Label != want {
			t.Fatalf("line %d: got %q, want %q", i, st.Lines[i].Label, want)
		}
	}
	if !st.Lines[3].Subtotal || !st.Lines[10].Subtotal {
		t.Fatal("operating subtotal rows not marked")
	}
	if !st.Lines[18].Total {
		t.Fatal("net result row not marked total")
	}
}

func TestBuildIncomeStatement_PrefixMatching(t *testing.T) {
	// Sub-accounts match by decimal-string prefix: 7011 falls under 70.
	entries := []ledger.JournalEntry{
		entry(7011, 0, 400, day),
		entry(6012, 250, 0, day),
	}
	st := BuildIncomeStatement(entries)
	eq(t, st.OperatingIncome, 400, "operating income via 7011")
	eq(t, st.OperatingExpenses, 250, "operating expenses via 6012")
}

func TestBuildIncomeStatement_OrderInsensitive(t *testing.T) {
	a := []ledger.JournalEntry{
		entry(701, 0, 300, day),
		entry(601, 120, 0, day),
		entry(641, 80, 0, day),
	}
	b := []ledger.JournalEntry{a[1], a[2], a[0]}
	one := BuildIncomeStatement(a)
	two := BuildIncomeStatement(b)
	for i := range one.Lines {
		if !one.Lines[i].Amount.Equal(two.Lines[i].Amount) {
			t.Fatalf("line %q differs across permutations", one.Lines[i].Label)
		}
	}
}

func TestBuildIncomeStatement_UnclassifiedAccountsIgnored(t *testing.T) {
	// Balance sheet accounts never contribute to the statement.
	entries := []ledger.JournalEntry{
		entry(512, 1000, 0, day),
		entry(411, 0, 1000, day),
	}
	st := BuildIncomeStatement(entries)
	eq(t, st.NetResult, 0, "net result")
	eq(t, st.OperatingIncome, 0, "operating income")
}
