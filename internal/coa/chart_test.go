package coa

import (
	"testing"

	"github.com/kdiallo/sikabooks/internal/ledger"
)

func TestLookupAndFallbacks(t *testing.T) {
	c := Default()
	a, ok := c.Lookup(601)
	if !ok || a.Name != "Achats de marchandises" || a.NormalSide != ledger.SideDebit {
		t.Fatalf("unexpected 601: %+v ok=%v", a, ok)
	}
	if _, ok := c.Lookup(424242); ok {
		t.Fatal("expected miss for unknown number")
	}
	if got := c.NameOf(424242); got != UnknownName {
		t.Fatalf("NameOf fallback: got %q", got)
	}
	if got := c.SideOf(424242); got != UnknownSide {
		t.Fatalf("SideOf fallback: got %q", got)
	}
}

func TestAddExtendsChart(t *testing.T) {
	c := Default()
	if c.Add(ledger.Account{Number: 0, Name: "bad", NormalSide: ledger.SideDebit}) {
		t.Fatal("accepted zero account number")
	}
	if c.Add(ledger.Account{Number: 605, Name: "Autres achats", NormalSide: "sideways"}) {
		t.Fatal("accepted invalid side")
	}
	if !c.Add(ledger.Account{Number: 605, Name: "Autres achats", NormalSide: ledger.SideDebit}) {
		t.Fatal("rejected valid account")
	}
	if got := c.NameOf(605); got != "Autres achats" {
		t.Fatalf("added account not resolvable: %q", got)
	}
}

func TestListSortedByNumber(t *testing.T) {
	list := Default().List()
	if len(list) == 0 {
		t.Fatal("default chart empty")
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Number >= list[i].Number {
			t.Fatalf("list not sorted at %d: %d >= %d", i, list[i-1].Number, list[i].Number)
		}
	}
}

func TestClassDerivedFromNumber(t *testing.T) {
	cases := map[int]int{101: 1, 411: 4, 512: 5, 601: 6, 7011: 7, 871: 8}
	for num, want := range cases {
		if got := (ledger.Account{Number: num}).Class(); got != want {
			t.Fatalf("class of %d: got %d, want %d", num, got, want)
		}
	}
}
