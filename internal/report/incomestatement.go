package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kdiallo/sikabooks/internal/ledger"
)

// Line is one presentation row of the income statement. Detail rows carry
// the net movement of a bucket of accounts; subtotal and total rows are
// computed from them. The row set and its order are fixed: an empty entry
// snapshot still yields the complete statement with zero amounts.
type Line struct {
	Label    string
	Amount   decimal.Decimal
	Subtotal bool
	Total    bool
	Indent   int
}

// IncomeStatement is the SYSCOHADA-ordered profit and loss view.
type IncomeStatement struct {
	Lines []Line

	OperatingIncome     decimal.Decimal
	OperatingExpenses   decimal.Decimal
	OperatingResult     decimal.Decimal
	FinancialResult     decimal.Decimal
	OrdinaryResult      decimal.Decimal
	ExtraordinaryResult decimal.Decimal
	IncomeTax           decimal.Decimal
	NetResult           decimal.Decimal
}

// Classification buckets. An entry belongs to a bucket when the decimal
// string of its account number starts with one of the bucket's prefixes;
// the prefixes are disjoint so an entry matches at most one bucket.
var (
	pfxSales        = []string{"70"}
	pfxSubsidies    = []string{"71"}
	pfxOtherIncome  = []string{"72", "73", "74", "75"}
	pfxPurchases    = []string{"60"}
	pfxExternal     = []string{"61", "62"}
	pfxPersonnel    = []string{"64"}
	pfxTaxes        = []string{"63"}
	pfxOtherCharges = []string{"65"}
	pfxDepreciation = []string{"68"}
	pfxFinIncome    = []string{"77"}
	pfxFinExpense   = []string{"67"}
	pfxHAOPlus      = []string{"81", "83", "85", "89"}
	pfxHAOMinus     = []string{"82", "84", "86"}
	pfxIncomeTax    = []string{"87"}
)

// BuildIncomeStatement classifies entries by account-number prefix and
// computes the fixed SYSCOHADA sequence of subtotals. Income buckets
// accumulate credit-debit, charge buckets debit-credit, so a normal charge
// shows as a positive amount and the subtraction formulas below hold.
func BuildIncomeStatement(entries []ledger.JournalEntry) IncomeStatement {
	sales := netOf(entries, false, pfxSales)
	subsidies := netOf(entries, false, pfxSubsidies)
	otherIncome := netOf(entries, false, pfxOtherIncome)

	purchases := netOf(entries, true, pfxPurchases)
	external := netOf(entries, true, pfxExternal)
	personnel := netOf(entries, true, pfxPersonnel)
	taxes := netOf(entries, true, pfxTaxes)
	otherCharges := netOf(entries, true, pfxOtherCharges)
	depreciation := netOf(entries, true, pfxDepreciation)

	finIncome := netOf(entries, false, pfxFinIncome)
	finExpense := netOf(entries, true, pfxFinExpense)

	// Simplified HAO rule: net credit of 81/83/85/89 less net credit of 82/84/86.
	extraordinary := netOf(entries, false, pfxHAOPlus).Sub(netOf(entries, false, pfxHAOMinus))
	incomeTax := netOf(entries, true, pfxIncomeTax)

	st := IncomeStatement{
		OperatingIncome:     sales.Add(subsidies).Add(otherIncome),
		OperatingExpenses:   purchases.Add(external).Add(personnel).Add(taxes).Add(otherCharges).Add(depreciation),
		FinancialResult:     finIncome.Sub(finExpense),
		ExtraordinaryResult: extraordinary,
		IncomeTax:           incomeTax,
	}
	st.OperatingResult = st.OperatingIncome.Sub(st.OperatingExpenses)
	st.OrdinaryResult = st.OperatingResult.Add(st.FinancialResult)
	st.NetResult = st.OrdinaryResult.Add(st.ExtraordinaryResult).Sub(st.IncomeTax)

	st.Lines = []Line{
		{Label: "Ventes de marchandises et produits", Amount: sales, Indent: 1},
		{Label: "Subventions d'exploitation", Amount: subsidies, Indent: 1},
		{Label: "Autres produits d'exploitation", Amount: otherIncome, Indent: 1},
		{Label: "Total des produits d'exploitation", Amount: st.OperatingIncome, Subtotal: true},
		{Label: "Achats et variations de stocks", Amount: purchases, Indent: 1},
		{Label: "Services extérieurs et autres consommations", Amount: external, Indent: 1},
		{Label: "Charges de personnel", Amount: personnel, Indent: 1},
		{Label: "Impôts et taxes", Amount: taxes, Indent: 1},
		{Label: "Autres charges", Amount: otherCharges, Indent: 1},
		{Label: "Dotations aux amortissements et aux provisions", Amount: depreciation, Indent: 1},
		{Label: "Total des charges d'exploitation", Amount: st.OperatingExpenses, Subtotal: true},
		{Label: "Résultat d'exploitation", Amount: st.OperatingResult, Total: true},
		{Label: "Produits financiers", Amount: finIncome, Indent: 1},
		{Label: "Charges financières", Amount: finExpense, Indent: 1},
		{Label: "Résultat financier", Amount: st.FinancialResult, Total: true},
		{Label: "Résultat des activités ordinaires", Amount: st.OrdinaryResult, Total: true},
		{Label: "Résultat hors activités ordinaires", Amount: st.ExtraordinaryResult, Total: true},
		{Label: "Impôts sur le résultat", Amount: incomeTax, Indent: 1},
		{Label: "Résultat net de l'exercice", Amount: st.NetResult, Total: true},
	}
	return st
}

// netOf sums entries whose account number starts with any of the prefixes.
// Charge buckets accumulate debit-credit, income buckets credit-debit.
func netOf(entries []ledger.JournalEntry, charge bool, prefixes []string) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		if !matchesAny(e.AccountKey(), prefixes) {
			continue
		}
		if charge {
			sum = sum.Add(e.Debit).Sub(e.Credit)
		} else {
			sum = sum.Add(e.Credit).Sub(e.Debit)
		}
	}
	return sum
}

func matchesAny(key string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}
