// Package coa holds the SYSCOHADA chart of accounts: a static directory
// mapping account numbers to names and normal balance sides. The reporting
// core only ever reads it; the surrounding application may append accounts
// at runtime.
package coa

import (
	"sort"
	"sync"

	"github.com/kdiallo/sikabooks/internal/ledger"
)

// UnknownName is substituted when an entry references an account number the
// chart does not resolve. Lookup failures are never errors.
const UnknownName = "Compte Inconnu"

// UnknownSide is the normal side assumed for unresolved account numbers in
// the general ledger. Credit-normal keeps unknown debit-heavy accounts from
// silently presenting as healthy debit balances.
const UnknownSide = ledger.SideCredit

// Chart is a directory of accounts keyed by number. Safe for concurrent use.
type Chart struct {
	mu       sync.RWMutex
	accounts map[int]ledger.Account
}

// New returns an empty chart.
func New() *Chart {
	return &Chart{accounts: make(map[int]ledger.Account)}
}

// Default returns a chart seeded with the curated SYSCOHADA accounts.
func Default() *Chart {
	c := New()
	for _, a := range curated {
		c.accounts[a.Number] = a
	}
	return c
}

// Lookup resolves an account by number. The second return is false when the
// number is not in the chart; callers substitute UnknownName and continue.
func (c *Chart) Lookup(number int) (ledger.Account, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.accounts[number]
	return a, ok
}

// NameOf returns the account name or UnknownName.
func (c *Chart) NameOf(number int) string {
	if a, ok := c.Lookup(number); ok {
		return a.Name
	}
	return UnknownName
}

// SideOf returns the account's normal side, or UnknownSide when unresolved.
func (c *Chart) SideOf(number int) ledger.Side {
	if a, ok := c.Lookup(number); ok {
		return a.NormalSide
	}
	return UnknownSide
}

// Add appends or replaces an account. Numbers must be positive.
func (c *Chart) Add(a ledger.Account) bool {
	if a.Number <= 0 || a.Name == "" {
		return false
	}
	if a.NormalSide != ledger.SideDebit && a.NormalSide != ledger.SideCredit {
		return false
	}
	c.mu.Lock()
	c.accounts[a.Number] = a
	c.mu.Unlock()
	return true
}

// List returns all accounts sorted ascending by number.
func (c *Chart) List() []ledger.Account {
	c.mu.RLock()
	out := make([]ledger.Account, 0, len(c.accounts))
	for _, a := range c.accounts {
		out = append(out, a)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// curated is the built-in SYSCOHADA chart. Classes 1-5 are balance sheet
// accounts, 6-7 management accounts, 8 hors activités ordinaires.
var curated = []ledger.Account{
	// Classe 1 - ressources durables
	{Number: 101, Name: "Capital social", NormalSide: ledger.SideCredit},
	{Number: 106, Name: "Réserves", NormalSide: ledger.SideCredit},
	{Number: 131, Name: "Résultat net de l'exercice", NormalSide: ledger.SideCredit},
	{Number: 161, Name: "Emprunts et dettes assimilées", NormalSide: ledger.SideCredit},
	// Classe 2 - actif immobilisé
	{Number: 231, Name: "Bâtiments", NormalSide: ledger.SideDebit},
	{Number: 244, Name: "Matériel et mobilier", NormalSide: ledger.SideDebit},
	{Number: 245, Name: "Matériel de transport", NormalSide: ledger.SideDebit},
	{Number: 283, Name: "Amortissements des bâtiments", NormalSide: ledger.SideCredit},
	{Number: 284, Name: "Amortissements du matériel", NormalSide: ledger.SideCredit},
	// Classe 3 - stocks
	{Number: 311, Name: "Marchandises", NormalSide: ledger.SideDebit},
	{Number: 321, Name: "Matières premières", NormalSide: ledger.SideDebit},
	// Classe 4 - tiers
	{Number: 401, Name: "Fournisseurs", NormalSide: ledger.SideCredit},
	{Number: 411, Name: "Clients", NormalSide: ledger.SideDebit},
	{Number: 421, Name: "Personnel, avances et acomptes", NormalSide: ledger.SideCredit},
	{Number: 441, Name: "État, impôt sur les bénéfices", NormalSide: ledger.SideCredit},
	{Number: 443, Name: "État, TVA facturée", NormalSide: ledger.SideCredit},
	{Number: 445, Name: "État, TVA récupérable", NormalSide: ledger.SideDebit},
	// Classe 5 - trésorerie
	{Number: 512, Name: "Banques", NormalSide: ledger.SideDebit},
	{Number: 521, Name: "Banques locales", NormalSide: ledger.SideDebit},
	{Number: 571, Name: "Caisse", NormalSide: ledger.SideDebit},
	// Classe 6 - charges des activités ordinaires
	{Number: 601, Name: "Achats de marchandises", NormalSide: ledger.SideDebit},
	{Number: 603, Name: "Variations des stocks", NormalSide: ledger.SideDebit},
	{Number: 611, Name: "Transports sur achats", NormalSide: ledger.SideDebit},
	{Number: 622, Name: "Locations et charges locatives", NormalSide: ledger.SideDebit},
	{Number: 631, Name: "Impôts et taxes directs", NormalSide: ledger.SideDebit},
	{Number: 641, Name: "Rémunérations du personnel", NormalSide: ledger.SideDebit},
	{Number: 651, Name: "Pertes sur créances et autres charges", NormalSide: ledger.SideDebit},
	{Number: 671, Name: "Intérêts des emprunts", NormalSide: ledger.SideDebit},
	{Number: 681, Name: "Dotations aux amortissements", NormalSide: ledger.SideDebit},
	// Classe 7 - produits des activités ordinaires
	{Number: 701, Name: "Ventes de marchandises", NormalSide: ledger.SideCredit},
	{Number: 706, Name: "Services vendus", NormalSide: ledger.SideCredit},
	{Number: 707, Name: "Produits accessoires", NormalSide: ledger.SideCredit},
	{Number: 711, Name: "Subventions d'exploitation", NormalSide: ledger.SideCredit},
	{Number: 721, Name: "Production immobilisée", NormalSide: ledger.SideCredit},
	{Number: 758, Name: "Produits divers", NormalSide: ledger.SideCredit},
	{Number: 771, Name: "Revenus financiers", NormalSide: ledger.SideCredit},
	// Classe 8 - hors activités ordinaires
	{Number: 811, Name: "Valeurs comptables des cessions", NormalSide: ledger.SideDebit},
	{Number: 821, Name: "Produits des cessions d'immobilisations", NormalSide: ledger.SideCredit},
	{Number: 831, Name: "Charges HAO", NormalSide: ledger.SideDebit},
	{Number: 841, Name: "Produits HAO", NormalSide: ledger.SideCredit},
	{Number: 851, Name: "Dotations HAO", NormalSide: ledger.SideDebit},
	{Number: 861, Name: "Reprises HAO", NormalSide: ledger.SideCredit},
	{Number: 871, Name: "Impôts sur le résultat", NormalSide: ledger.SideDebit},
	{Number: 891, Name: "Impôts différés", NormalSide: ledger.SideDebit},
}
