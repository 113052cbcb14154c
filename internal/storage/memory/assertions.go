package memory

import (
	"github.com/kdiallo/sikabooks/internal/service/invoice"
	"github.com/kdiallo/sikabooks/internal/service/inventory"
	"github.com/kdiallo/sikabooks/internal/service/journal"
	"github.com/kdiallo/sikabooks/internal/service/plan"
)

// Compile-time checks that Store satisfies every service dependency.
var (
	_ journal.Repo      = (*Store)(nil)
	_ journal.Writer    = (*Store)(nil)
	_ inventory.Repo    = (*Store)(nil)
	_ inventory.Writer  = (*Store)(nil)
	_ invoice.Repo      = (*Store)(nil)
	_ invoice.Writer    = (*Store)(nil)
	_ invoice.Sequencer = (*Store)(nil)
	_ plan.Repo         = (*Store)(nil)
	_ plan.Writer       = (*Store)(nil)
)
