// Package httpapi wires the HTTP surface of the accounting service.
// Handlers stay thin and delegate every business rule to the service layer.
package httpapi

import (
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kdiallo/sikabooks/internal/coa"
	"github.com/kdiallo/sikabooks/internal/service/invoice"
	"github.com/kdiallo/sikabooks/internal/service/inventory"
	"github.com/kdiallo/sikabooks/internal/service/journal"
	"github.com/kdiallo/sikabooks/internal/service/plan"
)

// Store bundles every repository and writer the services depend on. Both the
// in-memory and the Postgres store satisfy it.
type Store interface {
	journal.Repo
	journal.Writer
	inventory.Repo
	inventory.Writer
	invoice.Repo
	invoice.Writer
	invoice.Sequencer
	plan.Repo
	plan.Writer
}

// Server wires handlers and middleware using Chi.
type Server struct {
	journalSvc   journal.Service
	inventorySvc inventory.Service
	invoiceSvc   invoice.Service
	planSvc      plan.Service
	chart        *coa.Chart
	store        Store
	log          *slog.Logger
	rt           *chi.Mux
}

// New constructs the HTTP server with routes and middleware.
func New(store Store, chart *coa.Chart, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	journalSvc := journal.New(store, store, chart)
	s := &Server{
		journalSvc:   journalSvc,
		inventorySvc: inventory.New(store, store),
		invoiceSvc:   invoice.New(store, store, store),
		planSvc:      plan.New(store, store, store),
		chart:        chart,
		store:        store,
		log:          logger,
		rt:           r,
	}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public endpoints and attaches per-route middleware.
func (s *Server) routes() {
	// Journal
	s.rt.With(s.validatePostTransaction()).Post("/v1/transactions", s.postTransaction)
	s.rt.Get("/v1/entries", s.listEntries)
	s.rt.Get("/v1/entries/{id}", s.getEntry)
	// Chart of accounts
	s.rt.Get("/v1/accounts", s.listAccounts)
	s.rt.Get("/v1/accounts/{number}", s.getAccount)
	// Reports
	s.rt.Get("/v1/reports/trial-balance", s.trialBalance)
	s.rt.Get("/v1/reports/general-ledger", s.generalLedger)
	s.rt.Get("/v1/reports/income-statement", s.incomeStatement)
	// Products and stock movements
	s.rt.Post("/v1/products", s.postProduct)
	s.rt.Get("/v1/products", s.listProducts)
	s.rt.Get("/v1/products/{id}", s.getProduct)
	s.rt.Post("/v1/sales", s.postSale)
	s.rt.Get("/v1/sales", s.listSales)
	s.rt.Post("/v1/purchases", s.postPurchase)
	s.rt.Get("/v1/purchases", s.listPurchases)
	// Invoices
	s.rt.Post("/v1/invoices", s.postInvoice)
	s.rt.Get("/v1/invoices", s.listInvoices)
	s.rt.Get("/v1/invoices/{id}", s.getInvoice)
	s.rt.Post("/v1/invoices/{id}/issue", s.issueInvoice)
	s.rt.Post("/v1/invoices/{id}/pay", s.payInvoice)
	// Budgets and goals
	s.rt.Post("/v1/budgets", s.postBudget)
	s.rt.Get("/v1/budgets", s.listBudgets)
	s.rt.Get("/v1/budgets/{id}/status", s.budgetStatus)
	s.rt.Post("/v1/goals", s.postGoal)
	s.rt.Get("/v1/goals", s.listGoals)
	s.rt.Post("/v1/goals/{id}/contribute", s.contributeGoal)
	// Health and metrics (unversioned)
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Method(http.MethodGet, "/metrics", metricsHandler())
}
