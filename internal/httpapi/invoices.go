package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/kdiallo/sikabooks/internal/ledger"
)

func (s *Server) postInvoice(w http.ResponseWriter, r *http.Request) {
	var req postInvoiceRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	lines := make([]ledger.InvoiceLine, 0, len(req.Lines))
	for _, ln := range req.Lines {
		price, err := money.NewAmountFromMinorUnits(req.Currency, ln.UnitPriceMinor)
		if err != nil {
			badRequest(w, "invalid currency or unit price")
			return
		}
		lines = append(lines, ledger.InvoiceLine{
			Description:   ln.Description,
			Quantity:      ln.Quantity,
			UnitPrice:     price,
			AccountNumber: ln.AccountNumber,
		})
	}
	inv, err := s.invoiceSvc.Create(r.Context(), ledger.Invoice{
		Customer: req.Customer,
		Currency: req.Currency,
		Date:     req.Date,
		Lines:    lines,
		Metadata: req.Metadata,
	})
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toInvoiceResponse(inv))
}

func (s *Server) listInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.invoiceSvc.List(r.Context())
	if err != nil {
		serviceErr(w, err)
		return
	}
	out := make([]invoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toInvoiceResponse(inv))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	inv, err := s.invoiceSvc.Get(r.Context(), id)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toInvoiceResponse(inv))
}

type issueInvoiceRequest struct {
	Date time.Time `json:"date"`
}

func (s *Server) issueInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	var req issueInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now().UTC()
	}
	inv, err := s.invoiceSvc.Issue(r.Context(), id, req.Date)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toInvoiceResponse(inv))
}

type payInvoiceRequest struct {
	Date        time.Time `json:"date"`
	CashAccount int       `json:"cash_account,omitempty"`
}

func (s *Server) payInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	var req payInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now().UTC()
	}
	inv, err := s.invoiceSvc.Pay(r.Context(), id, req.CashAccount, req.Date)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toInvoiceResponse(inv))
}
