package httpapi

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kdiallo/sikabooks/internal/ledger"
)

// postTransaction posts a balanced group of journal entries. The body has
// already been decoded and parsed by validatePostTransaction.
func (s *Server) postTransaction(w http.ResponseWriter, r *http.Request) {
	in, ok := r.Context().Value(ctxKeyPostTransaction).(transactionInput)
	if !ok {
		badRequest(w, "missing validated request")
		return
	}
	entries, err := s.journalSvc.PostGroup(r.Context(), in.Date, in.Description, ledger.SourceManual, uuid.Nil, in.Lines)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toEntryResponses(entries))
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	entries, err := s.journalSvc.ListEntries(r.Context(), from, to)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toEntryResponses(entries))
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	e, err := s.journalSvc.GetEntry(r.Context(), id)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toEntryResponse(e))
}
