package httpapi

import (
	"net/http"
	"strconv"

	chi "github.com/go-chi/chi/v5"
)

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts := s.chart.List()
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number <= 0 {
		badRequest(w, "invalid account number")
		return
	}
	a, ok := s.chart.Lookup(number)
	if !ok {
		writeErr(w, http.StatusNotFound, "not found", "not_found")
		return
	}
	toJSON(w, http.StatusOK, toAccountResponse(a))
}
