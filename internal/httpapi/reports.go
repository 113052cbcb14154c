package httpapi

import (
	"errors"
	"net/http"
	"time"
)

// parseRange reads the optional from/to query parameters. Dates accept
// RFC 3339 timestamps or plain YYYY-MM-DD days; a day-form bound is
// inclusive, so to=2025-04-30 covers the whole of April 30.
func parseRange(r *http.Request) (from, to *time.Time, err error) {
	if v := r.URL.Query().Get("from"); v != "" {
		t, perr := parseDate(v, false)
		if perr != nil {
			return nil, nil, errors.New("invalid from date")
		}
		from = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, perr := parseDate(v, true)
		if perr != nil {
			return nil, nil, errors.New("invalid to date")
		}
		to = &t
	}
	return from, to, nil
}

func parseDate(v string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t.UTC(), nil
}

func (s *Server) trialBalance(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	tb, err := s.journalSvc.TrialBalance(r.Context(), from, to)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toTrialBalanceResponse(tb))
}

func (s *Server) generalLedger(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	gl, err := s.journalSvc.GeneralLedger(r.Context(), from, to)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toGeneralLedgerResponse(gl))
}

func (s *Server) incomeStatement(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	st, err := s.journalSvc.IncomeStatement(r.Context(), from, to)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toIncomeStatementResponse(st))
}
