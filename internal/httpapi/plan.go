package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kdiallo/sikabooks/internal/ledger"
)

func (s *Server) postBudget(w http.ResponseWriter, r *http.Request) {
	var req postBudgetRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	limit, err := decimal.NewFromString(req.Limit)
	if err != nil {
		badRequest(w, "invalid limit")
		return
	}
	b, err := s.planSvc.CreateBudget(r.Context(), ledger.Budget{
		Name:          req.Name,
		AccountPrefix: req.AccountPrefix,
		Year:          req.Year,
		Month:         time.Month(req.Month),
		Limit:         limit,
	})
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toBudgetResponse(b))
}

func (s *Server) listBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.planSvc.ListBudgets(r.Context())
	if err != nil {
		serviceErr(w, err)
		return
	}
	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetResponse(b))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) budgetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	st, err := s.planSvc.Status(r.Context(), id)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toBudgetStatusResponse(st))
}

func (s *Server) postGoal(w http.ResponseWriter, r *http.Request) {
	var req postGoalRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	target, err := decimal.NewFromString(req.Target)
	if err != nil {
		badRequest(w, "invalid target")
		return
	}
	saved := decimal.Zero
	if req.Saved != "" {
		if saved, err = decimal.NewFromString(req.Saved); err != nil {
			badRequest(w, "invalid saved amount")
			return
		}
	}
	g, err := s.planSvc.CreateGoal(r.Context(), ledger.SavingsGoal{
		Name:   req.Name,
		Target: target,
		Saved:  saved,
	})
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toGoalResponse(g))
}

func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.planSvc.ListGoals(r.Context())
	if err != nil {
		serviceErr(w, err)
		return
	}
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalResponse(g))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) contributeGoal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	var req contributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		badRequest(w, "invalid amount")
		return
	}
	g, err := s.planSvc.Contribute(r.Context(), id, amount)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toGoalResponse(g))
}
