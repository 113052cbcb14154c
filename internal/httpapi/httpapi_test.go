package httpapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kdiallo/sikabooks/internal/coa"
	"github.com/kdiallo/sikabooks/internal/httpapi"
	"github.com/kdiallo/sikabooks/internal/storage/memory"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpapi.New(memory.New(), coa.Default(), logger).Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, rec.Body.String())
	}
}

func postTransaction(t *testing.T, h http.Handler, date, desc string, lines []map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, h, http.MethodPost, "/v1/transactions", map[string]any{
		"date":        date,
		"description": desc,
		"lines":       lines,
	})
}

func TestPostTransactionAndReports(t *testing.T) {
	h := newServer(t)

	rec := postTransaction(t, h, "2025-03-01T00:00:00Z", "Vente au comptant", []map[string]any{
		{"account_number": 571, "debit": "1000"},
		{"account_number": 701, "credit": "1000"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var entries []struct {
		ID      string `json:"id"`
		GroupID string `json:"group_id"`
	}
	decode(t, rec, &entries)
	if len(entries) != 2 || entries[0].GroupID != entries[1].GroupID {
		t.Fatalf("unexpected entries: %s", rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/v1/reports/trial-balance", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("trial balance status = %d", rec.Code)
	}
	var tb struct {
		Balanced    bool   `json:"balanced"`
		TotalDebit  string `json:"total_debit"`
		TotalCredit string `json:"total_credit"`
	}
	decode(t, rec, &tb)
	if !tb.Balanced || tb.TotalDebit != "1000" || tb.TotalCredit != "1000" {
		t.Errorf("trial balance = %+v", tb)
	}

	rec = do(t, h, http.MethodGet, "/v1/reports/income-statement", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("income statement status = %d", rec.Code)
	}
	var st struct {
		NetResult string `json:"net_result"`
		Lines     []struct {
			Label string `json:"label"`
		} `json:"lines"`
	}
	decode(t, rec, &st)
	if st.NetResult != "1000" {
		t.Errorf("net result = %s, want 1000", st.NetResult)
	}
	if len(st.Lines) != 19 {
		t.Errorf("statement lines = %d, want 19", len(st.Lines))
	}

	rec = do(t, h, http.MethodGet, "/v1/entries/"+entries[0].ID, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get entry status = %d", rec.Code)
	}
}

func TestPostTransactionUnbalanced(t *testing.T) {
	h := newServer(t)

	rec := postTransaction(t, h, "2025-03-01T00:00:00Z", "bancal", []map[string]any{
		{"account_number": 571, "debit": "1000"},
		{"account_number": 701, "credit": "900"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var er struct {
		Code string `json:"code"`
	}
	decode(t, rec, &er)
	if er.Code != "unbalanced_entry" {
		t.Errorf("code = %q", er.Code)
	}
}

func TestReportsDateFilter(t *testing.T) {
	h := newServer(t)

	postTransaction(t, h, "2025-03-01T00:00:00Z", "mars", []map[string]any{
		{"account_number": 571, "debit": "100"},
		{"account_number": 701, "credit": "100"},
	})
	postTransaction(t, h, "2025-04-01T00:00:00Z", "avril", []map[string]any{
		{"account_number": 571, "debit": "200"},
		{"account_number": 701, "credit": "200"},
	})
	// Mid-day on the last day of the range: a day-form "to" must cover it.
	postTransaction(t, h, "2025-04-30T15:00:00Z", "fin avril", []map[string]any{
		{"account_number": 571, "debit": "300"},
		{"account_number": 701, "credit": "300"},
	})

	rec := do(t, h, http.MethodGet, "/v1/reports/trial-balance?from=2025-04-01&to=2025-04-30", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var tb struct {
		TotalDebit string `json:"total_debit"`
	}
	decode(t, rec, &tb)
	if tb.TotalDebit != "500" {
		t.Errorf("filtered total debit = %s, want 500", tb.TotalDebit)
	}

	rec = do(t, h, http.MethodGet, "/v1/reports/general-ledger?from=bogus", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", rec.Code)
	}
}

func TestAccountsEndpoints(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodGet, "/v1/accounts", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var accounts []struct {
		Number int    `json:"number"`
		Name   string `json:"name"`
		Class  int    `json:"class"`
	}
	decode(t, rec, &accounts)
	if len(accounts) == 0 {
		t.Fatalf("empty chart")
	}

	rec = do(t, h, http.MethodGet, "/v1/accounts/701", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var a struct {
		Name  string `json:"name"`
		Class int    `json:"class"`
	}
	decode(t, rec, &a)
	if a.Name != "Ventes de marchandises" || a.Class != 7 {
		t.Errorf("account = %+v", a)
	}

	rec = do(t, h, http.MethodGet, "/v1/accounts/99999", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown account status = %d, want 404", rec.Code)
	}
}

func TestProductSaleFlow(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodPost, "/v1/products", map[string]any{
		"name":             "Sac de riz 25kg",
		"currency":         "XOF",
		"unit_price_minor": 15000,
		"unit_cost_minor":  11000,
		"stock":            4,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product status = %d, body %s", rec.Code, rec.Body.String())
	}
	var p struct {
		ID    string `json:"id"`
		SKU   string `json:"sku"`
		Stock int64  `json:"stock"`
	}
	decode(t, rec, &p)
	if p.SKU != "sac-de-riz-25kg" {
		t.Errorf("sku = %q", p.SKU)
	}

	rec = do(t, h, http.MethodPost, "/v1/sales", map[string]any{
		"product_id": p.ID,
		"quantity":   3,
		"date":       "2025-03-05T00:00:00Z",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("sale status = %d, body %s", rec.Code, rec.Body.String())
	}
	var sale struct {
		TotalMinor int64 `json:"total_minor"`
	}
	decode(t, rec, &sale)
	if sale.TotalMinor != 45000 {
		t.Errorf("total minor = %d, want 45000", sale.TotalMinor)
	}

	// Only one unit left, so selling two must fail without changing stock.
	rec = do(t, h, http.MethodPost, "/v1/sales", map[string]any{
		"product_id": p.ID,
		"quantity":   2,
		"date":       "2025-03-06T00:00:00Z",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("oversell status = %d, want 409", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/v1/products/"+p.ID, nil)
	decode(t, rec, &p)
	if p.Stock != 1 {
		t.Errorf("stock = %d, want 1", p.Stock)
	}
}

func TestInvoiceLifecycleOverHTTP(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodPost, "/v1/invoices", map[string]any{
		"customer": "Boutique Awa",
		"currency": "XOF",
		"date":     "2025-04-01T00:00:00Z",
		"lines": []map[string]any{
			{"description": "Sacs de riz", "quantity": 3, "unit_price_minor": 12500},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create invoice status = %d, body %s", rec.Code, rec.Body.String())
	}
	var inv struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Number string `json:"number"`
	}
	decode(t, rec, &inv)
	if inv.Status != "draft" {
		t.Errorf("status = %q", inv.Status)
	}

	rec = do(t, h, http.MethodPost, "/v1/invoices/"+inv.ID+"/issue", map[string]any{
		"date": "2025-04-02T00:00:00Z",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("issue status = %d, body %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &inv)
	if inv.Number != "FAC-2025-0001" || inv.Status != "issued" {
		t.Errorf("issued invoice = %+v", inv)
	}

	rec = do(t, h, http.MethodPost, "/v1/invoices/"+inv.ID+"/pay", map[string]any{
		"date": "2025-04-20T00:00:00Z",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("pay status = %d, body %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &inv)
	if inv.Status != "paid" {
		t.Errorf("status = %q, want paid", inv.Status)
	}

	// Paying twice conflicts with the lifecycle.
	rec = do(t, h, http.MethodPost, "/v1/invoices/"+inv.ID+"/pay", map[string]any{
		"date": "2025-04-21T00:00:00Z",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("double pay status = %d, want 409", rec.Code)
	}
}

func TestBudgetAndGoalEndpoints(t *testing.T) {
	h := newServer(t)

	postTransaction(t, h, "2025-03-05T00:00:00Z", "Achat", []map[string]any{
		{"account_number": 601, "debit": "400"},
		{"account_number": 571, "credit": "400"},
	})

	rec := do(t, h, http.MethodPost, "/v1/budgets", map[string]any{
		"name":           "Achats mars",
		"account_prefix": "60",
		"year":           2025,
		"month":          3,
		"limit":          "1000",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget status = %d, body %s", rec.Code, rec.Body.String())
	}
	var b struct {
		ID string `json:"id"`
	}
	decode(t, rec, &b)

	rec = do(t, h, http.MethodGet, "/v1/budgets/"+b.ID+"/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("budget status = %d", rec.Code)
	}
	var st struct {
		Spent     string `json:"spent"`
		Remaining string `json:"remaining"`
		Over      bool   `json:"over"`
	}
	decode(t, rec, &st)
	if st.Spent != "400" || st.Remaining != "600" || st.Over {
		t.Errorf("budget status = %+v", st)
	}

	rec = do(t, h, http.MethodPost, "/v1/goals", map[string]any{
		"name":   "Fonds de roulement",
		"target": "2000",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create goal status = %d, body %s", rec.Code, rec.Body.String())
	}
	var g struct {
		ID string `json:"id"`
	}
	decode(t, rec, &g)

	rec = do(t, h, http.MethodPost, "/v1/goals/"+g.ID+"/contribute", map[string]any{
		"amount": "500",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("contribute status = %d, body %s", rec.Code, rec.Body.String())
	}
	var goal struct {
		Saved    string `json:"saved"`
		Progress string `json:"progress"`
	}
	decode(t, rec, &goal)
	if goal.Saved != "500" || goal.Progress != "0.25" {
		t.Errorf("goal = %+v", goal)
	}
}

func TestHealthEndpoints(t *testing.T) {
	h := newServer(t)

	if rec := do(t, h, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Errorf("healthz = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/readyz", nil); rec.Code != http.StatusOK {
		t.Errorf("readyz = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/metrics", nil); rec.Code != http.StatusOK {
		t.Errorf("metrics = %d", rec.Code)
	}
}
