package httpapi

import (
	"encoding/json"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/kdiallo/sikabooks/internal/ledger"
)

func (s *Server) postProduct(w http.ResponseWriter, r *http.Request) {
	var req postProductRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	price, err := money.NewAmountFromMinorUnits(req.Currency, req.UnitPriceMinor)
	if err != nil {
		badRequest(w, "invalid currency or unit price")
		return
	}
	cost, err := money.NewAmountFromMinorUnits(req.Currency, req.UnitCostMinor)
	if err != nil {
		badRequest(w, "invalid unit cost")
		return
	}
	p, err := s.inventorySvc.CreateProduct(r.Context(), ledger.Product{
		Name:      req.Name,
		SKU:       req.SKU,
		Currency:  req.Currency,
		UnitPrice: price,
		UnitCost:  cost,
		Stock:     req.Stock,
		Metadata:  req.Metadata,
	})
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toProductResponse(p))
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.inventorySvc.ListProducts(r.Context())
	if err != nil {
		serviceErr(w, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	p, err := s.inventorySvc.GetProduct(r.Context(), id)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toProductResponse(p))
}

func (s *Server) postSale(w http.ResponseWriter, r *http.Request) {
	var req postTradeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	sale, err := s.inventorySvc.RecordSale(r.Context(), req.ProductID, req.Quantity, req.Date)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toSaleResponse(sale))
}

func (s *Server) listSales(w http.ResponseWriter, r *http.Request) {
	sales, err := s.store.Sales(r.Context())
	if err != nil {
		serviceErr(w, err)
		return
	}
	out := make([]tradeResponse, 0, len(sales))
	for _, v := range sales {
		out = append(out, toSaleResponse(v))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) postPurchase(w http.ResponseWriter, r *http.Request) {
	var req postTradeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	purchase, err := s.inventorySvc.RecordPurchase(r.Context(), req.ProductID, req.Quantity, req.Date)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toPurchaseResponse(purchase))
}

func (s *Server) listPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := s.store.Purchases(r.Context())
	if err != nil {
		serviceErr(w, err)
		return
	}
	out := make([]tradeResponse, 0, len(purchases))
	for _, v := range purchases {
		out = append(out, toPurchaseResponse(v))
	}
	toJSON(w, http.StatusOK, out)
}
