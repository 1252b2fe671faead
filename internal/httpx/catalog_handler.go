package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/raditya/go-olshop/internal/catalog"
)

type CatalogHandler struct {
	Repo *catalog.Repo
}

type productView struct {
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	PromoPrice *int64 `json:"promoPrice"`
	Stock      int    `json:"stock"`
}

func toProductView(p catalog.Product) productView {
	return productView{ProductID: p.ID, Name: p.Name, Price: p.Price, PromoPrice: p.PromoPrice, Stock: p.Stock}
}

func (h *CatalogHandler) list(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Repo.List(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	out := make([]productView, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProductView(p))
	}
	respondOK(w, "Get all products successfully", out)
}

func (h *CatalogHandler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Repo.Get(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, "Get product successfully", toProductView(*p))
}

type stockInRequest struct {
	SupplierID string `json:"supplierId"`
	ProductID  string `json:"productId"`
	StockIn    int    `json:"stockIn"`
}

func (h *CatalogHandler) stockIn(w http.ResponseWriter, r *http.Request) {
	var req stockInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFail(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if req.SupplierID == "" || req.ProductID == "" || req.StockIn <= 0 {
		respondFail(w, http.StatusBadRequest, "supplierId, productId and positive stockIn are required", nil)
		return
	}
	entry, err := h.Repo.StockIn(r.Context(), req.SupplierID, req.ProductID, req.StockIn)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, "Manage stock created successfully", map[string]any{
		"manageStockId": entry.ID,
		"productId":     entry.ProductID,
		"stockIn":       entry.StockIn,
		"dateStockIn":   entry.DateStockIn,
	})
}
