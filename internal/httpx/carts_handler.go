package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/raditya/go-olshop/internal/cart"
)

type CartsHandler struct {
	Repo *cart.Repo
}

type addCartRequest struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

type cartLineView struct {
	CartID    string `json:"cartId"`
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
	Price     int64  `json:"price"`
}

type cartDetailView struct {
	cartLineView
	ProductName  string `json:"productName"`
	ProductPrice int64  `json:"productPrice"`
	PromoPrice   *int64 `json:"promoPrice"`
	ProductStock int    `json:"productStock"`
}

func (h *CartsHandler) create(w http.ResponseWriter, r *http.Request) {
	req := addCartRequest{Qty: 1}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFail(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if req.ProductID == "" {
		respondFail(w, http.StatusBadRequest, "productId is required", nil)
		return
	}
	if req.Qty <= 0 {
		respondFail(w, http.StatusBadRequest, "invalid quantity", nil)
		return
	}
	l, err := h.Repo.AddLine(r.Context(), userID(r), req.ProductID, req.Qty)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, "Successfully created cart", cartLineView{
		CartID: l.ID, ProductID: l.ProductID, Qty: l.Qty, Price: l.Price,
	})
}

func (h *CartsHandler) list(w http.ResponseWriter, r *http.Request) {
	lines, err := h.Repo.ListOpen(r.Context(), userID(r))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, "Successfully retrieved carts", toDetailViews(lines))
}

func (h *CartsHandler) detail(w http.ResponseWriter, r *http.Request) {
	d, err := h.Repo.Get(r.Context(), userID(r), chi.URLParam(r, "cartId"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, "Cart details retrieved successfully", toDetailView(*d))
}

type updateCartRequest struct {
	Qty int `json:"qty"`
}

func (h *CartsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFail(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if req.Qty <= 0 {
		respondFail(w, http.StatusBadRequest, "quantity must be positive", nil)
		return
	}
	l, err := h.Repo.UpdateQty(r.Context(), userID(r), chi.URLParam(r, "cartId"), req.Qty)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, "Successfully updated cart", cartLineView{
		CartID: l.ID, ProductID: l.ProductID, Qty: l.Qty, Price: l.Price,
	})
}

func (h *CartsHandler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.Delete(r.Context(), userID(r), chi.URLParam(r, "cartId")); err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, "Successfully deleted cart", nil)
}

func toDetailView(d cart.LineDetail) cartDetailView {
	return cartDetailView{
		cartLineView: cartLineView{CartID: d.ID, ProductID: d.ProductID, Qty: d.Qty, Price: d.Price},
		ProductName:  d.ProductName,
		ProductPrice: d.ProductPrice,
		PromoPrice:   d.PromoPrice,
		ProductStock: d.ProductStock,
	}
}

func toDetailViews(ds []cart.LineDetail) []cartDetailView {
	out := make([]cartDetailView, 0, len(ds))
	for _, d := range ds {
		out = append(out, toDetailView(d))
	}
	return out
}
