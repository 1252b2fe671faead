package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/raditya/go-olshop/internal/promo"
)

type PromosHandler struct {
	Repo *promo.Repo
}

type promoView struct {
	PromoID   string    `json:"promoId"`
	CodePromo string    `json:"codePromo"`
	Discount  int       `json:"discount"`
	ActiveAt  time.Time `json:"activeAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func toPromoView(p promo.Promo) promoView {
	return promoView{PromoID: p.ID, CodePromo: p.Code, Discount: p.Discount, ActiveAt: p.ActiveAt, ExpiresAt: p.ExpiresAt}
}

type createPromoRequest struct {
	CodePromo string    `json:"codePromo"`
	Discount  int       `json:"discount"`
	ActiveAt  time.Time `json:"activeAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *PromosHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createPromoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFail(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if req.CodePromo == "" || req.ActiveAt.IsZero() || req.ExpiresAt.IsZero() {
		respondFail(w, http.StatusBadRequest, "codePromo, activeAt and expiresAt are required", nil)
		return
	}
	if req.Discount < 0 || req.Discount > 100 {
		respondFail(w, http.StatusBadRequest, "discount must be between 0 and 100", nil)
		return
	}
	p, err := h.Repo.Create(r.Context(), req.CodePromo, req.Discount, req.ActiveAt, req.ExpiresAt)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, "Promo created successfully", toPromoView(*p))
}

func (h *PromosHandler) list(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Repo.List(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	out := make([]promoView, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPromoView(p))
	}
	respondOK(w, "Get all promos successfully", out)
}
