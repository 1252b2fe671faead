package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/raditya/go-olshop/internal/checkout"
	"github.com/raditya/go-olshop/internal/transaction"
)

type TransactionsHandler struct {
	Repo *transaction.Repo
}

type transactionView struct {
	TransactionID   string  `json:"transactionId"`
	UserID          string  `json:"userId"`
	PromoID         *string `json:"promoId"`
	AddressID       string  `json:"addressId"`
	Discount        int64   `json:"discount"`
	ShippingFee     int64   `json:"shippingFee"`
	Total           int64   `json:"total"`
	PaymentType     *string `json:"payment_type"`
	Courier         string  `json:"courier"`
	ReceiptDelivery *string `json:"receiptDelivery"`
	StatusPayment   string  `json:"status_payment"`
	ShippingStatus  string  `json:"shippingStatus"`
	RedirectURL     *string `json:"redirectUrl"`
}

type transactionItemView struct {
	CartID    string `json:"cartId"`
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
	Price     int64  `json:"price"`
}

func toTransactionView(t *transaction.Transaction) transactionView {
	return transactionView{
		TransactionID:   t.ID,
		UserID:          t.UserID,
		PromoID:         t.PromoID,
		AddressID:       t.AddressID,
		Discount:        t.Discount,
		ShippingFee:     t.ShippingFee,
		Total:           t.Total,
		PaymentType:     t.PaymentType,
		Courier:         t.Courier,
		ReceiptDelivery: t.ReceiptDelivery,
		StatusPayment:   string(t.StatusPayment),
		ShippingStatus:  string(t.ShippingStatus),
		RedirectURL:     t.RedirectURL,
	}
}

func (h *TransactionsHandler) listMine(w http.ResponseWriter, r *http.Request) {
	trxs, err := h.Repo.ListByUser(r.Context(), userID(r))
	if err != nil {
		respondErr(w, err)
		return
	}
	out := make([]transactionView, 0, len(trxs))
	for i := range trxs {
		out = append(out, toTransactionView(&trxs[i]))
	}
	respondOK(w, "Get all transactions successfully", out)
}

func (h *TransactionsHandler) detail(w http.ResponseWriter, r *http.Request) {
	trxID := chi.URLParam(r, "transactionId")
	trx, err := h.Repo.Get(r.Context(), trxID)
	if err != nil {
		respondErr(w, err)
		return
	}
	if trx.UserID != userID(r) {
		respondErr(w, checkout.ErrNotOwner)
		return
	}
	items, err := h.Repo.ListItems(r.Context(), trxID)
	if err != nil {
		respondErr(w, err)
		return
	}
	views := make([]transactionItemView, 0, len(items))
	for _, it := range items {
		views = append(views, transactionItemView{CartID: it.CartID, ProductID: it.ProductID, Qty: it.Qty, Price: it.Price})
	}
	respondOK(w, "Get transaction detail successfully", map[string]any{
		"transaction": toTransactionView(trx),
		"items":       views,
	})
}

func (h *TransactionsHandler) listAll(w http.ResponseWriter, r *http.Request) {
	trxs, err := h.Repo.ListAll(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	out := make([]transactionView, 0, len(trxs))
	for i := range trxs {
		out = append(out, toTransactionView(&trxs[i]))
	}
	respondOK(w, "Get all transactions successfully", out)
}

type updateShippingRequest struct {
	ShippingStatus  string  `json:"shippingStatus"`
	ReceiptDelivery *string `json:"receiptDelivery"`
}

var shippingStatuses = map[transaction.ShippingStatus]bool{
	transaction.ShippingPending:   true,
	transaction.ShippingShipped:   true,
	transaction.ShippingDelivered: true,
}

func (h *TransactionsHandler) updateShipping(w http.ResponseWriter, r *http.Request) {
	trxID := chi.URLParam(r, "transactionId")
	var req updateShippingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFail(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	status := transaction.ShippingStatus(req.ShippingStatus)
	if !shippingStatuses[status] {
		respondFail(w, http.StatusBadRequest, "invalid shippingStatus", nil)
		return
	}
	trx, err := h.Repo.UpdateShipping(r.Context(), trxID, status, req.ReceiptDelivery)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, "Transaction updated successfully", toTransactionView(trx))
}
