package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/raditya/go-olshop/internal/cart"
	"github.com/raditya/go-olshop/internal/catalog"
	"github.com/raditya/go-olshop/internal/checkout"
	"github.com/raditya/go-olshop/internal/notification"
	"github.com/raditya/go-olshop/internal/payment"
	"github.com/raditya/go-olshop/internal/pricing"
	"github.com/raditya/go-olshop/internal/promo"
	"github.com/raditya/go-olshop/internal/transaction"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Err     any    `json:"err"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondOK(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

func respondFail(w http.ResponseWriter, code int, message string, detail any) {
	writeJSON(w, code, envelope{Success: false, Message: message, Err: detail})
}

// respondErr maps domain errors onto the response envelope. Anything not in
// the taxonomy becomes an opaque 500; internals never reach the client.
func respondErr(w http.ResponseWriter, err error) {
	var stockErr *catalog.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		respondFail(w, http.StatusConflict, "insufficient stock", map[string]any{
			"productId": stockErr.ProductID,
			"required":  stockErr.Requested,
			"available": stockErr.Available,
		})
	case errors.Is(err, checkout.ErrInvalidRequest),
		errors.Is(err, pricing.ErrInvalidLine),
		errors.Is(err, pricing.ErrEmptyOrder),
		errors.Is(err, pricing.ErrInvalidTotal),
		errors.Is(err, payment.ErrUnknownStatus):
		respondFail(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, checkout.ErrCartNotFound),
		errors.Is(err, cart.ErrLineNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, promo.ErrPromoNotFound),
		errors.Is(err, transaction.ErrNotFound),
		errors.Is(err, notification.ErrNotFound):
		respondFail(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, cart.ErrNotOwner), errors.Is(err, checkout.ErrNotOwner):
		respondFail(w, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, pricing.ErrPromoExpired),
		errors.Is(err, pricing.ErrPromoNotActive),
		errors.Is(err, cart.ErrLineCheckedOut),
		errors.Is(err, checkout.ErrNotPending):
		respondFail(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, checkout.ErrSessionUnavailable):
		respondFail(w, http.StatusBadGateway, err.Error(), nil)
	case errors.Is(err, payment.ErrCancelFailed):
		// 5xx so the gateway redelivers the callback
		respondFail(w, http.StatusInternalServerError, payment.ErrCancelFailed.Error(), nil)
	default:
		log.WithError(err).Error("unhandled error")
		respondFail(w, http.StatusInternalServerError, "internal server error", nil)
	}
}
