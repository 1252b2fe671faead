package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/raditya/go-olshop/internal/catalog"
	"github.com/raditya/go-olshop/internal/checkout"
	"github.com/raditya/go-olshop/internal/events"
	kafkax "github.com/raditya/go-olshop/internal/kafka"
	"github.com/raditya/go-olshop/internal/payment"
	"github.com/raditya/go-olshop/internal/redisx"
	"github.com/raditya/go-olshop/internal/transaction"
)

// Publisher is the slice of the kafka producer the handlers need.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Reconciler applies one gateway callback.
type Reconciler interface {
	HandleCallback(ctx context.Context, cb payment.Callback) (*payment.Outcome, error)
}

type PaymentsHandler struct {
	Checkout *checkout.Service
	Recon    Reconciler
	Redis    *redis.Client

	CreatedProducer  Publisher
	StatusProducer   Publisher
	RejectedProducer Publisher
	Service          string
}

type checkoutRequest struct {
	CartIDs     []string `json:"cartIds"`
	PromoID     *string  `json:"promoId"`
	AddressID   string   `json:"addressId"`
	ShippingFee int64    `json:"shippingFee"`
	Courier     string   `json:"courier"`
}

type checkoutResponse struct {
	TransactionID string  `json:"transactionId"`
	RedirectURL   *string `json:"redirectUrl"`
	SessionToken  *string `json:"sessionToken"`
	Total         int64   `json:"total"`
	Discount      int64   `json:"discount"`
}

func (h *PaymentsHandler) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFail(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	ctx := r.Context()
	uid := userID(r)
	res, err := h.Checkout.Checkout(ctx, uid, checkout.Request{
		CartIDs:     req.CartIDs,
		PromoID:     req.PromoID,
		AddressID:   req.AddressID,
		ShippingFee: req.ShippingFee,
		Courier:     req.Courier,
	})

	var stockErr *catalog.InsufficientStockError
	if errors.As(err, &stockErr) {
		h.publishStockRejected(r, uid, stockErr)
		respondErr(w, err)
		return
	}

	// A committed transaction without a session is still a created transaction:
	// cache and announce it, then tell the client to retry session creation.
	if res != nil && res.Transaction != nil {
		h.cacheStatus(ctx, res.Transaction)
		h.publishCreated(r, res)
	}

	if err != nil {
		if errors.Is(err, checkout.ErrSessionUnavailable) && res != nil {
			respondFail(w, http.StatusBadGateway, "payment session unavailable, retry later",
				map[string]string{"transactionId": res.Transaction.ID})
			return
		}
		respondErr(w, err)
		return
	}

	respondOK(w, "Transaction created successfully", toCheckoutResponse(res.Transaction))
}

func (h *PaymentsHandler) retrySessionHandler(w http.ResponseWriter, r *http.Request) {
	trxID := chi.URLParam(r, "transactionId")
	trx, err := h.Checkout.RetrySession(r.Context(), userID(r), trxID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, "Payment session ready", toCheckoutResponse(trx))
}

func (h *PaymentsHandler) webhookHandler(w http.ResponseWriter, r *http.Request) {
	var cb payment.Callback
	if err := json.NewDecoder(r.Body).Decode(&cb); err != nil {
		respondFail(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if cb.OrderID == "" || cb.TransactionStatus == "" {
		respondFail(w, http.StatusBadRequest, "missing fields", nil)
		return
	}

	out, err := h.Recon.HandleCallback(r.Context(), cb)
	if err != nil {
		respondErr(w, err)
		return
	}
	if out.Moved {
		h.publishStatus(r, out, cb.PaymentType)
	}
	respondOK(w, "Notification received successfully", nil)
}

func (h *PaymentsHandler) cacheStatus(ctx context.Context, trx *transaction.Transaction) {
	key := fmt.Sprintf(redisx.KeyTrxStatus, trx.ID)
	body, _ := json.Marshal(map[string]string{"status_payment": string(trx.StatusPayment)})
	_ = h.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
}

func (h *PaymentsHandler) publishCreated(r *http.Request, res *checkout.Result) {
	items := make([]events.ItemQty, 0, len(res.Quote.Lines))
	for _, l := range res.Quote.Lines {
		items = append(items, events.ItemQty{ProductID: l.ProductID, Qty: l.Qty})
	}
	h.publish(h.CreatedProducer, r, events.EventTransactionCreated, res.Transaction.ID,
		events.TransactionCreatedPayload{
			TransactionID: res.Transaction.ID,
			UserID:        res.Transaction.UserID,
			Items:         items,
			Discount:      res.Quote.Discount,
			Total:         res.Quote.GrandTotal,
		})
}

func (h *PaymentsHandler) publishStatus(r *http.Request, out *payment.Outcome, paymentType string) {
	h.publish(h.StatusProducer, r, events.EventPaymentStatusChanged, out.TransactionID,
		events.PaymentStatusPayload{
			TransactionID: out.TransactionID,
			UserID:        out.UserID,
			StatusPayment: string(out.Status),
			PaymentType:   paymentType,
		})
}

func (h *PaymentsHandler) publishStockRejected(r *http.Request, uid string, stockErr *catalog.InsufficientStockError) {
	h.publish(h.RejectedProducer, r, events.EventStockRejected, uid,
		events.StockRejectedPayload{
			UserID: uid,
			Reason: "OUT_OF_STOCK",
			Details: []events.StockShortage{{
				ProductID: stockErr.ProductID,
				Required:  stockErr.Requested,
				Available: stockErr.Available,
			}},
		})
}

func (h *PaymentsHandler) publish(p Publisher, r *http.Request, eventType, correlationID string, payload any) {
	if p == nil {
		return
	}
	ev := events.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: correlationID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(events.PartitionKey(correlationID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func toCheckoutResponse(trx *transaction.Transaction) checkoutResponse {
	return checkoutResponse{
		TransactionID: trx.ID,
		RedirectURL:   trx.RedirectURL,
		SessionToken:  trx.SessionToken,
		Total:         trx.Total,
		Discount:      trx.Discount,
	}
}
