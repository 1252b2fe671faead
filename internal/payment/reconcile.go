package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/raditya/go-olshop/internal/transaction"
)

var (
	ErrUnknownStatus = errors.New("unrecognized gateway status")
	ErrCancelFailed  = errors.New("gateway-side cancellation failed")
)

// Callback is the asynchronous status notification the gateway posts back.
type Callback struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	PaymentType       string `json:"payment_type"`
	TransactionTime   string `json:"transaction_time"`
}

// Outcome reports what a callback did to the transaction.
type Outcome struct {
	TransactionID string
	UserID        string
	Status        transaction.PaymentStatus
	Moved         bool // false = idempotent no-op
}

// gatewayStatus maps the gateway's status vocabulary to ours. The mapping is
// fixed; anything else is rejected without touching the transaction.
var gatewayStatus = map[string]transaction.PaymentStatus{
	"pending":    transaction.PaymentPending,
	"settlement": transaction.PaymentSuccess,
	"deny":       transaction.PaymentFailed,
	"expire":     transaction.PaymentExpired,
	"cancel":     transaction.PaymentCancelled,
}

func MapGatewayStatus(keyword string) (transaction.PaymentStatus, error) {
	s, ok := gatewayStatus[keyword]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, keyword)
	}
	return s, nil
}

// Store applies a payment-status transition and, on a real Pending→Success
// move with shipping still pending, records the user notification in the same
// database transaction.
type Store interface {
	ApplyStatus(ctx context.Context, id string, next transaction.PaymentStatus, paymentType *string, at time.Time) (*Outcome, error)
}

type TransactionGetter interface {
	Get(ctx context.Context, id string) (*transaction.Transaction, error)
}

// Reconciler consumes gateway callbacks and applies them idempotently.
type Reconciler struct {
	Trx     TransactionGetter
	Store   Store
	Gateway Gateway
}

// HandleCallback applies one gateway callback. Duplicate or out-of-order
// deliveries for a settled transaction are accepted as no-ops; a transition
// into Cancelled requires the gateway-side cancel to succeed first so the two
// sides cannot diverge.
func (r *Reconciler) HandleCallback(ctx context.Context, cb Callback) (*Outcome, error) {
	next, err := MapGatewayStatus(cb.TransactionStatus)
	if err != nil {
		return nil, err
	}

	cur, err := r.Trx.Get(ctx, cb.OrderID)
	if err != nil {
		return nil, err
	}

	if next == transaction.PaymentPending || transaction.IsTerminal(cur.StatusPayment) {
		return &Outcome{TransactionID: cur.ID, UserID: cur.UserID, Status: cur.StatusPayment, Moved: false}, nil
	}

	if next == transaction.PaymentCancelled {
		if err := r.Gateway.CancelSession(ctx, cb.OrderID); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrCancelFailed, err)
		}
	}

	var paymentType *string
	if cb.PaymentType != "" {
		paymentType = &cb.PaymentType
	}

	out, err := r.Store.ApplyStatus(ctx, cb.OrderID, next, paymentType, statusTime(cb.TransactionTime))
	if err != nil {
		return nil, err
	}
	if !out.Moved {
		// lost the race against a concurrent callback; that delivery won
		log.WithFields(log.Fields{"transaction_id": cb.OrderID, "status": next}).
			Info("payment status already settled, callback ignored")
	}
	return out, nil
}

func statusTime(s string) time.Time {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t.UTC()
	}
	return time.Now().UTC()
}
