package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/raditya/go-olshop/internal/notification"
	"github.com/raditya/go-olshop/internal/transaction"
)

// Repo implements Store on Postgres. The conditional status update and the
// success notification share one database transaction, which is what keeps the
// notification exactly-once per state transition.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) ApplyStatus(ctx context.Context, id string, next transaction.PaymentStatus, paymentType *string, at time.Time) (*Outcome, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var userID string
	var cur transaction.PaymentStatus
	var shipping transaction.ShippingStatus
	err = tx.QueryRow(ctx, `
		SELECT user_id, status_payment, shipping_status FROM transactions
		WHERE transaction_id = $1 FOR UPDATE`, id).Scan(&userID, &cur, &shipping)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, transaction.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	out := &Outcome{TransactionID: id, UserID: userID, Status: cur}
	if !transaction.CanTransition(cur, next) {
		return out, nil // terminal already; commit nothing
	}

	moved, err := transaction.ApplyStatus(ctx, tx, id, next, paymentType, at)
	if err != nil {
		return nil, err
	}
	if !moved {
		return out, nil
	}

	if next == transaction.PaymentSuccess && shipping == transaction.ShippingPending {
		n := &notification.Notification{
			ID:            uuid.NewString(),
			UserID:        userID,
			TransactionID: &id,
			Title:         "Payment received",
			Body:          fmt.Sprintf("Your payment for order %s was received. We are preparing your shipment.", id),
		}
		if err := notification.Insert(ctx, tx, n); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	out.Status = next
	out.Moved = true
	return out, nil
}
