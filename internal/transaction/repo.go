package transaction

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("transaction not found")

const columns = `transaction_id, user_id, promo_id, address_id, discount, shipping_fee, total,
	payment_type, courier, receipt_delivery, status_payment, shipping_status,
	redirect_url, session_token, status_updated_at, created_at, updated_at`

type Repo struct{ DB *pgxpool.Pool }

func scanTransaction(row pgx.Row) (*Transaction, error) {
	var t Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.PromoID, &t.AddressID, &t.Discount, &t.ShippingFee, &t.Total,
		&t.PaymentType, &t.Courier, &t.ReceiptDelivery, &t.StatusPayment, &t.ShippingStatus,
		&t.RedirectURL, &t.SessionToken, &t.StatusUpdatedAt, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Transaction, error) {
	return scanTransaction(r.DB.QueryRow(ctx,
		`SELECT `+columns+` FROM transactions WHERE transaction_id = $1`, id))
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Transaction, error) {
	return r.list(ctx, `SELECT `+columns+` FROM transactions WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *Repo) ListAll(ctx context.Context) ([]Transaction, error) {
	return r.list(ctx, `SELECT `+columns+` FROM transactions ORDER BY created_at DESC`)
}

func (r *Repo) list(ctx context.Context, sql string, args ...any) ([]Transaction, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// ListItems returns the frozen line references. Price comes from the item row,
// not the cart snapshot, so it is the unit price the checkout actually charged.
func (r *Repo) ListItems(ctx context.Context, id string) ([]ItemDetail, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT ti.cart_id, c.product_id, c.qty, ti.price
		FROM transaction_items ti JOIN carts c ON c.cart_id = ti.cart_id
		WHERE ti.transaction_id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ItemDetail
	for rows.Next() {
		var it ItemDetail
		if err := rows.Scan(&it.CartID, &it.ProductID, &it.Qty, &it.Price); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// SetSession persists the gateway session onto a still-Pending transaction.
func (r *Repo) SetSession(ctx context.Context, id, redirectURL, token string) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE transactions SET redirect_url = $2, session_token = $3, updated_at = now()
		WHERE transaction_id = $1 AND status_payment = $4`,
		id, redirectURL, token, PaymentPending)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) UpdateShipping(ctx context.Context, id string, status ShippingStatus, receipt *string) (*Transaction, error) {
	return scanTransaction(r.DB.QueryRow(ctx, `
		UPDATE transactions
		SET shipping_status = $2, receipt_delivery = COALESCE($3, receipt_delivery), updated_at = now()
		WHERE transaction_id = $1
		RETURNING `+columns, id, status, receipt))
}

// Insert writes the transaction and its frozen line references inside the
// caller's transaction. Each item carries the unit price the checkout charged,
// so a later product price change cannot rewrite what the detail view shows.
func Insert(ctx context.Context, tx pgx.Tx, t *Transaction, items []ItemDetail) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO transactions(transaction_id, user_id, promo_id, address_id, discount,
			shipping_fee, total, courier, status_payment, shipping_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`,
		t.ID, t.UserID, t.PromoID, t.AddressID, t.Discount,
		t.ShippingFee, t.Total, t.Courier, t.StatusPayment, t.ShippingStatus).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return err
	}
	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO transaction_items(transaction_id, cart_id, price) VALUES ($1, $2, $3)`,
			t.ID, it.CartID, it.Price); err != nil {
			return err
		}
	}
	return nil
}

// ApplyStatus moves a Pending transaction to next and reports whether the row
// actually moved. A terminal row is left untouched (moved=false), which is what
// makes duplicate callbacks no-ops.
func ApplyStatus(ctx context.Context, tx pgx.Tx, id string, next PaymentStatus, paymentType *string, at time.Time) (bool, error) {
	ct, err := tx.Exec(ctx, `
		UPDATE transactions
		SET status_payment = $2, payment_type = COALESCE($3, payment_type),
		    status_updated_at = $4, updated_at = now()
		WHERE transaction_id = $1 AND status_payment = $5`,
		id, next, paymentType, at, PaymentPending)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}
