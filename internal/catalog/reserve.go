package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type ItemQty struct {
	ProductID string
	Qty       int
}

// ReserveStock decrements stock for every item inside the caller's transaction.
// The decrement is conditional at the row level, so two overlapping checkouts
// cannot both take the last unit. On the first shortage it returns
// *InsufficientStockError; the caller's rollback discards any decrements
// already applied.
func ReserveStock(ctx context.Context, tx pgx.Tx, items []ItemQty) error {
	for _, it := range items {
		ct, err := tx.Exec(ctx, `
			UPDATE products SET stock = stock - $2, updated_at = now()
			WHERE product_id = $1 AND is_deleted = false AND stock >= $2`,
			it.ProductID, it.Qty)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 1 {
			continue
		}

		var available int
		err = tx.QueryRow(ctx, `SELECT stock FROM products WHERE product_id = $1 AND is_deleted = false`,
			it.ProductID).Scan(&available)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}
		return &InsufficientStockError{ProductID: it.ProductID, Requested: it.Qty, Available: available}
	}
	return nil
}
