package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT product_id, name, price, promo_price, stock, is_deleted, created_at, updated_at
		FROM products WHERE is_deleted = false ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.PromoPrice, &p.Stock, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, productID string) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT product_id, name, price, promo_price, stock, is_deleted, created_at, updated_at
		FROM products WHERE product_id = $1 AND is_deleted = false`, productID).
		Scan(&p.ID, &p.Name, &p.Price, &p.PromoPrice, &p.Stock, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// StockIn records a supplier delivery and increments product stock in one transaction.
func (r *Repo) StockIn(ctx context.Context, supplierID, productID string, qty int) (*StockEntry, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("stock-in qty must be positive, got %d", qty)
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	entry := &StockEntry{
		ID:          uuid.NewString(),
		SupplierID:  supplierID,
		ProductID:   productID,
		StockIn:     qty,
		DateStockIn: time.Now().UTC(),
	}

	ct, err := tx.Exec(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = now()
		WHERE product_id = $1 AND is_deleted = false`, productID, qty)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() != 1 {
		return nil, ErrProductNotFound
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO manage_stock(manage_stock_id, supplier_id, product_id, stock_in, date_stock_in)
		VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.SupplierID, entry.ProductID, entry.StockIn, entry.DateStockIn); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return entry, nil
}
