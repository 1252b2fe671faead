package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/raditya/go-olshop/internal/catalog"
)

type Repo struct{ DB *pgxpool.Pool }

// AddLine creates a cart line for the user, snapshotting the product's current
// effective unit price (promo price if set, else base price).
func (r *Repo) AddLine(ctx context.Context, userID, productID string, qty int) (*Line, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("invalid qty %d", qty)
	}

	var price int64
	var promoPrice *int64
	err := r.DB.QueryRow(ctx, `
		SELECT price, promo_price FROM products
		WHERE product_id = $1 AND is_deleted = false`, productID).Scan(&price, &promoPrice)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, catalog.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if promoPrice != nil {
		price = *promoPrice
	}

	l := &Line{ID: uuid.NewString(), UserID: userID, ProductID: productID, Qty: qty, Price: price}
	err = r.DB.QueryRow(ctx, `
		INSERT INTO carts(cart_id, user_id, product_id, qty, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		l.ID, l.UserID, l.ProductID, l.Qty, l.Price).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ListOpen returns the user's lines that have not been checked out yet.
func (r *Repo) ListOpen(ctx context.Context, userID string) ([]LineDetail, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT c.cart_id, c.user_id, c.product_id, c.qty, c.price, c.is_checkout,
		       c.created_at, c.updated_at, p.name, p.price, p.promo_price, p.stock
		FROM carts c JOIN products p ON p.product_id = c.product_id
		WHERE c.user_id = $1 AND c.is_checkout = false
		ORDER BY c.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LineDetail
	for rows.Next() {
		var d LineDetail
		if err := rows.Scan(&d.ID, &d.UserID, &d.ProductID, &d.Qty, &d.Price, &d.IsCheckout,
			&d.CreatedAt, &d.UpdatedAt, &d.ProductName, &d.ProductPrice, &d.PromoPrice, &d.ProductStock); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, userID, cartID string) (*LineDetail, error) {
	var d LineDetail
	err := r.DB.QueryRow(ctx, `
		SELECT c.cart_id, c.user_id, c.product_id, c.qty, c.price, c.is_checkout,
		       c.created_at, c.updated_at, p.name, p.price, p.promo_price, p.stock
		FROM carts c JOIN products p ON p.product_id = c.product_id
		WHERE c.cart_id = $1`, cartID).
		Scan(&d.ID, &d.UserID, &d.ProductID, &d.Qty, &d.Price, &d.IsCheckout,
			&d.CreatedAt, &d.UpdatedAt, &d.ProductName, &d.ProductPrice, &d.PromoPrice, &d.ProductStock)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLineNotFound
	}
	if err != nil {
		return nil, err
	}
	if d.UserID != userID {
		return nil, ErrNotOwner
	}
	return &d, nil
}

func (r *Repo) UpdateQty(ctx context.Context, userID, cartID string, qty int) (*Line, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("invalid qty %d", qty)
	}
	if err := r.checkOwner(ctx, userID, cartID); err != nil {
		return nil, err
	}

	var l Line
	err := r.DB.QueryRow(ctx, `
		UPDATE carts SET qty = $3, updated_at = now()
		WHERE cart_id = $1 AND user_id = $2 AND is_checkout = false
		RETURNING cart_id, user_id, product_id, qty, price, is_checkout, created_at, updated_at`,
		cartID, userID, qty).
		Scan(&l.ID, &l.UserID, &l.ProductID, &l.Qty, &l.Price, &l.IsCheckout, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLineNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Delete removes an open line. A checked-out line is frozen into a transaction
// and must stay referenceable, so it cannot be deleted.
func (r *Repo) Delete(ctx context.Context, userID, cartID string) error {
	if err := r.checkOwner(ctx, userID, cartID); err != nil {
		return err
	}
	ct, err := r.DB.Exec(ctx,
		`DELETE FROM carts WHERE cart_id = $1 AND user_id = $2 AND is_checkout = false`, cartID, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrLineCheckedOut
	}
	return nil
}

func (r *Repo) checkOwner(ctx context.Context, userID, cartID string) error {
	var owner string
	var checkedOut bool
	err := r.DB.QueryRow(ctx, `SELECT user_id, is_checkout FROM carts WHERE cart_id = $1`, cartID).
		Scan(&owner, &checkedOut)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrLineNotFound
	}
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrNotOwner
	}
	if checkedOut {
		return ErrLineCheckedOut
	}
	return nil
}

// LinesForUpdate loads the given open cart lines for userID joined with current
// product pricing, locking the product rows until the caller's transaction ends.
// Lines that are missing, already checked out, or owned by someone else are
// simply absent from the result; the caller compares counts.
func LinesForUpdate(ctx context.Context, tx pgx.Tx, userID string, cartIDs []string) ([]CheckoutLine, error) {
	rows, err := tx.Query(ctx, `
		SELECT c.cart_id, c.product_id, c.qty, p.price, p.promo_price
		FROM carts c JOIN products p ON p.product_id = c.product_id
		WHERE c.user_id = $1 AND c.cart_id = ANY($2) AND c.is_checkout = false AND p.is_deleted = false
		FOR UPDATE OF p`, userID, cartIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CheckoutLine
	for rows.Next() {
		var l CheckoutLine
		if err := rows.Scan(&l.CartID, &l.ProductID, &l.Qty, &l.Price, &l.PromoPrice); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// MarkCheckedOut flips the consumed lines so they disappear from cart views and
// cannot be checked out twice.
func MarkCheckedOut(ctx context.Context, tx pgx.Tx, cartIDs []string) error {
	_, err := tx.Exec(ctx, `
		UPDATE carts SET is_checkout = true, updated_at = now()
		WHERE cart_id = ANY($1)`, cartIDs)
	return err
}
