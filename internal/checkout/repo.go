package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/raditya/go-olshop/internal/cart"
	"github.com/raditya/go-olshop/internal/catalog"
	"github.com/raditya/go-olshop/internal/pricing"
	"github.com/raditya/go-olshop/internal/promo"
	"github.com/raditya/go-olshop/internal/transaction"
)

type Repo struct{ DB *pgxpool.Pool }

// CreateTransaction is the atomic unit of a checkout. Inside one database
// transaction it locks the product rows behind the requested cart lines,
// prices them, decrements stock, inserts the transaction with its frozen line
// references, and flips the lines to checked-out. Any failure rolls the whole
// unit back, so a pricing or stock error leaves nothing behind.
func (r *Repo) CreateTransaction(ctx context.Context, userID string, req Request) (*transaction.Transaction, *pricing.Quote, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	lines, err := cart.LinesForUpdate(ctx, tx, userID, req.CartIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(lines) != len(req.CartIDs) {
		return nil, nil, ErrCartNotFound
	}

	var pr *promo.Promo
	if req.PromoID != nil {
		if pr, err = promo.GetInTx(ctx, tx, *req.PromoID); err != nil {
			return nil, nil, err
		}
	}

	quote, err := pricing.Compute(toPricingLines(lines), pr, req.ShippingFee, time.Now().UTC())
	if err != nil {
		return nil, nil, err
	}

	if err := catalog.ReserveStock(ctx, tx, toItems(lines)); err != nil {
		return nil, nil, err
	}

	trx := &transaction.Transaction{
		ID:             uuid.NewString(),
		UserID:         userID,
		PromoID:        req.PromoID,
		AddressID:      req.AddressID,
		Discount:       quote.Discount,
		ShippingFee:    req.ShippingFee,
		Total:          quote.GrandTotal,
		Courier:        req.Courier,
		StatusPayment:  transaction.PaymentPending,
		ShippingStatus: transaction.ShippingPending,
	}
	if err := transaction.Insert(ctx, tx, trx, toItemDetails(quote.Lines)); err != nil {
		return nil, nil, err
	}

	if err := cart.MarkCheckedOut(ctx, tx, req.CartIDs); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return trx, quote, nil
}

func toPricingLines(lines []cart.CheckoutLine) []pricing.Line {
	out := make([]pricing.Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, pricing.Line{
			CartID: l.CartID, ProductID: l.ProductID, Qty: l.Qty,
			Price: l.Price, PromoPrice: l.PromoPrice,
		})
	}
	return out
}

// toItemDetails freezes the quote's per-line unit price onto the item rows;
// the cart's add-time snapshot is not what was charged.
func toItemDetails(lines []pricing.LineTotal) []transaction.ItemDetail {
	out := make([]transaction.ItemDetail, 0, len(lines))
	for _, l := range lines {
		out = append(out, transaction.ItemDetail{
			CartID: l.CartID, ProductID: l.ProductID, Qty: l.Qty, Price: l.UnitPrice,
		})
	}
	return out
}

func toItems(lines []cart.CheckoutLine) []catalog.ItemQty {
	out := make([]catalog.ItemQty, 0, len(lines))
	for _, l := range lines {
		out = append(out, catalog.ItemQty{ProductID: l.ProductID, Qty: l.Qty})
	}
	return out
}
