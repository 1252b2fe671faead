package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/raditya/go-olshop/internal/promo"
)

var (
	ErrInvalidLine    = errors.New("invalid cart line")
	ErrEmptyOrder     = errors.New("order has no payable lines")
	ErrPromoNotActive = errors.New("promo is not active yet")
	ErrPromoExpired   = errors.New("promo has expired")
	ErrInvalidTotal   = errors.New("grand total must be positive")
)

// Line is a cart line as seen by the pricing engine. PromoPrice, when set,
// overrides Price as the unit price.
type Line struct {
	CartID     string
	ProductID  string
	Qty        int
	Price      int64
	PromoPrice *int64
}

type LineTotal struct {
	CartID    string
	ProductID string
	Qty       int
	UnitPrice int64
	Total     int64
}

type Quote struct {
	Lines      []LineTotal
	Subtotal   int64
	Discount   int64
	GrandTotal int64
}

// Compute turns cart lines, an optional promo, and a shipping fee into a quote.
// Pure: no side effects, same inputs give the same quote.
func Compute(lines []Line, pr *promo.Promo, shippingFee int64, now time.Time) (*Quote, error) {
	q := &Quote{Lines: make([]LineTotal, 0, len(lines))}

	for _, l := range lines {
		if l.Qty <= 0 {
			return nil, fmt.Errorf("%w: qty %d for product %s", ErrInvalidLine, l.Qty, l.ProductID)
		}
		unit := l.Price
		if l.PromoPrice != nil {
			unit = *l.PromoPrice
		}
		if unit < 0 {
			return nil, fmt.Errorf("%w: negative price for product %s", ErrInvalidLine, l.ProductID)
		}
		total := unit * int64(l.Qty)
		q.Lines = append(q.Lines, LineTotal{
			CartID: l.CartID, ProductID: l.ProductID, Qty: l.Qty, UnitPrice: unit, Total: total,
		})
		q.Subtotal += total
	}

	if q.Subtotal <= 0 {
		return nil, ErrEmptyOrder
	}

	if pr != nil {
		if !pr.ActiveWithin(now) {
			if now.Before(pr.ActiveAt) {
				return nil, fmt.Errorf("%w: %s", ErrPromoNotActive, pr.Code)
			}
			return nil, fmt.Errorf("%w: %s", ErrPromoExpired, pr.Code)
		}
		q.Discount = percentOf(q.Subtotal, pr.Discount)
	}

	q.GrandTotal = q.Subtotal - q.Discount + shippingFee
	if q.GrandTotal <= 0 {
		return nil, ErrInvalidTotal
	}
	return q, nil
}

// percentOf computes subtotal*pct/100 in exact decimal arithmetic, truncated to
// whole minor units and clamped to [0, subtotal].
func percentOf(subtotal int64, pct int) int64 {
	d := decimal.NewFromInt(subtotal).
		Mul(decimal.NewFromInt(int64(pct))).
		Div(decimal.NewFromInt(100)).
		IntPart()
	if d < 0 {
		return 0
	}
	if d > subtotal {
		return subtotal
	}
	return d
}
