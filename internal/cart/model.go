package cart

import "time"

// Line is one product+quantity entry in a user's cart. Price is the unit price
// snapshotted when the line was added (promo price if one was active, else base
// price); the authoritative price for checkout is re-read from the product row.
type Line struct {
	ID         string
	UserID     string
	ProductID  string
	Qty        int
	Price      int64
	IsCheckout bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LineDetail joins a line with the product fields cart views need.
type LineDetail struct {
	Line
	ProductName  string
	ProductPrice int64
	PromoPrice   *int64
	ProductStock int
}

// CheckoutLine is a cart line joined with the current product pricing, loaded
// under lock at checkout time.
type CheckoutLine struct {
	CartID     string
	ProductID  string
	Qty        int
	Price      int64
	PromoPrice *int64
}
