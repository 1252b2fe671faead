package transaction

import "time"

// Transaction freezes one checkout: the referenced cart lines, the discount and
// grand total computed at checkout time, and the payment/shipping state. Later
// price or promo changes never alter an existing transaction's amounts.
type Transaction struct {
	ID              string
	UserID          string
	PromoID         *string
	AddressID       string
	Discount        int64
	ShippingFee     int64
	Total           int64
	PaymentType     *string // set by the gateway callback
	Courier         string
	ReceiptDelivery *string
	StatusPayment   PaymentStatus
	ShippingStatus  ShippingStatus
	RedirectURL     *string
	SessionToken    *string
	StatusUpdatedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ItemDetail is a frozen line reference joined with its cart snapshot.
type ItemDetail struct {
	CartID    string
	ProductID string
	Qty       int
	Price     int64
}
