package transaction

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentSuccess   PaymentStatus = "Success"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentExpired   PaymentStatus = "Expired"
	PaymentCancelled PaymentStatus = "Cancelled"
)

type ShippingStatus string

const (
	ShippingPending   ShippingStatus = "Pending"
	ShippingShipped   ShippingStatus = "Shipped"
	ShippingDelivered ShippingStatus = "Delivered"
)

// Pending is the only state with outgoing edges; the four settled states absorb
// every later callback.
var validNext = map[PaymentStatus]map[PaymentStatus]bool{
	PaymentPending: {
		PaymentSuccess:   true,
		PaymentFailed:    true,
		PaymentExpired:   true,
		PaymentCancelled: true,
	},
	PaymentSuccess:   {},
	PaymentFailed:    {},
	PaymentExpired:   {},
	PaymentCancelled: {},
}

func CanTransition(from, to PaymentStatus) bool {
	return validNext[from][to]
}

func IsTerminal(s PaymentStatus) bool {
	next, ok := validNext[s]
	return ok && len(next) == 0
}
