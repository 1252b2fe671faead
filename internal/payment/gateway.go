package payment

import "context"

// Session is a hosted-payment-page handle for one transaction.
type Session struct {
	RedirectURL string
	Token       string
}

type SessionRequest struct {
	OrderID     string
	GrossAmount int64 // minor currency units
	CustomerID  string
}

// Gateway is the payment provider as the core needs it. One instance is built
// at process start and injected wherever sessions are created or cancelled.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	CancelSession(ctx context.Context, orderID string) error
}
