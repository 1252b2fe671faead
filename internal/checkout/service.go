package checkout

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/raditya/go-olshop/internal/payment"
	"github.com/raditya/go-olshop/internal/pricing"
	"github.com/raditya/go-olshop/internal/transaction"
)

type Request struct {
	CartIDs     []string
	PromoID     *string
	AddressID   string
	ShippingFee int64
	Courier     string
}

type Result struct {
	Transaction *transaction.Transaction
	Quote       *pricing.Quote
}

// Store runs the atomic half of a checkout: pricing read, stock decrement,
// transaction insert, and cart flag flip all commit or all roll back.
type Store interface {
	CreateTransaction(ctx context.Context, userID string, req Request) (*transaction.Transaction, *pricing.Quote, error)
}

// TrxStore covers the post-commit persistence the orchestrator needs.
type TrxStore interface {
	Get(ctx context.Context, id string) (*transaction.Transaction, error)
	SetSession(ctx context.Context, id, redirectURL, token string) error
}

type Service struct {
	Store          Store
	Trx            TrxStore
	Gateway        payment.Gateway
	GatewayTimeout time.Duration
}

// Checkout converts the user's cart lines into a priced, stock-reserved
// transaction and a gateway payment session. If the session cannot be created
// the transaction is still committed and stays Pending without a session; the
// returned error is ErrSessionUnavailable and the result still carries the
// transaction so the caller can retry session creation later.
func (s *Service) Checkout(ctx context.Context, userID string, req Request) (*Result, error) {
	if err := validate(userID, req); err != nil {
		return nil, err
	}

	trx, quote, err := s.Store.CreateTransaction(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	res := &Result{Transaction: trx, Quote: quote}

	sess, err := s.createSession(ctx, trx)
	if err != nil {
		log.WithError(err).WithField("transaction_id", trx.ID).
			Warn("payment session creation failed, transaction left pending")
		return res, fmt.Errorf("%w: %s", ErrSessionUnavailable, err)
	}

	if err := s.Trx.SetSession(ctx, trx.ID, sess.RedirectURL, sess.Token); err != nil {
		return res, fmt.Errorf("persist payment session: %w", err)
	}
	trx.RedirectURL = &sess.RedirectURL
	trx.SessionToken = &sess.Token
	return res, nil
}

// RetrySession creates a gateway session for an existing Pending transaction
// that has none, without re-running checkout (which would reserve stock twice).
// Idempotent: a transaction that already has a session is returned as is.
func (s *Service) RetrySession(ctx context.Context, userID, trxID string) (*transaction.Transaction, error) {
	trx, err := s.Trx.Get(ctx, trxID)
	if err != nil {
		return nil, err
	}
	if trx.UserID != userID {
		return nil, ErrNotOwner
	}
	if trx.SessionToken != nil {
		return trx, nil
	}
	if trx.StatusPayment != transaction.PaymentPending {
		return nil, fmt.Errorf("%w: %s", ErrNotPending, trx.StatusPayment)
	}

	sess, err := s.createSession(ctx, trx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionUnavailable, err)
	}
	if err := s.Trx.SetSession(ctx, trx.ID, sess.RedirectURL, sess.Token); err != nil {
		return nil, fmt.Errorf("persist payment session: %w", err)
	}
	trx.RedirectURL = &sess.RedirectURL
	trx.SessionToken = &sess.Token
	return trx, nil
}

func (s *Service) createSession(ctx context.Context, trx *transaction.Transaction) (*payment.Session, error) {
	timeout := s.GatewayTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	gctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Gateway.CreateSession(gctx, payment.SessionRequest{
		OrderID:     trx.ID,
		GrossAmount: trx.Total,
		CustomerID:  trx.UserID,
	})
}

func validate(userID string, req Request) error {
	switch {
	case userID == "":
		return fmt.Errorf("%w: missing user", ErrInvalidRequest)
	case len(req.CartIDs) == 0:
		return fmt.Errorf("%w: cartIds is empty", ErrInvalidRequest)
	case req.AddressID == "":
		return fmt.Errorf("%w: addressId is required", ErrInvalidRequest)
	case req.ShippingFee < 0:
		return fmt.Errorf("%w: shippingFee must be non-negative", ErrInvalidRequest)
	case req.Courier == "":
		return fmt.Errorf("%w: courier is required", ErrInvalidRequest)
	}
	return nil
}
