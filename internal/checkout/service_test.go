package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raditya/go-olshop/internal/payment"
	"github.com/raditya/go-olshop/internal/pricing"
	"github.com/raditya/go-olshop/internal/transaction"
)

type mockStore struct {
	trx   *transaction.Transaction
	quote *pricing.Quote
	err   error

	gotUserID string
	gotReq    Request
}

func (m *mockStore) CreateTransaction(_ context.Context, userID string, req Request) (*transaction.Transaction, *pricing.Quote, error) {
	m.gotUserID = userID
	m.gotReq = req
	return m.trx, m.quote, m.err
}

type mockTrxStore struct {
	trx    *transaction.Transaction
	getErr error
	setErr error

	setID    string
	setURL   string
	setToken string
}

func (m *mockTrxStore) Get(_ context.Context, id string) (*transaction.Transaction, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.trx, nil
}

func (m *mockTrxStore) SetSession(_ context.Context, id, redirectURL, token string) error {
	m.setID, m.setURL, m.setToken = id, redirectURL, token
	return m.setErr
}

type mockGateway struct {
	sess      *payment.Session
	createErr error
	cancelErr error
	calls     int
}

func (m *mockGateway) CreateSession(_ context.Context, _ payment.SessionRequest) (*payment.Session, error) {
	m.calls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.sess, nil
}

func (m *mockGateway) CancelSession(_ context.Context, _ string) error { return m.cancelErr }

func pendingTrx() *transaction.Transaction {
	return &transaction.Transaction{
		ID:             "trx-1",
		UserID:         "user-1",
		Total:          25000,
		StatusPayment:  transaction.PaymentPending,
		ShippingStatus: transaction.ShippingPending,
	}
}

func validRequest() Request {
	return Request{
		CartIDs:     []string{"c1", "c2"},
		AddressID:   "addr-1",
		ShippingFee: 5000,
		Courier:     "jne",
	}
}

func TestCheckout_Success(t *testing.T) {
	store := &mockStore{trx: pendingTrx(), quote: &pricing.Quote{GrandTotal: 25000}}
	trxStore := &mockTrxStore{}
	gw := &mockGateway{sess: &payment.Session{RedirectURL: "https://pay/abc", Token: "tok-1"}}
	svc := &Service{Store: store, Trx: trxStore, Gateway: gw, GatewayTimeout: time.Second}

	res, err := svc.Checkout(context.Background(), "user-1", validRequest())
	require.NoError(t, err)

	assert.Equal(t, "user-1", store.gotUserID)
	assert.Equal(t, "trx-1", trxStore.setID)
	assert.Equal(t, "tok-1", trxStore.setToken)
	require.NotNil(t, res.Transaction.SessionToken)
	assert.Equal(t, "tok-1", *res.Transaction.SessionToken)
	require.NotNil(t, res.Transaction.RedirectURL)
	assert.Equal(t, "https://pay/abc", *res.Transaction.RedirectURL)
}

func TestCheckout_Validation(t *testing.T) {
	svc := &Service{}

	cases := []struct {
		name   string
		userID string
		mut    func(*Request)
	}{
		{"missing user", "", func(r *Request) {}},
		{"empty carts", "user-1", func(r *Request) { r.CartIDs = nil }},
		{"missing address", "user-1", func(r *Request) { r.AddressID = "" }},
		{"negative shipping fee", "user-1", func(r *Request) { r.ShippingFee = -1 }},
		{"missing courier", "user-1", func(r *Request) { r.Courier = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mut(&req)
			_, err := svc.Checkout(context.Background(), tc.userID, req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestCheckout_StoreErrorPassesThrough(t *testing.T) {
	store := &mockStore{err: ErrCartNotFound}
	svc := &Service{Store: store}

	res, err := svc.Checkout(context.Background(), "user-1", validRequest())
	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.Nil(t, res)
}

func TestCheckout_GatewayFailureLeavesTransactionPending(t *testing.T) {
	store := &mockStore{trx: pendingTrx(), quote: &pricing.Quote{GrandTotal: 25000}}
	trxStore := &mockTrxStore{}
	gw := &mockGateway{createErr: errors.New("gateway down")}
	svc := &Service{Store: store, Trx: trxStore, Gateway: gw, GatewayTimeout: time.Second}

	res, err := svc.Checkout(context.Background(), "user-1", validRequest())
	assert.ErrorIs(t, err, ErrSessionUnavailable)

	// the committed transaction still comes back so the caller can answer
	require.NotNil(t, res)
	assert.Equal(t, "trx-1", res.Transaction.ID)
	assert.Nil(t, res.Transaction.SessionToken)
	assert.Empty(t, trxStore.setID)
}

func TestRetrySession_CreatesMissingSession(t *testing.T) {
	trxStore := &mockTrxStore{trx: pendingTrx()}
	gw := &mockGateway{sess: &payment.Session{RedirectURL: "https://pay/retry", Token: "tok-2"}}
	svc := &Service{Trx: trxStore, Gateway: gw, GatewayTimeout: time.Second}

	trx, err := svc.RetrySession(context.Background(), "user-1", "trx-1")
	require.NoError(t, err)
	assert.Equal(t, 1, gw.calls)
	require.NotNil(t, trx.SessionToken)
	assert.Equal(t, "tok-2", *trx.SessionToken)
}

func TestRetrySession_IdempotentWhenSessionExists(t *testing.T) {
	tok := "existing"
	existing := pendingTrx()
	existing.SessionToken = &tok

	trxStore := &mockTrxStore{trx: existing}
	gw := &mockGateway{}
	svc := &Service{Trx: trxStore, Gateway: gw}

	trx, err := svc.RetrySession(context.Background(), "user-1", "trx-1")
	require.NoError(t, err)
	assert.Equal(t, 0, gw.calls)
	assert.Equal(t, &tok, trx.SessionToken)
}

func TestRetrySession_WrongOwner(t *testing.T) {
	trxStore := &mockTrxStore{trx: pendingTrx()}
	svc := &Service{Trx: trxStore}

	_, err := svc.RetrySession(context.Background(), "someone-else", "trx-1")
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestRetrySession_NotPending(t *testing.T) {
	settled := pendingTrx()
	settled.StatusPayment = transaction.PaymentSuccess

	trxStore := &mockTrxStore{trx: settled}
	svc := &Service{Trx: trxStore}

	_, err := svc.RetrySession(context.Background(), "user-1", "trx-1")
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestRetrySession_NotFound(t *testing.T) {
	trxStore := &mockTrxStore{getErr: transaction.ErrNotFound}
	svc := &Service{Trx: trxStore}

	_, err := svc.RetrySession(context.Background(), "user-1", "nope")
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}
