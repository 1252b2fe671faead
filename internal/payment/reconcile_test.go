package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raditya/go-olshop/internal/transaction"
)

type mockGetter struct {
	trx *transaction.Transaction
	err error
}

func (m *mockGetter) Get(_ context.Context, _ string) (*transaction.Transaction, error) {
	return m.trx, m.err
}

type mockStatusStore struct {
	out *Outcome
	err error

	gotID     string
	gotNext   transaction.PaymentStatus
	gotType   *string
	gotAt     time.Time
	applyCall int
}

func (m *mockStatusStore) ApplyStatus(_ context.Context, id string, next transaction.PaymentStatus, paymentType *string, at time.Time) (*Outcome, error) {
	m.applyCall++
	m.gotID, m.gotNext, m.gotType, m.gotAt = id, next, paymentType, at
	return m.out, m.err
}

type mockCancelGateway struct {
	cancelErr   error
	cancelCalls int
}

func (m *mockCancelGateway) CreateSession(_ context.Context, _ SessionRequest) (*Session, error) {
	return nil, errors.New("not used")
}

func (m *mockCancelGateway) CancelSession(_ context.Context, _ string) error {
	m.cancelCalls++
	return m.cancelErr
}

func pendingTrx() *transaction.Transaction {
	return &transaction.Transaction{
		ID:            "trx-1",
		UserID:        "user-1",
		StatusPayment: transaction.PaymentPending,
	}
}

func TestHandleCallback_SettlementMovesToSuccess(t *testing.T) {
	store := &mockStatusStore{out: &Outcome{
		TransactionID: "trx-1", UserID: "user-1",
		Status: transaction.PaymentSuccess, Moved: true,
	}}
	gw := &mockCancelGateway{}
	r := &Reconciler{Trx: &mockGetter{trx: pendingTrx()}, Store: store, Gateway: gw}

	out, err := r.HandleCallback(context.Background(), Callback{
		OrderID:           "trx-1",
		TransactionStatus: "settlement",
		PaymentType:       "bank_transfer",
		TransactionTime:   "2025-06-15 12:00:00",
	})
	require.NoError(t, err)

	assert.True(t, out.Moved)
	assert.Equal(t, transaction.PaymentSuccess, out.Status)
	assert.Equal(t, transaction.PaymentSuccess, store.gotNext)
	require.NotNil(t, store.gotType)
	assert.Equal(t, "bank_transfer", *store.gotType)
	assert.Equal(t, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC), store.gotAt)
	assert.Equal(t, 0, gw.cancelCalls)
}

func TestHandleCallback_PendingKeywordIsNoOp(t *testing.T) {
	store := &mockStatusStore{}
	r := &Reconciler{Trx: &mockGetter{trx: pendingTrx()}, Store: store, Gateway: &mockCancelGateway{}}

	out, err := r.HandleCallback(context.Background(), Callback{
		OrderID: "trx-1", TransactionStatus: "pending",
	})
	require.NoError(t, err)

	assert.False(t, out.Moved)
	assert.Equal(t, transaction.PaymentPending, out.Status)
	assert.Equal(t, 0, store.applyCall)
}

func TestHandleCallback_DuplicateDeliveryIsNoOp(t *testing.T) {
	settled := pendingTrx()
	settled.StatusPayment = transaction.PaymentSuccess

	store := &mockStatusStore{}
	gw := &mockCancelGateway{}
	r := &Reconciler{Trx: &mockGetter{trx: settled}, Store: store, Gateway: gw}

	out, err := r.HandleCallback(context.Background(), Callback{
		OrderID: "trx-1", TransactionStatus: "cancel",
	})
	require.NoError(t, err)

	assert.False(t, out.Moved)
	assert.Equal(t, transaction.PaymentSuccess, out.Status)
	// no store write, no gateway-side cancel for an already-settled row
	assert.Equal(t, 0, store.applyCall)
	assert.Equal(t, 0, gw.cancelCalls)
}

func TestHandleCallback_UnknownStatus(t *testing.T) {
	r := &Reconciler{}

	_, err := r.HandleCallback(context.Background(), Callback{
		OrderID: "trx-1", TransactionStatus: "refund",
	})
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestHandleCallback_UnknownTransaction(t *testing.T) {
	r := &Reconciler{Trx: &mockGetter{err: transaction.ErrNotFound}}

	_, err := r.HandleCallback(context.Background(), Callback{
		OrderID: "nope", TransactionStatus: "settlement",
	})
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestHandleCallback_CancelRequiresGatewaySuccess(t *testing.T) {
	store := &mockStatusStore{}
	gw := &mockCancelGateway{cancelErr: errors.New("upstream 500")}
	r := &Reconciler{Trx: &mockGetter{trx: pendingTrx()}, Store: store, Gateway: gw}

	_, err := r.HandleCallback(context.Background(), Callback{
		OrderID: "trx-1", TransactionStatus: "cancel",
	})

	assert.ErrorIs(t, err, ErrCancelFailed)
	assert.Equal(t, 1, gw.cancelCalls)
	assert.Equal(t, 0, store.applyCall)
}

func TestHandleCallback_CancelAppliesAfterGatewayConfirms(t *testing.T) {
	store := &mockStatusStore{out: &Outcome{
		TransactionID: "trx-1", UserID: "user-1",
		Status: transaction.PaymentCancelled, Moved: true,
	}}
	gw := &mockCancelGateway{}
	r := &Reconciler{Trx: &mockGetter{trx: pendingTrx()}, Store: store, Gateway: gw}

	out, err := r.HandleCallback(context.Background(), Callback{
		OrderID: "trx-1", TransactionStatus: "cancel",
	})
	require.NoError(t, err)

	assert.True(t, out.Moved)
	assert.Equal(t, 1, gw.cancelCalls)
	assert.Equal(t, transaction.PaymentCancelled, store.gotNext)
}

func TestHandleCallback_LostRaceStaysQuiet(t *testing.T) {
	store := &mockStatusStore{out: &Outcome{
		TransactionID: "trx-1", UserID: "user-1",
		Status: transaction.PaymentPending, Moved: false,
	}}
	r := &Reconciler{Trx: &mockGetter{trx: pendingTrx()}, Store: store, Gateway: &mockCancelGateway{}}

	out, err := r.HandleCallback(context.Background(), Callback{
		OrderID: "trx-1", TransactionStatus: "deny",
	})
	require.NoError(t, err)
	assert.False(t, out.Moved)
}

func TestMapGatewayStatus(t *testing.T) {
	cases := map[string]transaction.PaymentStatus{
		"pending":    transaction.PaymentPending,
		"settlement": transaction.PaymentSuccess,
		"deny":       transaction.PaymentFailed,
		"expire":     transaction.PaymentExpired,
		"cancel":     transaction.PaymentCancelled,
	}
	for keyword, want := range cases {
		got, err := MapGatewayStatus(keyword)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := MapGatewayStatus("capture")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestStatusTime(t *testing.T) {
	got := statusTime("2025-06-15 09:30:00")
	assert.Equal(t, time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC), got)

	// garbage falls back to now
	before := time.Now().UTC()
	fallback := statusTime("not-a-time")
	assert.False(t, fallback.Before(before.Add(-time.Second)))
}
