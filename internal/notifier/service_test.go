package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raditya/go-olshop/internal/events"
	kafkax "github.com/raditya/go-olshop/internal/kafka"
	"github.com/raditya/go-olshop/internal/redisx"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func statusMessage(t *testing.T, eventID, trxID, status string) kafkago.Message {
	t.Helper()
	env := events.Envelope{
		EventID:      eventID,
		EventType:    events.EventPaymentStatusChanged,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "olshop-api",
		Payload: kafkax.MustMarshal(events.PaymentStatusPayload{
			TransactionID: trxID,
			UserID:        "user-1",
			StatusPayment: status,
		}),
	}
	return kafkago.Message{Value: kafkax.MustMarshal(env)}
}

func TestHandlePaymentStatus_RefreshesStatusCache(t *testing.T) {
	rdb := setupRedis(t)
	svc := &Service{Redis: rdb, ServiceName: "olshop-notifier"}
	ctx := context.Background()

	err := svc.HandlePaymentStatus(ctx, statusMessage(t, "ev-1", "trx-1", "Success"))
	require.NoError(t, err)

	raw, err := rdb.Get(ctx, fmt.Sprintf(redisx.KeyTrxStatus, "trx-1")).Result()
	require.NoError(t, err)

	var cached map[string]string
	require.NoError(t, json.Unmarshal([]byte(raw), &cached))
	assert.Equal(t, "Success", cached["status_payment"])
}

func TestHandlePaymentStatus_DedupOnEventID(t *testing.T) {
	rdb := setupRedis(t)
	svc := &Service{Redis: rdb, ServiceName: "olshop-notifier"}
	ctx := context.Background()

	require.NoError(t, svc.HandlePaymentStatus(ctx, statusMessage(t, "ev-1", "trx-1", "Success")))

	// same event id again, but a different status; the cache must not move
	require.NoError(t, svc.HandlePaymentStatus(ctx, statusMessage(t, "ev-1", "trx-1", "Failed")))

	raw, err := rdb.Get(ctx, fmt.Sprintf(redisx.KeyTrxStatus, "trx-1")).Result()
	require.NoError(t, err)
	assert.Contains(t, raw, "Success")
}

func TestHandlePaymentStatus_IgnoresOtherEventTypes(t *testing.T) {
	rdb := setupRedis(t)
	svc := &Service{Redis: rdb, ServiceName: "olshop-notifier"}
	ctx := context.Background()

	env := events.Envelope{
		EventID:   "ev-2",
		EventType: events.EventTransactionCreated,
		Payload:   kafkax.MustMarshal(events.TransactionCreatedPayload{TransactionID: "trx-9"}),
	}
	require.NoError(t, svc.HandlePaymentStatus(ctx, kafkago.Message{Value: kafkax.MustMarshal(env)}))

	_, err := rdb.Get(ctx, fmt.Sprintf(redisx.KeyTrxStatus, "trx-9")).Result()
	assert.ErrorIs(t, err, redis.Nil)
}

func TestHandlePaymentStatus_BadEnvelope(t *testing.T) {
	svc := &Service{Redis: setupRedis(t), ServiceName: "olshop-notifier"}
	err := svc.HandlePaymentStatus(context.Background(), kafkago.Message{Value: []byte("{not json")})
	assert.Error(t, err)
}
