package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"github.com/raditya/go-olshop/internal/events"
	kafkax "github.com/raditya/go-olshop/internal/kafka"
	"github.com/raditya/go-olshop/internal/redisx"
)

// Service consumes payment-status events: it keeps the per-transaction status
// cache warm so reads stay off the database, and raises an operational alert
// for payments that failed or expired.
type Service struct {
	Redis       *redis.Client
	ServiceName string
}

func (s *Service) HandlePaymentStatus(ctx context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != events.EventPaymentStatusChanged {
		return nil
	}

	// dedup on event_id; redeliveries are expected
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if seen, _ := redisx.Exists(ctx, s.Redis, dkey); seen {
		return nil
	}

	p, err := kafkax.UnwrapPayload[events.PaymentStatusPayload](env.Payload)
	if err != nil {
		return err
	}

	skey := fmt.Sprintf(redisx.KeyTrxStatus, p.TransactionID)
	body, _ := json.Marshal(map[string]string{"status_payment": p.StatusPayment})
	if err := s.Redis.Set(ctx, skey, body, redisx.TTLStatusCache).Err(); err != nil {
		return err
	}

	switch p.StatusPayment {
	case "Failed", "Expired":
		log.WithFields(log.Fields{
			"transaction_id": p.TransactionID,
			"user_id":        p.UserID,
			"status":         p.StatusPayment,
		}).Warn("payment did not complete")
	}

	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	return nil
}
