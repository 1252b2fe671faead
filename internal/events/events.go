package events

import (
	"encoding/json"
	"time"
)

const (
	EventTransactionCreated   = "TransactionCreated"
	EventPaymentStatusChanged = "PaymentStatusChanged"
	EventStockRejected        = "StockRejected"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // usually transaction_id
	Payload       json.RawMessage `json:"payload"`
}

type ItemQty struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type TransactionCreatedPayload struct {
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	Items         []ItemQty `json:"items"`
	Discount      int64     `json:"discount"`
	Total         int64     `json:"total"`
}

type PaymentStatusPayload struct {
	TransactionID string `json:"transaction_id"`
	UserID        string `json:"user_id"`
	StatusPayment string `json:"status_payment"`
	PaymentType   string `json:"payment_type,omitempty"`
}

type StockShortage struct {
	ProductID string `json:"product_id"`
	Required  int    `json:"required"`
	Available int    `json:"available"`
}

type StockRejectedPayload struct {
	UserID  string          `json:"user_id"`
	Reason  string          `json:"reason"` // e.g. OUT_OF_STOCK
	Details []StockShortage `json:"details,omitempty"`
}
