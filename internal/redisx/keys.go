package redisx

import "time"

const (
	// Cache payment status per transaction: trx_status:{transaction_id} -> {"status_payment": "..."}
	KeyTrxStatus = "trx_status:%s"

	// Dedup event processing: dedup:{consumer}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
