package events

const (
	TopicTransactionCreated = "trx.created"
	TopicPaymentStatus      = "trx.payment.status"
	TopicStockRejected      = "trx.stock.rejected"
)

// Partition key = transaction_id so events of one transaction keep their order.
func PartitionKey(transactionID string) []byte { return []byte(transactionID) }
