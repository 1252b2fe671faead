package notification

import "time"

type Notification struct {
	ID            string
	UserID        string
	TransactionID *string
	Title         string
	Body          string
	IsRead        bool
	IsDeleted     bool
	CreatedAt     time.Time
}
