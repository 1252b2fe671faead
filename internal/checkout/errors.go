package checkout

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid checkout request")
	ErrCartNotFound       = errors.New("cart lines not found for user")
	ErrNotOwner           = errors.New("transaction belongs to another user")
	ErrNotPending         = errors.New("transaction is no longer pending")
	ErrSessionUnavailable = errors.New("payment session could not be created")
)
