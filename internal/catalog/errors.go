package catalog

import (
	"errors"
	"fmt"
)

var ErrProductNotFound = errors.New("product not found")

// InsufficientStockError reports the first line whose decrement would go below zero.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
