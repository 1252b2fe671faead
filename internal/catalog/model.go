package catalog

import "time"

type Product struct {
	ID         string
	Name       string
	Price      int64  // minor currency units
	PromoPrice *int64 // overrides Price while set
	Stock      int
	IsDeleted  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StockEntry records one supplier delivery that increased a product's stock.
type StockEntry struct {
	ID          string
	SupplierID  string
	ProductID   string
	StockIn     int
	DateStockIn time.Time
}
