package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raditya/go-olshop/internal/cart"
	"github.com/raditya/go-olshop/internal/pricing"
)

// The cart line snapshots a price when it is added; checkout charges the
// product's current price. The item rows must carry the charged price.
func TestToItemDetails_UsesQuotePriceNotCartSnapshot(t *testing.T) {
	lines := []cart.CheckoutLine{
		{CartID: "c1", ProductID: "p1", Qty: 2, Price: 12000}, // current product price
	}

	quote, err := pricing.Compute(toPricingLines(lines), nil, 0, time.Now().UTC())
	require.NoError(t, err)

	items := toItemDetails(quote.Lines)
	require.Len(t, items, 1)
	assert.Equal(t, "c1", items[0].CartID)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 2, items[0].Qty)
	assert.Equal(t, int64(12000), items[0].Price)

	// the item totals reproduce the stored grand total
	var sum int64
	for _, it := range items {
		sum += it.Price * int64(it.Qty)
	}
	assert.Equal(t, quote.GrandTotal, sum)
}

func TestToItemDetails_PromoPriceWins(t *testing.T) {
	pp := int64(9000)
	lines := []cart.CheckoutLine{
		{CartID: "c1", ProductID: "p1", Qty: 1, Price: 12000, PromoPrice: &pp},
	}

	quote, err := pricing.Compute(toPricingLines(lines), nil, 0, time.Now().UTC())
	require.NoError(t, err)

	items := toItemDetails(quote.Lines)
	require.Len(t, items, 1)
	assert.Equal(t, int64(9000), items[0].Price)
}
