package promo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActiveWithin(t *testing.T) {
	activeAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	expiresAt := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	p := &Promo{ActiveAt: activeAt, ExpiresAt: expiresAt}

	assert.False(t, p.ActiveWithin(activeAt.Add(-time.Second)))
	assert.True(t, p.ActiveWithin(activeAt)) // start inclusive
	assert.True(t, p.ActiveWithin(activeAt.Add(24*time.Hour)))
	assert.False(t, p.ActiveWithin(expiresAt)) // end exclusive
	assert.False(t, p.ActiveWithin(expiresAt.Add(time.Second)))
}
